package idtokenvalidation

// Option is how options for the Middleware are set up.
type Option func(*Middleware)

// WithParseToken sets the function that deserializes and
// signature-verifies the compact token before validation. See JWXParser
// for the default implementation callers usually want.
func WithParseToken(p ParseToken) Option {
	return func(m *Middleware) {
		m.parseToken = p
	}
}

// WithErrorHandler sets the handler called when validation fails.
//
// Default: DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Middleware) {
		m.errorHandler = h
	}
}

// WithTokenExtractor sets the function used to pull the ID token off
// the request.
//
// Default: FormTokenExtractor.
func WithTokenExtractor(e TokenExtractor) Option {
	return func(m *Middleware) {
		m.tokenExtractor = e
	}
}

// WithCodeExtractor sets the function used to pull the authorization
// code off the request for c_hash validation. An extractor returning
// an empty string disables the check for that request.
//
// Default: FormCodeExtractor.
func WithCodeExtractor(e ValueExtractor) Option {
	return func(m *Middleware) {
		m.codeExtractor = e
	}
}

// WithNonceExtractor sets the function used to recover the nonce the
// relying party issued with the authentication request. An extractor
// returning an empty string disables the check for that request.
//
// Default: CookieValueExtractor("oidc_nonce").
func WithNonceExtractor(e ValueExtractor) Option {
	return func(m *Middleware) {
		m.nonceExtractor = e
	}
}

// WithAlgorithmMap sets the algorithm map forwarded to c_hash
// validation, bridging JOSE algorithm names to locally resolvable
// digest names.
func WithAlgorithmMap(algorithmMap map[string]string) Option {
	return func(m *Middleware) {
		m.algorithmMap = algorithmMap
	}
}

// WithCredentialsOptional makes requests without an ID token pass
// through unvalidated instead of being rejected.
//
// Default: false (a token is required).
func WithCredentialsOptional(value bool) Option {
	return func(m *Middleware) {
		m.credentialsOptional = value
	}
}

// WithLogger sets the logger used by the middleware. Adapters for
// logrus, zap and zerolog are provided.
//
// Default: NoopLogger.
func WithLogger(l Logger) Option {
	return func(m *Middleware) {
		m.logger = l
	}
}

// WithMetrics sets the metrics sink. NewPrometheusMetrics provides a
// Prometheus-backed implementation.
//
// Default: NoopMetrics.
func WithMetrics(metrics Metrics) Option {
	return func(m *Middleware) {
		m.metrics = metrics
	}
}

// WithTracer sets the tracer. NewOpenTelemetryTracer provides an
// OpenTelemetry-backed implementation.
//
// Default: NoopTracer.
func WithTracer(t Tracer) Option {
	return func(m *Middleware) {
		m.tracer = t
	}
}
