package idtokenvalidation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/oidcrp/go-idtoken-validation/validator"
)

// Metric names recorded by the middleware.
const (
	MetricValidations        = "idtoken_validations_total"
	MetricValidationDuration = "idtoken_validation_duration_seconds"
)

// ParseToken turns a compact-encoded ID token into a DecodedToken,
// verifying its signature along the way. JWXParser provides a default
// implementation; anything satisfying the signature can be plugged in.
type ParseToken func(ctx context.Context, raw string) (*validator.DecodedToken, error)

// Middleware validates the ID token delivered to a relying party's
// redirect endpoint before the wrapped handler consumes its claims.
type Middleware struct {
	parseToken          ParseToken
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	codeExtractor       ValueExtractor
	nonceExtractor      ValueExtractor
	algorithmMap        map[string]string
	credentialsOptional bool
	logger              Logger
	metrics             Metrics
	tracer              Tracer
}

// New constructs a new Middleware instance with the supplied options.
// WithParseToken is effectively required; the default panics when a
// token arrives, to fail loudly on misconfiguration.
func New(opts ...Option) *Middleware {
	m := &Middleware{
		parseToken: func(context.Context, string) (*validator.DecodedToken, error) {
			panic("parse token not configured: use WithParseToken")
		},
		errorHandler:   DefaultErrorHandler,
		tokenExtractor: FormTokenExtractor,
		codeExtractor:  FormCodeExtractor,
		nonceExtractor: CookieValueExtractor("oidc_nonce"),
		logger:         &NoopLogger{},
		metrics:        &NoopMetrics{},
		tracer:         &NoopTracer{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// CheckIDToken wraps next with ID token validation. On success the
// decoded token is stored in the request context; retrieve it with
// TokenFromContext.
func (m *Middleware) CheckIDToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		span := m.tracer.StartSpan("idtoken.validate")
		defer span.Finish()

		raw, err := m.tokenExtractor(r)
		if err != nil {
			// This is not ErrTokenMissing because an error here means
			// the extractor had an error and not that the token was
			// missing.
			m.logger.Errorf("failed to extract id token: %v", err)
			m.count("extract_error")
			m.errorHandler(w, r, fmt.Errorf("error extracting id token: %w", err))
			return
		}

		if raw == "" {
			if m.credentialsOptional {
				m.logger.Debugf("no id token on request, continuing (credentials optional)")
				next.ServeHTTP(w, r)
				return
			}

			m.count("missing")
			m.errorHandler(w, r, ErrTokenMissing)
			return
		}

		token, err := m.parseToken(r.Context(), raw)
		if err != nil {
			m.logger.Warnf("id token failed to parse or verify: %v", err)
			m.count("parse_error")
			m.errorHandler(w, r, &invalidError{details: err})
			return
		}

		params, err := m.validationParameters(r)
		if err != nil {
			m.count("extract_error")
			m.errorHandler(w, r, err)
			return
		}

		if err := validator.Validate(token, params); err != nil {
			m.logger.Warnf("id token validation failed: %v", err)
			span.SetTag("idtoken.valid", false)
			m.count("invalid")
			m.errorHandler(w, r, &invalidError{details: err})
			return
		}

		span.SetTag("idtoken.valid", true)
		m.count("valid")
		m.metrics.ObserveHistogram(MetricValidationDuration, time.Since(start).Seconds(), nil)

		r = r.Clone(SetToken(r.Context(), token))
		next.ServeHTTP(w, r)
	})
}

// validationParameters collects the per-request binding material. An
// absent code or nonce disables the corresponding check rather than
// failing the request; the validator's skip semantics apply.
func (m *Middleware) validationParameters(r *http.Request) (*validator.ValidationParameters, error) {
	code, err := m.codeExtractor(r)
	if err != nil {
		return nil, fmt.Errorf("error extracting authorization code: %w", err)
	}

	nonce, err := m.nonceExtractor(r)
	if err != nil {
		return nil, fmt.Errorf("error extracting nonce: %w", err)
	}

	return &validator.ValidationParameters{
		Nonce:             nonce,
		AuthorizationCode: code,
		AlgorithmMap:      m.algorithmMap,
	}, nil
}

func (m *Middleware) count(result string) {
	m.metrics.IncCounter(MetricValidations, map[string]string{"result": result})
}
