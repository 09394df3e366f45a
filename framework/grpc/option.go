package grpcidtoken

// Option is how options for the Interceptor are set up.
type Option func(*Interceptor)

// WithAlgorithmMap remaps JOSE algorithm names to local digest names
// when computing c_hash. The map is passed through to the validator
// untouched.
func WithAlgorithmMap(m map[string]string) Option {
	return func(i *Interceptor) {
		i.algorithmMap = m
	}
}

// WithCredentialsOptional lets requests without an x-id-token metadata
// value through to the handler unauthenticated. Defaults to false.
func WithCredentialsOptional(value bool) Option {
	return func(i *Interceptor) {
		i.credentialsOptional = value
	}
}

// WithExcludedMethods skips validation entirely for the given full
// method names (e.g. "/package.Service/Method").
func WithExcludedMethods(methods ...string) Option {
	return func(i *Interceptor) {
		for _, m := range methods {
			i.exclusions[m] = struct{}{}
		}
	}
}
