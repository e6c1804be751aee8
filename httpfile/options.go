package httpfile

import "net/http"

type options struct {
	filename string
	vars     map[string]string
	client   func() *http.Client
	env      *Env
}

// Option configures Parse.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFilename sets the name reported in syntax errors.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithVars fills `{name}` placeholders at parse time. The named placeholders
// do not become parameters.
func WithVars(vars map[string]string) Option {
	return func(o *options) {
		if o.vars == nil {
			o.vars = make(map[string]string, len(vars))
		}
		for k, v := range vars {
			o.vars[k] = v
		}
	}
}

// WithClient sets the function that supplies the client of each request.
// Without it every request is sent with a new http.Client.
func WithClient(supplier func() *http.Client) Option {
	return func(o *options) {
		o.client = supplier
	}
}

// WithEnv sets the environment `{{NAME}}` placeholders are read from.
// Without it the process environment and ./.env are used.
func WithEnv(env *Env) Option {
	return func(o *options) {
		o.env = env
	}
}

func (o *options) httpClient() *http.Client {
	if o.client != nil {
		if c := o.client(); c != nil {
			return c
		}
	}
	return &http.Client{}
}

func (o *options) environment() *Env {
	if o.env != nil {
		return o.env
	}
	return DefaultEnv()
}
