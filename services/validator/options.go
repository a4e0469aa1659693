package validator

// Options tune a single Validate call.
type Options struct {
	skipSignatureCheck bool
	skipPrefetch       bool
}

type Option func(*Options)

func ProcessOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// WithSkipSignatureCheck leaves out the sender signature check so unsigned
// drafts can be checked.
func WithSkipSignatureCheck(skip bool) Option {
	return func(o *Options) { o.skipSignatureCheck = skip }
}

// WithSkipPrefetch makes the resolver fetch prior transactions lazily, one
// input at a time.
func WithSkipPrefetch(skip bool) Option {
	return func(o *Options) { o.skipPrefetch = skip }
}
