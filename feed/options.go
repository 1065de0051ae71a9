package feed

import (
	"time"

	"github.com/jrsteele09/go-social-client/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultDebounceDelay is the quiet period before a search edit triggers a reload.
const DefaultDebounceDelay = 1000 * time.Millisecond

type options struct {
	log           zerolog.Logger
	metrics       *metrics.Client
	name          string
	clock         Clock
	debounceDelay time.Duration
}

// Option configures a Synchronizer or List.
type Option func(*options)

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

func WithMetrics(m *metrics.Client) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithName labels logs and metrics with the resource name (e.g. "posts").
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func WithDebounceDelay(d time.Duration) Option {
	return func(o *options) {
		o.debounceDelay = d
	}
}

func newOptions(opts []Option) options {
	o := options{
		log:           log.Logger,
		name:          "feed",
		clock:         realClock{},
		debounceDelay: DefaultDebounceDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
