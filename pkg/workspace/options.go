package workspace

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/persist"
)

type options struct {
	logger   *log.Logger
	defaults layout.Layout
	delay    time.Duration
	timeout  time.Duration
}

func buildOptions(opts []Option) options {
	o := options{
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		delay:   persist.DefaultDelay,
		timeout: persist.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Workspace or a Manager. Options passed to a Manager
// apply to every workspace it creates.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDefaults replaces the default layout template.
func WithDefaults(d layout.Layout) Option {
	return func(o *options) { o.defaults = d.Clone() }
}

// WithDebounce sets the quiet period before a change is saved.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

// WithSaveTimeout bounds each save.
func WithSaveTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}
