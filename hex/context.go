package hex

import (
	"context"

	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// Context bundles cancellation, a structured logger, the Observer event
// sink and a correlation ID. The registry, grounder, solver and builder
// packages do not take a Context; callers emit events through it.
type Context struct {
	context.Context
	id       uuid.UUID
	logger   *logrus.Entry
	observer Observer
}

// ContextOption configures a Context at construction time.
type ContextOption func(*Context)

// WithLogger overrides the default logger.
func WithLogger(logger *logrus.Entry) ContextOption {
	return func(c *Context) { c.logger = logger }
}

// WithObserver overrides the default (no-op) Observer.
func WithObserver(o Observer) ContextOption {
	return func(c *Context) { c.observer = o }
}

// NewContext wraps parent with the evaluation core's ambient state and
// one fresh correlation ID per call, which Emit stamps on every event.
func NewContext(parent context.Context, opts ...ContextOption) *Context {
	c := &Context{
		Context:  parent,
		id:       uuid.NewV4(),
		logger:   logrus.NewEntry(logrus.StandardLogger()),
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetLogger returns this context's structured logger, the hex
// counterpart of the teacher's ctx.GetLogger().
func (c *Context) GetLogger() *logrus.Entry { return c.logger }

// Observer returns this context's event sink.
func (c *Context) Observer() Observer { return c.observer }

// ID returns this context's correlation ID.
func (c *Context) ID() uuid.UUID { return c.id }

// Emit reports an event to this context's observer, filling in Fields["correlation_id"].
func (c *Context) Emit(e Event) {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields["correlation_id"] = c.id.String()
	c.observer.OnEvent(e)
}
