package hex

import (
	"github.com/hexhex/core/evalgraph"
	"github.com/hexhex/core/modelgraph"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// Event is one structured occurrence in the evaluation core worth
// surfacing to an observer (SPEC_FULL §5): a unit activation, a model
// being accepted or rejected as unfounded, a backend retry. Fields
// carries whatever extra structured data the event kind wants, rendered
// as logrus fields by LogObserver or as span tags by an
// opentracing-backed observer.
type Event struct {
	Kind     string
	EvalUnit evalgraph.UnitID
	Model    modelgraph.ModelID
	Fields   map[string]interface{}
}

// Observer is the presentation-decoupled event sink that replaces a
// global logger with ad hoc indentation (SPEC_FULL §5, §9 design note):
// core code only ever calls OnEvent, never formats text for a terminal
// directly.
type Observer interface {
	OnEvent(Event)
}

// NoopObserver discards every event; the zero-configuration default.
type NoopObserver struct{}

func (NoopObserver) OnEvent(Event) {}

// LogObserver renders events as structured logrus entries, one field per
// Event.Fields key, plus eval_unit when EvalUnit is non-zero and model_id
// always.
type LogObserver struct {
	Logger *logrus.Logger
}

func (o LogObserver) OnEvent(e Event) {
	fields := logrus.Fields{}
	for k, v := range e.Fields {
		fields[k] = v
	}
	if e.EvalUnit != 0 {
		fields["eval_unit"] = e.EvalUnit
	}
	fields["model_id"] = e.Model
	o.Logger.WithFields(fields).Debug(e.Kind)
}

// TracingObserver turns an eval unit's activation into an opentracing
// span, closed when the matching "unit-exhausted" event for the same
// unit arrives (SPEC_FULL §5: "an opentracing-backed observer turns unit
// activations into spans"). Any other event is recorded as span tags and
// a log entry on the open span of its own EvalUnit, and dropped if that
// unit has no open span.
type TracingObserver struct {
	Tracer opentracing.Tracer
	spans  map[evalgraph.UnitID]opentracing.Span
}

// NewTracingObserver wraps tracer (or the global tracer if nil).
func NewTracingObserver(tracer opentracing.Tracer) *TracingObserver {
	if tracer == nil {
		tracer = opentracing.GlobalTracer()
	}
	return &TracingObserver{Tracer: tracer, spans: make(map[evalgraph.UnitID]opentracing.Span)}
}

func (o *TracingObserver) OnEvent(e Event) {
	switch e.Kind {
	case "unit-activated":
		span := o.Tracer.StartSpan("eval-unit")
		span.SetTag("eval_unit", e.EvalUnit)
		o.spans[e.EvalUnit] = span
	case "unit-exhausted":
		if span, ok := o.spans[e.EvalUnit]; ok {
			span.Finish()
			delete(o.spans, e.EvalUnit)
		}
	default:
		if span, ok := o.spans[e.EvalUnit]; ok {
			for k, v := range e.Fields {
				span.SetTag(k, v)
			}
			span.LogKV("event", e.Kind, "model_id", e.Model)
		}
	}
}
