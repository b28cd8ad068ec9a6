package hex

import (
	"bytes"
	"testing"

	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hexhex/core/evalgraph"
)

func TestNoopObserverDiscardsEvents(t *testing.T) {
	require.NotPanics(t, func() {
		NoopObserver{}.OnEvent(Event{Kind: "whatever"})
	})
}

func TestLogObserverRendersKindAsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})

	LogObserver{Logger: logger}.OnEvent(Event{
		Kind:     "model-accepted",
		EvalUnit: 3,
		Fields:   map[string]interface{}{"founded": true},
	})

	out := buf.String()
	require.Contains(t, out, "model-accepted")
	require.Contains(t, out, "eval_unit=3")
	require.Contains(t, out, "founded=true")
}

func TestTracingObserverOpensAndClosesOneSpanPerUnitActivation(t *testing.T) {
	tracer := mocktracer.New()
	obs := NewTracingObserver(tracer)

	unit := evalgraph.UnitID(2)
	obs.OnEvent(Event{Kind: "unit-activated", EvalUnit: unit})
	obs.OnEvent(Event{Kind: "model-accepted", EvalUnit: unit, Fields: map[string]interface{}{"founded": true}})
	obs.OnEvent(Event{Kind: "unit-exhausted", EvalUnit: unit})

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "eval-unit", spans[0].OperationName)
	require.Equal(t, unit, spans[0].Tag("eval_unit"))
}
