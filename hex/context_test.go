package hex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []Event
}

func (r *recordingObserver) OnEvent(e Event) {
	r.events = append(r.events, e)
}

func TestNewContextDefaultsToNoopObserverAndFreshID(t *testing.T) {
	c1 := NewContext(context.Background())
	c2 := NewContext(context.Background())

	require.NotEqual(t, c1.ID(), c2.ID())
	require.NotNil(t, c1.GetLogger())
}

func TestEmitStampsCorrelationIDAndForwardsToObserver(t *testing.T) {
	rec := &recordingObserver{}
	c := NewContext(context.Background(), WithObserver(rec))

	c.Emit(Event{Kind: "unit-activated"})

	require.Len(t, rec.events, 1)
	require.Equal(t, "unit-activated", rec.events[0].Kind)
	require.Equal(t, c.ID().String(), rec.events[0].Fields["correlation_id"])
}
