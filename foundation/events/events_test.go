package events_test

import (
	"testing"

	"github.com/ardanlabs/jackcoin/foundation/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents(t *testing.T) {
	evts := events.New()

	ch1 := evts.Acquire("one")
	ch2 := evts.Acquire("two")
	assert.Equal(t, ch1, evts.Acquire("one"), "acquiring twice returns the same channel")
	assert.Equal(t, 2, evts.Count())

	evts.Send("block mined")
	assert.Equal(t, "block mined", <-ch1)
	assert.Equal(t, "block mined", <-ch2)

	require.NoError(t, evts.Release("one"))
	_, open := <-ch1
	assert.False(t, open, "release closes the channel")
	assert.Error(t, evts.Release("one"))

	evts.Shutdown()
	_, open = <-ch2
	assert.False(t, open, "shutdown closes every channel")
	assert.Equal(t, 0, evts.Count())
}

func TestEventsDropWhenFull(t *testing.T) {
	evts := events.New()
	defer evts.Shutdown()

	ch := evts.Acquire("slow")
	for range 500 {
		evts.Send("tick")
	}

	assert.Equal(t, cap(ch), len(ch), "send never blocks on a full receiver")
}
