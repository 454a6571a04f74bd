package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_FanOut(t *testing.T) {
	hub := NewHub()

	ch1, cancel1 := hub.Subscribe()
	ch2, cancel2 := hub.Subscribe()
	defer cancel1()
	defer cancel2()

	hub.Success("Success", "Welcome, Jane!")

	for _, ch := range []<-chan Notification{ch1, ch2} {
		n := <-ch
		assert.Equal(t, LevelSuccess, n.Level)
		assert.Equal(t, "Success", n.Title)
		assert.Equal(t, "Welcome, Jane!", n.Message)
		assert.NotEmpty(t, n.ID)
		assert.False(t, n.Time.IsZero())
	}
}

func TestHub_Levels(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Error("Error", "something broke")
	hub.Info("Info", "heads up")

	assert.Equal(t, LevelError, (<-ch).Level)
	assert.Equal(t, LevelInfo, (<-ch).Level)
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	cancel()

	// The channel is closed and publishing after cancel does not panic.
	_, open := <-ch
	require.False(t, open)
	hub.Info("Info", "late message")

	// Cancelling twice is safe.
	cancel()
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	// Overfill the buffer; publish must return without a consumer draining.
	for i := 0; i < 32; i++ {
		hub.Info("Info", "burst")
	}
	assert.Len(t, ch, 16)
}
