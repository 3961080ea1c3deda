package profilefeed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt-insight/models"
)

func receive(t *testing.T, ch <-chan models.UserProfile) models.UserProfile {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(time.Second):
		t.Fatal("no profile update received")
		return models.UserProfile{}
	}
}

func TestHub_DeliversOnlyToMatchingUID(t *testing.T) {
	hub := NewHub()
	a, stopA := hub.Subscribe("a")
	defer stopA()
	b, stopB := hub.Subscribe("b")
	defer stopB()

	hub.Publish(models.UserProfile{UID: "a", Credits: 1})

	assert.Equal(t, 1, receive(t, a).Credits)
	select {
	case p := <-b:
		t.Fatalf("unexpected update for b: %+v", p)
	default:
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, stop := hub.Subscribe("a")
	require.Equal(t, 1, hub.Subscribers("a"))

	stop()
	stop()

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, hub.Subscribers("a"))
	hub.Publish(models.UserProfile{UID: "a"})
}

func TestHub_SlowSubscriberKeepsLatest(t *testing.T) {
	hub := NewHub()
	ch, stop := hub.Subscribe("a")
	defer stop()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(models.UserProfile{UID: "a", Credits: i})
	}

	var last models.UserProfile
	for i := 0; i < subscriberBuffer; i++ {
		last = receive(t, ch)
	}
	assert.Equal(t, subscriberBuffer+4, last.Credits)
}
