package profilefeed

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"yt-insight/config"
	"yt-insight/models"
)

const subscriberBuffer = 8

// Hub fans profile updates out to live subscribers keyed by uid.
// Slow subscribers lose intermediate updates; the latest state always wins.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan models.UserProfile]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan models.UserProfile]struct{})}
}

// Subscribe registers a listener for uid. Call the returned func to stop listening.
func (h *Hub) Subscribe(uid string) (<-chan models.UserProfile, func()) {
	ch := make(chan models.UserProfile, subscriberBuffer)

	h.mu.Lock()
	if h.subs[uid] == nil {
		h.subs[uid] = make(map[chan models.UserProfile]struct{})
	}
	h.subs[uid][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[uid], ch)
			if len(h.subs[uid]) == 0 {
				delete(h.subs, uid)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers p to every subscriber of p.UID.
func (h *Hub) Publish(p models.UserProfile) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[p.UID] {
		select {
		case ch <- p:
		default:
			// drop the oldest queued update to make room
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- p:
			default:
			}
		}
	}
}

// Subscribers returns the number of live subscriptions for uid.
func (h *Hub) Subscribers(uid string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[uid])
}

// ChangeSource opens a change stream over stored profiles.
type ChangeSource interface {
	Watch(ctx context.Context) (*mongo.ChangeStream, error)
}

type profileChange struct {
	FullDocument *models.UserProfile `bson:"fullDocument"`
}

// Watch forwards profile writes made by any instance to the hub until ctx is done.
// Requires a replica set; on a standalone server it logs and returns.
func Watch(ctx context.Context, src ChangeSource, hub *Hub) {
	stream, err := src.Watch(ctx)
	if err != nil {
		config.Logger().Warn("profile change stream unavailable", "error", err)
		return
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var ev profileChange
		if err := stream.Decode(&ev); err != nil {
			config.Logger().Error("profile change decode failed", "error", err)
			continue
		}
		if ev.FullDocument != nil {
			hub.Publish(*ev.FullDocument)
		}
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		config.Logger().Error("profile change stream stopped", "error", err)
	}
}
