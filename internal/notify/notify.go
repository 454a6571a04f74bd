// Package notify delivers transient, dismissable user notifications. Every
// caught auth or relay error surfaces here with a short human-readable
// message; the hub fans notifications out to any connected UI stream.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Level classifies a notification for UI presentation.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a single transient message for the user.
type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier raises user-visible notifications. It never affects control flow.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
	Info(title, message string)
}

// Hub is a Notifier that fans notifications out to subscriber channels.
// Slow subscribers drop notifications rather than block the publisher.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Notification]struct{}
}

// NewHub creates an empty notification hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Notification]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel function must be
// called when the consumer goes away.
func (h *Hub) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Success raises a success notification.
func (h *Hub) Success(title, message string) {
	h.publish(Notification{Level: LevelSuccess, Title: title, Message: message})
}

// Error raises an error notification.
func (h *Hub) Error(title, message string) {
	h.publish(Notification{Level: LevelError, Title: title, Message: message})
}

// Info raises an informational notification.
func (h *Hub) Info(title, message string) {
	h.publish(Notification{Level: LevelInfo, Title: title, Message: message})
}

func (h *Hub) publish(n Notification) {
	n.ID = uuid.NewString()
	n.Time = time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- n:
		default:
			log.Debugf("notification subscriber full, dropping %s", n.ID)
		}
	}
}
