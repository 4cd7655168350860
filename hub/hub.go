// Package hub maintains the set of live-update subscribers and fans score
// payloads out to them. A send failure evicts that subscriber only; the
// broadcast always continues to the rest.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	subscribersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scoreapi_ws_subscribers",
		Help: "Currently connected live-update subscribers.",
	})
	broadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scoreapi_ws_broadcasts_total",
		Help: "Broadcasts fanned out to subscribers.",
	})
	sendFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scoreapi_ws_send_failures_total",
		Help: "Subscriber sends that failed and evicted the subscriber.",
	})
)

// Conn is the subset of *websocket.Conn the hub writes to. Tests substitute
// their own implementation.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Subscriber is one registered live-update connection. The connection handler
// owns the underlying conn; the hub only holds a reference for fan-out.
type Subscriber struct {
	id   string
	conn Conn

	// mu serializes writes – gorilla connections allow one writer at a time
	// and broadcasts may overlap.
	mu sync.Mutex
}

// NewSubscriber wraps a connection for registration.
func NewSubscriber(conn Conn) *Subscriber {
	return &Subscriber{id: uuid.NewString(), conn: conn}
}

func (s *Subscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub is a mutex-guarded registry of subscribers.
type Hub struct {
	log *zap.Logger

	mu   sync.Mutex
	subs map[string]*Subscriber
}

// New creates an empty hub.
func New(log *zap.Logger) *Hub {
	return &Hub{
		log:  log,
		subs: make(map[string]*Subscriber),
	}
}

// Add registers a subscriber. Adding the same subscriber twice is a caller error.
func (h *Hub) Add(sub *Subscriber) {
	h.mu.Lock()
	h.subs[sub.id] = sub
	n := len(h.subs)
	h.mu.Unlock()

	subscribersGauge.Set(float64(n))
	h.log.Info("subscriber registered", zap.String("id", sub.id), zap.Int("subscribers", n))
}

// Remove deletes a subscriber if present. A no-op when absent, since teardown
// can race with a failed send that already evicted it.
func (h *Hub) Remove(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub.id]
	delete(h.subs, sub.id)
	n := len(h.subs)
	h.mu.Unlock()

	if !ok {
		return
	}
	subscribersGauge.Set(float64(n))
	h.log.Info("subscriber removed", zap.String("id", sub.id), zap.Int("subscribers", n))
}

// Len returns the number of registered subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Broadcast sends payload as JSON to every subscriber registered at call time.
// Each send is attempted independently; a subscriber whose send fails is
// closed and removed, and the remaining sends still happen. Errors never
// propagate to the caller.
func (h *Hub) Broadcast(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("broadcast marshal failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	snapshot := make([]*Subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		snapshot = append(snapshot, sub)
	}
	h.mu.Unlock()

	broadcastsTotal.Inc()

	var dead []*Subscriber
	for _, sub := range snapshot {
		if err := sub.send(data); err != nil {
			h.log.Warn("subscriber send failed, evicting", zap.String("id", sub.id), zap.Error(err))
			sendFailuresTotal.Inc()
			_ = sub.conn.Close()
			dead = append(dead, sub)
		}
	}

	for _, sub := range dead {
		h.Remove(sub)
	}
}
