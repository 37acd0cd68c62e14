package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event kinds pushed to browsers.
const (
	KindNotification = "notification"
	KindMessage      = "message"
)

// Event is addressed to a single user and delivered to every socket that user has open.
type Event struct {
	Kind   string          `json:"type"`
	UserID string          `json:"user_id"`
	Data   json.RawMessage `json:"data"`
}

// Hub tracks open sockets per user.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	deliver    chan Event
	done       chan struct{}

	mu     sync.RWMutex
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan Event, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations and deliveries until ctx is cancelled, then closes every socket.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case ev := <-h.deliver:
			h.fanOut(ev)
		}
	}
}

// Publish queues ev for local delivery. It drops the event when the hub is saturated.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	select {
	case h.deliver <- ev:
	default:
		h.logger.Warn("realtime hub saturated, dropping event", zap.String("user_id", ev.UserID), zap.String("type", ev.Kind))
	}
	return nil
}

// Connected reports how many sockets userID has open.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Stats returns the number of connected users and open sockets.
func (h *Hub) Stats() (users, sockets int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.clients {
		sockets += len(set)
	}
	return len(h.clients), sockets
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	h.logger.Debug("socket registered", zap.String("user_id", c.userID), zap.Int("sockets", len(set)))
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

// drop expects h.mu held.
func (h *Hub) drop(c *Client) {
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

func (h *Hub) fanOut(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("encode realtime event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[ev.UserID] {
		select {
		case c.send <- payload:
		default:
			// Slow consumer; its read pump will notice the closed channel and exit.
			h.drop(c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for c := range set {
			h.drop(c)
		}
	}
}
