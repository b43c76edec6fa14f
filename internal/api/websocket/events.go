package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Dashboard clients connect from a separate origin in development.
		return true
	},
}

// VerificationEvent is pushed to subscribers when a verification completes.
type VerificationEvent struct {
	ID         uuid.UUID              `json:"id"`
	TrustScore float64                `json:"trust_score"`
	RiskLevel  verification.RiskLevel `json:"risk_level"`
	Timestamp  time.Time              `json:"timestamp"`
}

// EventHub fans completed-verification events out to websocket subscribers.
type EventHub struct {
	logger *zap.Logger

	mu      sync.RWMutex
	clients map[uuid.UUID]*client

	broadcast  chan *VerificationEvent
	register   chan *client
	unregister chan *client
	done       chan struct{}
	stopOnce   sync.Once

	// Optional gauge hook, set once before Run.
	OnSubscriberCount func(n int)
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan *VerificationEvent
	hub  *EventHub
}

// NewEventHub creates an idle hub; call Run to start it.
func NewEventHub(logger *zap.Logger) *EventHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHub{
		logger:     logger,
		clients:    make(map[uuid.UUID]*client),
		broadcast:  make(chan *VerificationEvent, 100),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is done or Stop is
// called.
func (h *EventHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case <-h.done:
			h.shutdown()
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case ev := <-h.broadcast:
			h.fanOut(ev)
		}
	}
}

// Stop shuts the hub down.
func (h *EventHub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Publish queues an event for delivery. It never blocks the verification
// path; if the hub's buffer is full the event is dropped.
func (h *EventHub) Publish(result *verification.ComprehensiveVerificationResult) {
	if result == nil {
		return
	}
	ev := &VerificationEvent{
		ID:         result.ID,
		TrustScore: result.OverallTrustScore,
		RiskLevel:  result.RiskLevel,
		Timestamp:  time.Now().UTC(),
	}
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn("event hub buffer full, dropping event",
			zap.String("verification_id", ev.ID.String()))
	}
}

// HandleEvents upgrades the request and subscribes the connection to
// completed-verification events.
func (h *EventHub) HandleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("remote_addr", r.RemoteAddr))
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan *VerificationEvent, sendBuffer),
		hub:  h,
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *EventHub) addClient(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("event subscriber connected",
		zap.String("client_id", c.id.String()),
		zap.Int("subscribers", n))
	if h.OnSubscriberCount != nil {
		h.OnSubscriberCount(n)
	}
}

func (h *EventHub) removeClient(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if h.OnSubscriberCount != nil {
		h.OnSubscriberCount(n)
	}
}

func (h *EventHub) fanOut(ev *VerificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- ev:
		default:
			// Slow consumer; drop the event rather than stall the hub.
		}
	}
}

func (h *EventHub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, id)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs and close messages are processed.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
