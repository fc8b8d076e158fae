// Package ws streams the active kitchen tickets to kitchen display screens.
package ws

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"restaurant-order-services/internal/auth"
	"restaurant-order-services/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	MessageKitchenState = "kitchen.state"
	writeWait           = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ActiveSource lists the tickets currently shown on the display.
type ActiveSource interface {
	Active(ctx context.Context) ([]models.KitchenOrder, error)
}

type Message struct {
	Type string                `json:"type"`
	Data []models.KitchenOrder `json:"data"`
	Msg  string                `json:"message,omitempty"`
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(value)
}

func (c *client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// KitchenHub fans kitchen state out to every connected display.
type KitchenHub struct {
	Source    ActiveSource
	Secret    string
	Heartbeat time.Duration
	Logger    *zap.Logger

	mu   sync.RWMutex
	subs map[*client]struct{}
}

func NewKitchenHub(source ActiveSource, secret string, heartbeat time.Duration, logger *zap.Logger) *KitchenHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &KitchenHub{
		Source:    source,
		Secret:    secret,
		Heartbeat: heartbeat,
		Logger:    logger,
		subs:      make(map[*client]struct{}),
	}
}

func (h *KitchenHub) subscribe(c *client) (unsubscribe func()) {
	h.mu.Lock()
	h.subs[c] = struct{}{}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, c)
		h.mu.Unlock()
	}
}

func (h *KitchenHub) clients() []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*client, 0, len(h.subs))
	for c := range h.subs {
		out = append(out, c)
	}
	return out
}

// Subscribers reports how many displays are connected.
func (h *KitchenHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *KitchenHub) state(ctx context.Context) (Message, error) {
	active, err := h.Source.Active(ctx)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: MessageKitchenState, Data: active}, nil
}

// KitchenChanged pushes the current active ticket list to every display.
func (h *KitchenHub) KitchenChanged(ctx context.Context) {
	clients := h.clients()
	if len(clients) == 0 || h.Source == nil {
		return
	}
	msg, err := h.state(ctx)
	if err != nil {
		h.Logger.Warn("kitchen display refresh failed", zap.Error(err))
		return
	}
	for _, c := range clients {
		if err := c.writeJSON(msg); err != nil {
			_ = c.conn.Close()
			h.mu.Lock()
			delete(h.subs, c)
			h.mu.Unlock()
		}
	}
}

// ServeHTTP upgrades /ws/kitchen?token=... for staff accounts, sends the
// current state and keeps the socket alive with pings until either side
// closes it.
func (h *KitchenHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	claims, err := auth.VerifyAccessToken(r.URL.Query().Get("token"), h.Secret)
	if err != nil || !slices.Contains(auth.StaffRoles, claims.Role) {
		_ = conn.WriteJSON(Message{Type: "error", Msg: "unauthorized"})
		return
	}

	c := &client{conn: conn}
	unsubscribe := h.subscribe(c)
	defer unsubscribe()

	ctx := r.Context()
	if msg, err := h.state(ctx); err == nil {
		_ = c.writeJSON(msg)
	} else {
		h.Logger.Warn("kitchen display snapshot failed", zap.Error(err))
	}

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.Heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
