// Package live backs the open booking form over a websocket: it pushes the
// service availability on a fixed interval and debounced travel tips while the
// customer types the trip.
package live

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hamsafar/internal/config"
	"hamsafar/internal/domain/entities"
	"hamsafar/internal/services"
)

// Upgrader accepts any origin; the token in the query string is what
// authenticates the connection.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type AvailabilitySource interface {
	Availability() services.Availability
}

type TipsSource interface {
	Tips(ctx context.Context, from, to string) string
}

// Hub tracks every open form so shutdown can close them.
type Hub struct {
	mu           sync.RWMutex
	clients      map[*Client]struct{}
	availability AvailabilitySource
	tips         TipsSource
	interval     time.Duration
	debounce     time.Duration
	logger       *zap.Logger
}

func NewHub(availability AvailabilitySource, tips TipsSource, cfg config.LiveConfig, logger *zap.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]struct{}),
		availability: availability,
		tips:         tips,
		interval:     cfg.AvailabilityInterval,
		debounce:     cfg.TipsDebounce,
		logger:       logger,
	}
}

// Serve runs a form session on conn until either side closes it. It blocks,
// so handlers call it as their last statement.
func (h *Hub) Serve(conn *websocket.Conn, user *entities.User) {
	c := newClient(h, conn, user)
	h.register(c)

	go c.writePump()
	c.readPump()
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("booking form opened", zap.String("user_id", c.userID), zap.Int("open_forms", n))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("booking form closed", zap.String("user_id", c.userID), zap.Int("open_forms", n))
}

// Count returns the number of open forms.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll ends every open form session.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Close()
	}
}
