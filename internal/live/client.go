package live

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hamsafar/internal/domain/entities"
	"hamsafar/pkg/utils"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// TripDraft is the part of the form the tips depend on.
type TripDraft struct {
	Pickup      string `json:"pickup"`
	Destination string `json:"destination"`
}

type TipsPayload struct {
	Pickup      string `json:"pickup"`
	Destination string `json:"destination"`
	Tips        string `json:"tips"`
}

// minPlaceLength mirrors the tips service: shorter names never ask for tips.
const minPlaceLength = 4

// Client is one open booking form.
//
// Go Learning Note — One Writer per Connection:
// gorilla/websocket allows one concurrent reader and one concurrent writer.
// Only writePump writes to conn; the ticker, the debounced tips callback and
// readPump all hand their frames to it through the send channel.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	userID    string
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	debouncer *utils.Debouncer
	ctx       context.Context
	cancel    context.CancelFunc
}

func newClient(h *Hub, conn *websocket.Conn, user *entities.User) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:       h,
		conn:      conn,
		userID:    user.ID,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
		debouncer: utils.NewDebouncer(h.debounce),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Close stops both timers and tells writePump to close the connection. It is
// safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.debouncer.Stop()
		c.cancel()
		close(c.done)
		c.hub.unregister(c)
	})
}

func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("booking form read failed", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.hub.logger.Debug("ignoring malformed frame", zap.Error(err))
			continue
		}

		switch msg.Type {
		case "draft":
			var draft TripDraft
			if err := json.Unmarshal(msg.Data, &draft); err != nil {
				c.hub.logger.Debug("ignoring malformed draft", zap.Error(err))
				continue
			}
			c.onDraft(draft)
		case "availability":
			c.pushAvailability()
		}
	}
}

// onDraft restarts the tips timer. Names too short to look up cancel any
// pending lookup instead.
func (c *Client) onDraft(draft TripDraft) {
	if len([]rune(draft.Pickup)) < minPlaceLength || len([]rune(draft.Destination)) < minPlaceLength {
		c.debouncer.Cancel()
		return
	}
	c.debouncer.Trigger(func() {
		tips := c.hub.tips.Tips(c.ctx, draft.Pickup, draft.Destination)
		c.push("tips", TipsPayload{Pickup: draft.Pickup, Destination: draft.Destination, Tips: tips})
	})
}

func (c *Client) pushAvailability() {
	c.push("availability", c.hub.availability.Availability())
}

// push queues a frame for writePump, dropping it if the client is gone or
// not keeping up.
func (c *Client) push(kind string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		c.hub.logger.Error("failed to encode frame", zap.String("type", kind), zap.Error(err))
		return
	}
	frame, err := json.Marshal(Message{Type: kind, Data: payload})
	if err != nil {
		return
	}

	select {
	case <-c.done:
	case c.send <- frame:
	default:
		c.hub.logger.Warn("booking form too slow, dropping frame", zap.String("type", kind))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.interval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	c.pushAvailability()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.hub.logger.Debug("booking form write failed", zap.Error(err))
				c.Close()
				return
			}
		case <-ticker.C:
			c.pushAvailability()
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "form closed"))
			return
		}
	}
}
