package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	models "FxDesk/internal/domain/models"
	xlogger "FxDesk/pkg/logger"
)

const (
	wsWriteWait    = 5 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// QuoteHub fans current quotes out to connected dashboard clients.
// Each refresh cycle pushes one frame; slow clients are dropped rather
// than allowed to stall the broadcast.
type QuoteHub struct {
	logger *xlogger.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	last    []byte
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewQuoteHub(logger *xlogger.Logger) *QuoteHub {
	return &QuoteHub{
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

// BroadcastQuotes serializes quotes once and queues the frame to every client.
func (h *QuoteHub) BroadcastQuotes(quotes []models.Quote) {
	frame, err := json.Marshal(map[string]any{"type": "quotes", "data": quotes})
	if err != nil {
		h.logger.Error("quotehub marshal_failed", xlogger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = frame
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			// client is not keeping up
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *QuoteHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve upgrades the request and keeps the connection until the client leaves.
func (h *QuoteHub) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("quotehub upgrade_failed", xlogger.Error(err))
		return nil
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 8)}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	if h.last != nil {
		client.send <- h.last
	}
	h.mu.Unlock()

	go h.writeLoop(client)
	h.readLoop(client)
	return nil
}

func (h *QuoteHub) writeLoop(c *wsClient) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(wsWriteWait))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.drop(c)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				h.drop(c)
				return
			}
		}
	}
}

// readLoop drains incoming frames so close and pong handling keeps working.
func (h *QuoteHub) readLoop(c *wsClient) {
	defer h.drop(c)
	c.conn.SetReadLimit(1024)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *QuoteHub) drop(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}
