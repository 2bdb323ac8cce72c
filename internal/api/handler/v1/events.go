package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/domain"
)

const (
	clientSendBuffer = 256
	broadcastBuffer  = 64
)

var errBroadcastFull = errors.New("menu events broadcast buffer is full")

type eventClient struct {
	conn *websocket.Conn
	send chan []byte
}

// MenuEventsHandler pushes every committed menu item change to the
// connected websocket clients. It implements service.EventPublisher.
type MenuEventsHandler struct {
	upgrader     websocket.Upgrader
	clients      map[*eventClient]struct{}
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *eventClient
	unregister   chan *eventClient
	done         chan struct{}
}

func NewMenuEventsHandler(allowedOrigins []string) *MenuEventsHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &MenuEventsHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		clients:    make(map[*eventClient]struct{}),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *eventClient),
		unregister: make(chan *eventClient),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is done. It must only be called once.
func (h *MenuEventsHandler) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.clientsMutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMutex.Unlock()
			return
		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client] = struct{}{}
			h.clientsMutex.Unlock()
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMutex.Unlock()
		case message := <-h.broadcast:
			h.clientsMutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.clientsMutex.Unlock()
		}
	}
}

// Publish queues the event for broadcast without waiting for delivery.
func (h *MenuEventsHandler) Publish(_ context.Context, event domain.MenuItemEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	select {
	case h.broadcast <- message:
		return nil
	default:
		return errBroadcastFull
	}
}

func (h *MenuEventsHandler) ClientCount() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	return len(h.clients)
}

// HandleWebSocket godoc
// @Summary      Subscribe to menu item changes
// @Description  Every created, updated or deleted menu item is pushed as {"type": ..., "item": ...}.
// @Tags         menu-items
// @Success      101  {string}  string  "Switching Protocols to WebSocket"
// @Router       /menu-items/events [get]
func (h *MenuEventsHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Info("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &eventClient{
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *eventClient) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump only watches for the peer going away; clients do not send anything.
func (c *eventClient) readPump(h *MenuEventsHandler) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Info("menu events client closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}
