package services

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	nconfig "placify-backend/notification-service/config"
	"placify-backend/shared/database/models/notification"
	"placify-backend/shared/logger"
)

const maxInboundMessage = 4096

// WebSocketManager keeps the live connections of every user and fans notifications out to them
type WebSocketManager struct {
	clients    map[uuid.UUID][]*Client
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader
	register   chan *Client
	unregister chan *Client
	cfg        nconfig.WebSocketConfig
}

// Client is one browser tab
type Client struct {
	UserID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	closed bool // guarded by the manager mutex
}

func (c *Client) closeSend() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func NewWebSocketManager(cfg nconfig.WebSocketConfig) *WebSocketManager {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	wsm := &WebSocketManager{
		clients:    make(map[uuid.UUID][]*Client),
		register:   make(chan *Client, 100),
		unregister: make(chan *Client, 100),
		cfg:        cfg,
	}
	wsm.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     wsm.checkOrigin,
	}
	return wsm
}

func (wsm *WebSocketManager) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	// non-browser clients send no Origin
	if origin == "" || slices.Contains(wsm.cfg.AllowedOrigins, origin) {
		return true
	}
	logger.GetLogger().Warn("WebSocket connection rejected", zap.String("origin", origin))
	return false
}

// Run handles the register/unregister event loop until ctx is done
func (wsm *WebSocketManager) Run(ctx context.Context) {
	for {
		select {
		case client := <-wsm.register:
			wsm.registerClient(client)

		case client := <-wsm.unregister:
			wsm.unregisterClient(client)

		case <-ctx.Done():
			wsm.closeAll()
			return
		}
	}
}

func (wsm *WebSocketManager) registerClient(client *Client) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	conns := wsm.clients[client.UserID]
	if limit := wsm.cfg.MaxConnsPerUser; limit > 0 && len(conns) >= limit {
		// drop the oldest tab
		conns[0].closeSend()
		conns = conns[1:]
	}
	wsm.clients[client.UserID] = append(conns, client)

	logger.GetLogger().Debug("WebSocket client connected",
		zap.String("user_id", client.UserID.String()),
		zap.Int("user_connections", len(wsm.clients[client.UserID])))
}

func (wsm *WebSocketManager) unregisterClient(client *Client) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	conns := wsm.clients[client.UserID]
	i := slices.Index(conns, client)
	if i < 0 {
		return
	}
	client.closeSend()

	conns = slices.Delete(conns, i, i+1)
	if len(conns) == 0 {
		delete(wsm.clients, client.UserID)
	} else {
		wsm.clients[client.UserID] = conns
	}
	logger.GetLogger().Debug("WebSocket client disconnected", zap.String("user_id", client.UserID.String()))
}

func (wsm *WebSocketManager) closeAll() {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	for userID, conns := range wsm.clients {
		for _, c := range conns {
			c.closeSend()
		}
		delete(wsm.clients, userID)
	}
}

// SendToUser queues the message on every connection of the user and returns how many accepted it.
// A connection whose buffer is full is dropped.
func (wsm *WebSocketManager) SendToUser(userID uuid.UUID, message notification.WebSocketMessage) int {
	payload, err := json.Marshal(message)
	if err != nil {
		logger.GetLogger().Error("Failed to encode WebSocket message", zap.Error(err))
		return 0
	}

	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()

	delivered := 0
	for _, client := range wsm.clients[userID] {
		select {
		case client.send <- payload:
			delivered++
		default:
			logger.GetLogger().Warn("WebSocket send buffer full, dropping connection",
				zap.String("user_id", userID.String()))
			go func(c *Client) { wsm.unregister <- c }(client)
		}
	}
	return delivered
}

// ConnectionCount returns the number of open connections of a user
func (wsm *WebSocketManager) ConnectionCount(userID uuid.UUID) int {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	return len(wsm.clients[userID])
}

// Serve upgrades the request and pumps messages for userID until the connection closes
func (wsm *WebSocketManager) Serve(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	conn, err := wsm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{UserID: userID, conn: conn, send: make(chan []byte, wsm.cfg.SendBuffer)}

	welcome, _ := json.Marshal(notification.WebSocketMessage{
		Type:      "connection",
		Level:     notification.NotificationLevelInfo,
		Title:     "Connected",
		Message:   "WebSocket connection established",
		Timestamp: time.Now(),
	})
	client.send <- welcome

	wsm.register <- client
	go wsm.writePump(client)
	wsm.readPump(client)
	return nil
}

func (wsm *WebSocketManager) readPump(client *Client) {
	defer func() {
		wsm.unregister <- client
	}()

	pongWait := 2 * wsm.cfg.PingInterval
	client.conn.SetReadLimit(maxInboundMessage)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var message struct {
			Type string `json:"type"`
		}
		if err := client.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.GetLogger().Debug("WebSocket read failed",
					zap.String("user_id", client.UserID.String()), zap.Error(err))
			}
			return
		}
		_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))

		// application level keepalive for clients that cannot send control frames
		if message.Type == "ping" {
			pong, _ := json.Marshal(notification.WebSocketMessage{
				Type:      "pong",
				Level:     notification.NotificationLevelInfo,
				Message:   "pong",
				Timestamp: time.Now(),
			})
			wsm.mutex.RLock()
			if !client.closed {
				select {
				case client.send <- pong:
				default:
				}
			}
			wsm.mutex.RUnlock()
		}
	}
}

func (wsm *WebSocketManager) writePump(client *Client) {
	ticker := time.NewTicker(wsm.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(wsm.cfg.WriteTimeout))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(wsm.cfg.WriteTimeout))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
