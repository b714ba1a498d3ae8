package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ecofinds/pkg/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	sendBufferSize = 256
)

func UserRoom(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func ConversationRoom(conversationID uint) string {
	return fmt.Sprintf("conversation:%d", conversationID)
}

// Client is one authenticated socket connection.
type Client struct {
	ID       string
	UserID   uint
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
}

func NewClient(conn *websocket.Conn, userID uint, username string) *Client {
	return &Client{
		ID:       uuid.NewString(),
		UserID:   userID,
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, sendBufferSize),
	}
}

// Manager owns room membership. clients maps each live connection to the
// rooms it is in and rooms maps each room to its connections; both are
// guarded by mutex and always updated together.
type Manager struct {
	clients map[*Client]map[string]struct{}
	rooms   map[string]map[*Client]struct{}
	mutex   sync.RWMutex
	closed  bool

	chat ChatService

	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		clients: make(map[*Client]map[string]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetChatService wires the chat operations used by the socket gateway. It
// must be called before the first connection is served.
func (m *Manager) SetChatService(chat ChatService) {
	m.chat = chat
}

// Register adds the client and joins it to its private user room.
func (m *Manager) Register(client *Client) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return fmt.Errorf("websocket manager is shut down")
	}
	m.clients[client] = make(map[string]struct{})
	m.joinLocked(client, UserRoom(client.UserID))

	logger.Info("WebSocket: client %s registered for user %d", client.ID, client.UserID)
	return nil
}

// Unregister removes the client from every room and closes its send queue.
// Calling it more than once is safe.
func (m *Manager) Unregister(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.removeLocked(client) {
		logger.Info("WebSocket: client %s unregistered for user %d", client.ID, client.UserID)
	}
}

func (m *Manager) removeLocked(client *Client) bool {
	joined, ok := m.clients[client]
	if !ok {
		return false
	}
	for room := range joined {
		members := m.rooms[room]
		delete(members, client)
		if len(members) == 0 {
			delete(m.rooms, room)
		}
	}
	delete(m.clients, client)
	close(client.Send)
	return true
}

func (m *Manager) Join(client *Client, room string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.joinLocked(client, room)
}

func (m *Manager) joinLocked(client *Client, room string) bool {
	joined, ok := m.clients[client]
	if !ok {
		return false
	}
	joined[room] = struct{}{}
	members, ok := m.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		m.rooms[room] = members
	}
	members[client] = struct{}{}
	return true
}

func (m *Manager) Leave(client *Client, room string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	joined, ok := m.clients[client]
	if !ok {
		return
	}
	delete(joined, room)
	if members, ok := m.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(m.rooms, room)
		}
	}
}

func (m *Manager) InRoom(client *Client, room string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	_, ok := m.clients[client][room]
	return ok
}

// RoomSize returns the number of live connections in room.
func (m *Manager) RoomSize(room string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms[room])
}

func (m *Manager) ClientCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

// BroadcastToRoom queues message for every connection in room except the
// given one, which may be nil. Connections whose queue is full are dropped.
func (m *Manager) BroadcastToRoom(room string, message WSMessage, except *Client) {
	payload, err := encode(message)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s event: %v", message.Type, err)
		return
	}

	var slow []*Client
	m.mutex.RLock()
	for client := range m.rooms[room] {
		if client == except {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			slow = append(slow, client)
		}
	}
	m.mutex.RUnlock()

	m.dropSlow(slow)
}

// SendTo queues message for a single connection.
func (m *Manager) SendTo(client *Client, message WSMessage) {
	payload, err := encode(message)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s event: %v", message.Type, err)
		return
	}

	m.mutex.RLock()
	_, live := m.clients[client]
	delivered := true
	if live {
		select {
		case client.Send <- payload:
		default:
			delivered = false
		}
	}
	m.mutex.RUnlock()

	if !delivered {
		m.dropSlow([]*Client{client})
	}
}

func (m *Manager) dropSlow(clients []*Client) {
	if len(clients) == 0 {
		return
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, client := range clients {
		if m.removeLocked(client) {
			logger.Warn("WebSocket: dropped slow client %s for user %d", client.ID, client.UserID)
		}
	}
}

func (m *Manager) PublishToConversation(conversationID uint, eventType string, payload interface{}) {
	m.BroadcastToRoom(ConversationRoom(conversationID), newMessage(eventType, payload), nil)
}

func (m *Manager) PublishToUser(userID uint, eventType string, payload interface{}) {
	m.BroadcastToRoom(UserRoom(userID), newMessage(eventType, payload), nil)
}

// Shutdown closes every connection and rejects new registrations.
func (m *Manager) Shutdown() {
	m.cancel()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.closed = true
	for client := range m.clients {
		m.removeLocked(client)
	}
	logger.Info("WebSocket: manager shut down")
}

// ReadPump reads client events until the connection fails, then
// unregisters the client.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket: read error for client %s: %v", c.ID, err)
			}
			return
		}
		m.HandleClientMessage(c, message)
	}
}

// WritePump drains the send queue and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The manager closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket: write error for client %s: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func encode(message WSMessage) ([]byte, error) {
	return json.Marshal(message)
}
