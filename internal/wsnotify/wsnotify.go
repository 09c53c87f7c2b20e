package wsnotify

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	EventToast            = "toast"
	EventConnectionStatus = "connection_status"
	EventPairing          = "pairing"
	EventContacts         = "contacts"
)

const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

type WebSocketManager struct {
	clients map[*websocket.Conn]bool
	lock    sync.RWMutex
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func Upgrader() *websocket.Upgrader {
	return &upgrader
}

var Manager = NewManager()

func NewManager() *WebSocketManager {
	return &WebSocketManager{clients: make(map[*websocket.Conn]bool)}
}

func (m *WebSocketManager) AddClient(conn *websocket.Conn) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.clients[conn] = true
}

func (m *WebSocketManager) RemoveClient(conn *websocket.Conn) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.clients, conn)
}

func (m *WebSocketManager) ClientCount() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.clients)
}

func (m *WebSocketManager) Broadcast(event interface{}) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	for client := range m.clients {
		client.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := client.WriteJSON(event); err != nil {
			client.Close()
			go m.RemoveClient(client)
		}
	}
}

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	EmittedAt string      `json:"emittedAt"`
}

type ToastPayload struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	ContactID string `json:"contactId,omitempty"`
}

// Notify broadcasts a typed event to every connected dashboard.
func (m *WebSocketManager) Notify(eventType string, payload interface{}) {
	m.Broadcast(Event{
		Type:      eventType,
		Payload:   payload,
		EmittedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (m *WebSocketManager) Toast(level, message, contactID string) {
	m.Notify(EventToast, ToastPayload{Level: level, Message: message, ContactID: contactID})
}
