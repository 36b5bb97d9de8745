package debug

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// client es la parte de *websocket.Conn que usa el hub
type client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub maneja las conexiones WebSocket del dashboard de debugging
type Hub struct {
	clients    map[client]struct{}
	broadcast  chan []byte
	register   chan client
	unregister chan client
	done       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
}

// NewHub inicia el loop de broadcast. Llamar Close para detenerlo.
func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[client]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan client),
		unregister: make(chan client),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("debug dashboard connected, clients=%d", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				_ = c.Close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("debug dashboard disconnected, clients=%d", n)

		case message := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					log.Printf("debug dashboard write: %v", err)
					_ = c.Close()
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				_ = c.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Close desconecta a todos los clientes y detiene el loop
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

func (h *Hub) remove(c client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Handle maneja una conexión WebSocket de Fiber hasta que se cierra
func (h *Hub) Handle(conn *websocket.Conn) {
	h.add(conn)
	defer h.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// LogMessage representa un mensaje de log para el dashboard
type LogMessage struct {
	Type      string         `json:"type"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// SendLog envía un log al dashboard. Nunca bloquea: si no hay clientes o el
// canal está lleno, el mensaje se descarta.
func (h *Hub) SendLog(level, message string, metadata map[string]any) {
	if h.ClientCount() == 0 {
		return
	}

	data, err := json.Marshal(LogMessage{
		Type:      "log",
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Metadata:  metadata,
	})
	if err != nil {
		log.Printf("debug dashboard marshal: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
	}
}
