package dashboard

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// sendBuffer is the number of queued messages a client may fall behind
	// by before it is dropped.
	sendBuffer = 64
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Server → client message types.
const (
	msgFragment     = "fragment"
	msgNotification = "notification"
	msgError        = "error"
)

// fragmentMessage replaces the content of one container.
type fragmentMessage struct {
	Type      string `json:"type"`
	Container string `json:"container"`
	HTML      string `json:"html"`
}

// notificationMessage shows a transient message.
type notificationMessage struct {
	Type    string `json:"type"`
	Level   string `json:"level"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// errorMessage reports a bad client message.
type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// clientMessage is what browsers send over the socket.
type clientMessage struct {
	Type string `json:"type"`
}

// Hub fans messages out to the websocket clients of one guild. Each client
// has a single writer goroutine fed by a buffered channel.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends v to every client without blocking. Clients whose queue
// is full are disconnected.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("dashboard: encoding broadcast: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.enqueueLocked(c, data)
	}
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// Serve runs one client connection until it closes. hello produces the
// messages sent right after registration; onMessage handles client input.
func (h *Hub) Serve(conn *websocket.Conn, hello func() []any, onMessage func(clientMessage) any) {
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writePump(c)
	}()

	if hello != nil {
		for _, v := range hello() {
			h.sendTo(c, v)
		}
	}

	h.readPump(c, onMessage)

	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
	<-done
}

func (h *Hub) sendTo(c *client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("dashboard: encoding message for %s: %v", c.id, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.enqueueLocked(c, data)
	}
}

func (h *Hub) enqueueLocked(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		log.Printf("dashboard: dropping slow client %s", c.id)
		h.removeLocked(c)
	}
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) readPump(c *client, onMessage func(clientMessage) any) {
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("dashboard: websocket read: %v", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendTo(c, errorMessage{Type: msgError, Message: "invalid message format"})
			continue
		}
		if onMessage == nil {
			continue
		}
		if reply := onMessage(msg); reply != nil {
			h.sendTo(c, reply)
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("dashboard: websocket write: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
