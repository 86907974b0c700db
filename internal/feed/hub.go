package feed

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Messages queued per client before new ones are dropped
	sendBuffer   = 64
	writeTimeout = 200 * time.Millisecond
)

// Kinds of message sent to viewers.
const (
	KindUpdate = "update"
	KindHit    = "hit"
	KindMiss   = "miss"
	KindFinish = "finish"
)

type Message struct {
	Type string `json:"type"`
	T    int64  `json:"t"`
	Seq  uint64 `json:"seq"`
	Data any    `json:"data"`
}

// Hub streams play to any number of websocket viewers. Broadcast never
// blocks on a slow viewer.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*client]bool
	seq       uint64
	dropped   uint64
	startTime time.Time
	log       zerolog.Logger
	now       func() time.Time
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:   map[*client]bool{},
		startTime: time.Now(),
		log:       log,
		now:       time.Now,
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("upgrade")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	h.log.Info().Str("remote", r.RemoteAddr).Msg("viewer connected")

	go h.writePump(c)
	go func() {
		defer h.remove(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

func (h *Hub) writePump(c *client) {
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			h.log.Debug().Err(err).Msg("write message")
			c.conn.Close()
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) Broadcast(kind string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	b, err := json.Marshal(Message{Type: kind, T: h.now().UnixMilli(), Seq: h.seq, Data: data})
	if err != nil {
		h.log.Error().Err(err).Str("type", kind).Msg("unable to encode message")
		return
	}
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.dropped++
		}
	}
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	resp := map[string]any{
		"seq":      h.seq,
		"dropped":  h.dropped,
		"clients":  len(h.clients),
		"uptime_s": time.Since(h.startTime).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleWS)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}
