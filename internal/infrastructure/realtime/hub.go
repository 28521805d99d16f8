// Package realtime implementa el canal de difusión: cada texto que envía un oyente se
// reenvía como {"text": "..."} a todos los demás oyentes conectados.
// No hay historial, persistencia ni garantía de entrega.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/jhoicas/catalog-api/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 32
)

// Envelope es el único formato que reciben los oyentes.
type Envelope struct {
	Text string `json:"text"`
}

// Hub mantiene el conjunto de oyentes activos.
type Hub struct {
	mu        sync.RWMutex
	listeners map[*listener]struct{}
	closed    bool

	upgrader websocket.Upgrader
	log      *logger.Logger
}

type listener struct {
	id   ulid.ULID
	conn *websocket.Conn
	send chan []byte
}

// NewHub crea un hub vacío.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		listeners: make(map[*listener]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Canal abierto: no hay autenticación ni restricción de origen.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log.Component("realtime"),
	}
}

// ServeHTTP acepta un oyente y bloquea mientras la conexión siga abierta.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("upgrade websocket rechazado")
		return
	}
	l := &listener{id: ulid.Make(), conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(l) {
		_ = conn.Close()
		return
	}
	h.log.Info().Str("listener", l.id.String()).Str("remote", r.RemoteAddr).Msg("oyente conectado")

	go h.writePump(l)
	h.readPump(l)
}

// Publish envía text a todos los oyentes (avisos generados por el servidor).
func (h *Hub) Publish(text string) {
	h.broadcast(nil, text)
}

// Count devuelve el número de oyentes conectados.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Close desconecta a todos los oyentes y rechaza conexiones nuevas.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for l := range h.listeners {
		delete(h.listeners, l)
		close(l.send)
	}
}

func (h *Hub) register(l *listener) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.listeners[l] = struct{}{}
	return true
}

func (h *Hub) unregister(l *listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.listeners[l]; !ok {
		return
	}
	delete(h.listeners, l)
	close(l.send)
	h.log.Info().Str("listener", l.id.String()).Msg("oyente desconectado")
}

// broadcast envía a todos menos from. Un oyente con la cola llena pierde el mensaje.
func (h *Hub) broadcast(from *listener, text string) {
	msg, err := json.Marshal(Envelope{Text: text})
	if err != nil {
		h.log.Error().Err(err).Msg("serializar envelope")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for l := range h.listeners {
		if l == from {
			continue
		}
		select {
		case l.send <- msg:
		default:
			h.log.Warn().Str("listener", l.id.String()).Msg("cola llena, mensaje descartado")
		}
	}
}

func (h *Hub) readPump(l *listener) {
	defer func() {
		h.unregister(l)
		_ = l.conn.Close()
	}()
	l.conn.SetReadLimit(maxMessageSize)
	_ = l.conn.SetReadDeadline(time.Now().Add(pongWait))
	l.conn.SetPongHandler(func(string) error {
		return l.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		kind, data, err := l.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("listener", l.id.String()).Msg("lectura interrumpida")
			}
			return
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		h.log.Debug().Str("listener", l.id.String()).Int("bytes", len(data)).Msg("mensaje recibido")
		h.broadcast(l, string(data))
	}
}

func (h *Hub) writePump(l *listener) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = l.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-l.send:
			_ = l.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = l.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := l.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = l.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := l.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
