// Package notices escucha el canal de difusión y entrega cada aviso a la interfaz.
package notices

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jhoicas/catalog-api/internal/infrastructure/realtime"
	"github.com/jhoicas/catalog-api/pkg/logger"
)

const (
	noticeBuffer     = 16
	writeWait        = 5 * time.Second
	reconnectTimeout = 2 * time.Second
)

// ErrNotConnected se devuelve al enviar sin conexión activa.
var ErrNotConnected = errors.New("notices: sin conexión al canal")

// Notice es un aviso recibido del canal.
type Notice struct {
	Text string
	At   time.Time
}

// Listener mantiene una conexión con el canal y reconecta si se cae.
type Listener struct {
	url    string
	dialer *websocket.Dialer
	now    func() time.Time
	log    *logger.Logger

	mu   sync.Mutex
	conn *websocket.Conn

	notices chan Notice
}

// NewListener crea un oyente para la URL ws:// indicada.
func NewListener(url string, log *logger.Logger) *Listener {
	return &Listener{
		url:     url,
		dialer:  websocket.DefaultDialer,
		now:     time.Now,
		log:     log.Component("notices"),
		notices: make(chan Notice, noticeBuffer),
	}
}

// Notices devuelve el canal de avisos; se cierra cuando Run termina.
func (l *Listener) Notices() <-chan Notice {
	return l.notices
}

// Connected indica si hay una conexión activa.
func (l *Listener) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn != nil
}

// Run conecta, lee avisos y reconecta hasta que ctx se cancela.
func (l *Listener) Run(ctx context.Context) {
	defer close(l.notices)

	for {
		conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
		if err != nil {
			l.log.Debug().Err(err).Str("url", l.url).Msg("no se pudo conectar al canal")
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectTimeout):
				continue
			}
		}

		l.setConn(conn)
		l.log.Debug().Str("url", l.url).Msg("conectado al canal")
		l.read(ctx, conn)
		l.setConn(nil)

		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectTimeout):
		}
	}
}

// read bloquea hasta que la conexión falla o ctx se cancela.
func (l *Listener) read(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		var env realtime.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() == nil {
				l.log.Debug().Err(err).Msg("conexión con el canal perdida")
			}
			return
		}
		select {
		case l.notices <- Notice{Text: env.Text, At: l.now()}:
		case <-ctx.Done():
			return
		}
	}
}

// Send publica un texto en el canal; los demás oyentes lo reciben, este no.
func (l *Listener) Send(text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return ErrNotConnected
	}
	_ = l.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return l.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (l *Listener) setConn(conn *websocket.Conn) {
	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
}
