package notices_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/catalog-api/internal/client/notices"
	"github.com/jhoicas/catalog-api/internal/infrastructure/realtime"
	"github.com/jhoicas/catalog-api/pkg/logger"
)

func startListener(t *testing.T) (*realtime.Hub, *httptest.Server, *notices.Listener, context.CancelFunc) {
	t.Helper()
	hub := realtime.NewHub(logger.Nop())
	srv := httptest.NewServer(hub)

	ctx, cancel := context.WithCancel(context.Background())
	l := notices.NewListener("ws"+strings.TrimPrefix(srv.URL, "http"), logger.Nop())
	go l.Run(ctx)

	t.Cleanup(func() {
		cancel()
		hub.Close()
		srv.Close()
	})
	require.Eventually(t, l.Connected, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	return hub, srv, l, cancel
}

func next(t *testing.T, l *notices.Listener) notices.Notice {
	t.Helper()
	select {
	case n, ok := <-l.Notices():
		require.True(t, ok, "el canal de avisos se cerró")
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó ningún aviso")
		return notices.Notice{}
	}
}

func TestListener_RecibeAvisos(t *testing.T) {
	hub, _, l, _ := startListener(t)

	hub.Publish("product.created abc")
	n := next(t, l)
	assert.Equal(t, "product.created abc", n.Text)
	assert.False(t, n.At.IsZero())
}

func TestListener_SendLlegaAOtros(t *testing.T) {
	hub, srv, l, _ := startListener(t)

	other, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer other.Close()
	require.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, l.Send("hola"))

	require.NoError(t, other.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env realtime.Envelope
	require.NoError(t, other.ReadJSON(&env))
	assert.Equal(t, "hola", env.Text)

	select {
	case n := <-l.Notices():
		t.Fatalf("el emisor no debe recibir su propio mensaje: %q", n.Text)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestListener_SendSinConexion(t *testing.T) {
	l := notices.NewListener("ws://127.0.0.1:1", logger.Nop())
	assert.ErrorIs(t, l.Send("x"), notices.ErrNotConnected)
}

func TestListener_CancelarCierraCanal(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := realtime.NewHub(logger.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	l := notices.NewListener("ws"+strings.TrimPrefix(srv.URL, "http"), logger.Nop())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	require.Eventually(t, l.Connected, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó tras cancelar")
	}
	_, ok := <-l.Notices()
	assert.False(t, ok)
}
