package realtime

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/jhoicas/catalog-api/pkg/logger"
)

// Server expone el Hub en su propio puerto. Usa net/http porque el upgrade de
// gorilla/websocket trabaja sobre http.ResponseWriter, no sobre fasthttp.
type Server struct {
	hub  *Hub
	http *http.Server
	log  *logger.Logger
}

// NewServer construye el servidor sobre addr (host:port). Cualquier ruta acepta oyentes.
func NewServer(addr string, hub *Hub, log *logger.Logger) *Server {
	return &Server{
		hub: hub,
		http: &http.Server{
			Addr:              addr,
			Handler:           hub,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log.Component("realtime"),
	}
}

// ListenAndServe bloquea hasta Shutdown. Devuelve nil si el cierre fue ordenado.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve atiende sobre un listener ya abierto.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Msg("canal websocket escuchando")
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown deja de aceptar conexiones y cierra las de los oyentes (http.Server no
// cierra conexiones secuestradas por el upgrade).
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.hub.Close()
	return err
}
