package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jhoicas/catalog-api/internal/client/api"
	"github.com/jhoicas/catalog-api/internal/client/notices"
	"github.com/jhoicas/catalog-api/internal/client/state"
	"github.com/jhoicas/catalog-api/internal/client/view"
	"github.com/jhoicas/catalog-api/pkg/logger"
)

var (
	apiURL      string
	notifierURL string
	theme       string
	logFile     string
)

var rootCmd = &cobra.Command{
	Use:   "catalog-tui",
	Short: "Cliente de terminal para el catálogo de productos",
	Long: `Lista, filtra, crea, edita y elimina productos contra la API del catálogo.
Muestra además el último aviso recibido por el canal de difusión.

Teclas: ↑/↓ mover · f filtro · t tema · a añadir · e editar · d eliminar · r recargar · m mensaje · q salir`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&apiURL, "api", "http://localhost:3000", "URL base de la API REST")
	rootCmd.Flags().StringVar(&notifierURL, "notifier", "ws://localhost:8080", "URL del canal de difusión (vacío para desactivar)")
	rootCmd.Flags().StringVar(&theme, "theme", string(state.ThemeLight), "Tema inicial: light o dark")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Archivo de log (por defecto se descarta)")
}

func run(cmd *cobra.Command, _ []string) error {
	mode := state.ThemeMode(theme)
	if mode != state.ThemeLight && mode != state.ThemeDark {
		return fmt.Errorf("tema inválido %q: use light o dark", theme)
	}

	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("abrir log: %w", err)
		}
		defer f.Close()
		out = f
	}
	log := logger.New(logger.Config{Env: "production", Level: "debug", Output: out})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		noticeCh <-chan notices.Notice
		relay    view.Relay
	)
	if notifierURL != "" {
		listener := notices.NewListener(notifierURL, log)
		go listener.Run(ctx)
		noticeCh = listener.Notices()
		relay = listener
	}

	store := state.NewStore(mode)
	model := view.New(ctx, store, api.New(apiURL), relay, noticeCh)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("interfaz: %w", err)
	}
	log.Info().Msg("cliente detenido")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
