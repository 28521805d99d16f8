package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/catalog-api/docs"
	"github.com/jhoicas/catalog-api/internal/application/usecase"
	"github.com/jhoicas/catalog-api/internal/infrastructure/filestore"
	infrapdf "github.com/jhoicas/catalog-api/internal/infrastructure/pdf"
	"github.com/jhoicas/catalog-api/internal/infrastructure/realtime"
	catalogql "github.com/jhoicas/catalog-api/internal/interfaces/graphql"
	httpRouter "github.com/jhoicas/catalog-api/internal/interfaces/http"
	"github.com/jhoicas/catalog-api/pkg/config"
	"github.com/jhoicas/catalog-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("catalog", cfg.Catalog.File).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := filestore.Open(cfg.Catalog.File, log)
	if cfg.Catalog.Watch {
		watcher, err := filestore.NewWatcher(store, log)
		if err != nil {
			log.Fatal().Err(err).Msg("crear watcher del catálogo")
		}
		if err := watcher.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("iniciar watcher del catálogo")
		}
		defer watcher.Stop()
	}

	// Canal de difusión en su propio puerto
	hub := realtime.NewHub(log)
	notifier := realtime.NewServer(cfg.Notifier.Addr(), hub, log)

	var opts []usecase.Option
	if cfg.Notifier.BroadcastChanges {
		opts = append(opts, usecase.WithPublisher(hub))
	}
	catalogUC := usecase.NewCatalogUseCase(store, log, opts...)
	exportUC := usecase.NewExportUseCase(catalogUC, infrapdf.NewMarotoPDFGenerator(), "Lista de precios")

	executor, err := catalogql.NewExecutor(catalogUC)
	if err != nil {
		log.Fatal().Err(err).Msg("esquema GraphQL")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Docs.File); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.File,
			Path:     "docs",
			Title:    "Catalog API",
		}))
	} else {
		log.Warn().Str("file", cfg.Docs.File).Msg("swagger.json no encontrado, /docs deshabilitado")
	}
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:   cfg.App.Name,
		CatalogUC: catalogUC,
		ExportUC:  exportUC,
		GraphQL:   executor,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("API HTTP escuchando (REST /products, GraphQL /graphql, docs /docs)")
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(notifier.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidores...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := notifier.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado del canal websocket")
		}
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("servidor finalizado con error")
	}
	log.Info().Msg("aplicación detenida")
}
