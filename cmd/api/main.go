// El servidor del API de reportes: expone la reconciliación bajo demanda y el
// histórico de corridas cuando hay base de datos configurada.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/minifig-profit/internal/application/recon"
	"github.com/jhoicas/minifig-profit/internal/infrastructure/bricklink"
	"github.com/jhoicas/minifig-profit/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/minifig-profit/internal/interfaces/http"
	"github.com/jhoicas/minifig-profit/pkg/config"
	"github.com/jhoicas/minifig-profit/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando API de reportes")

	ctx := context.Background()

	// El API es de solo lectura sobre los archivos: no publica en sinks, pero
	// sí consulta el histórico si hay base de datos.
	var runs httpRouter.RunLister
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		archive := postgres.NewRunArchive(pool, log)
		if err := archive.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("esquema del archivo de corridas")
		}
		runs = archive
	}

	uc := recon.NewReconcileUseCase(
		bricklink.NewOrderSource(cfg.Orders.Dir, log),
		bricklink.NewWantedListSource(cfg.Lists.Dir, log),
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Report: httpRouter.NewReportHandler(uc, runs),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
