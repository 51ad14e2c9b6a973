// La herramienta de consola: fusiona los exports de BrickLink, corre la
// reconciliación completa y publica el reporte en los sinks configurados
// (Google Sheets, PDF, archivo histórico en PostgreSQL).
package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/minifig-profit/internal/application/dto"
	"github.com/jhoicas/minifig-profit/internal/application/recon"
	"github.com/jhoicas/minifig-profit/internal/domain"
	"github.com/jhoicas/minifig-profit/internal/infrastructure/bricklink"
	"github.com/jhoicas/minifig-profit/internal/infrastructure/pdf"
	"github.com/jhoicas/minifig-profit/internal/infrastructure/postgres"
	"github.com/jhoicas/minifig-profit/internal/infrastructure/sheets"
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
		Msg("iniciando corrida")

	ctx := context.Background()

	// Fusionar los exports sueltos antes de cargar.
	merger := bricklink.NewMerger(cfg.Orders.Dir, log)
	if err := merger.MergeXML(); err != nil {
		log.Fatal().Err(err).Msg("fusionar XML de pedidos")
	}
	if err := merger.MergeCSV(); err != nil {
		log.Fatal().Err(err).Msg("fusionar CSV de pedidos")
	}

	var sinks []recon.ReportSink
	if cfg.Sheets.Enabled() {
		pub, err := sheets.NewPublisher(ctx, cfg.Sheets, cfg.Pricing, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conectar con Google Sheets")
		}
		sinks = append(sinks, pub)
	}
	if cfg.PDF.Enabled() {
		sinks = append(sinks, pdf.NewReportWriter(cfg.PDF.OutputPath, log))
	}
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
		sinks = append(sinks, archive)
	}

	uc := recon.NewReconcileUseCase(
		bricklink.NewOrderSource(cfg.Orders.Dir, log),
		bricklink.NewWantedListSource(cfg.Lists.Dir, log),
		log,
		sinks...,
	)

	rep, err := uc.Run(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoOrders) || errors.Is(err, domain.ErrNoLists) {
			log.Error().Err(err).Msg("nada que procesar")
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("corrida fallida")
	}

	printSummary(rep)
}

// printSummary imprime el resumen en consola con formato de moneda local.
func printSummary(rep *dto.Report) {
	p := message.NewPrinter(language.English)
	p.Printf("\nCorrida %s\n\n", rep.RunID)
	for _, row := range rep.Rows {
		avg, _ := row.AvgCost.Float64()
		p.Printf("  %-40s  %4d armables  $%.2f c/u\n", row.Title, row.Buildable, avg)
	}
	total, _ := rep.TotalCost.Float64()
	p.Printf("\n  Total: %d armables por $%.2f\n", rep.TotalBuilds, total)
}
