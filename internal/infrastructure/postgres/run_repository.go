package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/minifig-profit/internal/application/dto"
	"github.com/jhoicas/minifig-profit/internal/application/recon"
	"github.com/jhoicas/minifig-profit/pkg/logger"
)

// Querier abstrae pool o tx, para usar los mismos repos dentro y fuera de una
// transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ recon.ReportSink = (*RunArchive)(nil)

// RunArchive guarda el histórico de corridas: cabecera, filas de resumen y
// sobrante, todo dentro de una transacción.
type RunArchive struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewRunArchive construye el adaptador sobre el pool.
func NewRunArchive(pool *pgxpool.Pool, log *logger.Logger) *RunArchive {
	return &RunArchive{pool: pool, log: log}
}

// EnsureSchema crea las tablas del archivo si no existen. La herramienta corre
// como CLI sin infraestructura de migraciones.
func (a *RunArchive) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          UUID PRIMARY KEY,
			started_at  TIMESTAMPTZ NOT NULL,
			total_builds BIGINT NOT NULL,
			total_cost  NUMERIC(14,4) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS run_summary_rows (
			run_id    UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position  INT NOT NULL,
			title     TEXT NOT NULL,
			buildable BIGINT NOT NULL,
			cost      NUMERIC(14,4) NOT NULL,
			avg_cost  NUMERIC(14,4) NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS run_leftovers (
			run_id     UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position   INT NOT NULL,
			item_id    TEXT NOT NULL,
			item_type  TEXT NOT NULL,
			color_id   INT,
			color_name TEXT,
			description TEXT,
			qty        BIGINT NOT NULL,
			total_cost NUMERIC(14,4) NOT NULL,
			unit_cost  NUMERIC(14,4) NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
	}
	for _, stmt := range ddl {
		if _, err := a.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("crear esquema del archivo de corridas: %w", err)
		}
	}
	return nil
}

// Publish archiva la corrida completa. Falla todo o nada.
func (a *RunArchive) Publish(ctx context.Context, rep *dto.Report) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertRun(ctx, tx, rep); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	a.log.Info().Str("run_id", rep.RunID).Msg("corrida archivada en postgres")
	return nil
}

func insertRun(ctx context.Context, q Querier, rep *dto.Report) error {
	_, err := q.Exec(ctx,
		`INSERT INTO runs (id, started_at, total_builds, total_cost) VALUES ($1, $2, $3, $4)`,
		rep.RunID, rep.StartedAt, rep.TotalBuilds, rep.TotalCost,
	)
	if err != nil {
		return fmt.Errorf("insertar corrida: %w", err)
	}

	for i, row := range rep.Rows {
		_, err := q.Exec(ctx,
			`INSERT INTO run_summary_rows (run_id, position, title, buildable, cost, avg_cost)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			rep.RunID, i, row.Title, row.Buildable, row.Cost, row.AvgCost,
		)
		if err != nil {
			return fmt.Errorf("insertar fila de resumen %q: %w", row.Title, err)
		}
	}

	if rep.Leftovers == nil {
		return nil
	}
	pos := 0
	for _, line := range rep.Leftovers.Lines() {
		if line.Qty <= 0 {
			continue
		}
		_, err := q.Exec(ctx,
			`INSERT INTO run_leftovers (run_id, position, item_id, item_type, color_id, color_name, description, qty, total_cost, unit_cost)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			rep.RunID, pos, line.ItemID, string(line.ItemType), line.ColorID,
			line.ColorName, line.Description, line.Qty, line.TotalCost, line.UnitCost,
		)
		if err != nil {
			return fmt.Errorf("insertar sobrante %s: %w", line.ItemID, err)
		}
		pos++
	}
	return nil
}

// LastRuns devuelve las cabeceras de las últimas corridas archivadas, de la
// más reciente a la más antigua.
func (a *RunArchive) LastRuns(ctx context.Context, limit int) ([]dto.RunHeader, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT id, started_at, total_builds, total_cost
		 FROM runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listar corridas: %w", err)
	}
	defer rows.Close()

	var list []dto.RunHeader
	for rows.Next() {
		var h dto.RunHeader
		if err := rows.Scan(&h.RunID, &h.StartedAt, &h.TotalBuilds, &h.TotalCost); err != nil {
			return nil, fmt.Errorf("scan corrida: %w", err)
		}
		list = append(list, h)
	}
	return list, rows.Err()
}
