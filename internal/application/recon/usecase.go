// Package recon orquesta la reconciliación: agrega las compras en inventario,
// asigna lista por lista contra el pool compartido y publica el resultado.
package recon

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/minifig-profit/internal/application/dto"
	"github.com/jhoicas/minifig-profit/internal/domain"
	"github.com/jhoicas/minifig-profit/internal/domain/build"
	"github.com/jhoicas/minifig-profit/internal/domain/inventory"
	"github.com/jhoicas/minifig-profit/pkg/logger"
)

// ReconcileUseCase ejecuta una corrida completa de reconciliación.
type ReconcileUseCase struct {
	orders OrderSource
	lists  WantedListSource
	sinks  []ReportSink
	log    *logger.Logger
}

// NewReconcileUseCase construye el caso de uso. Los sinks son opcionales.
func NewReconcileUseCase(orders OrderSource, lists WantedListSource, log *logger.Logger, sinks ...ReportSink) *ReconcileUseCase {
	return &ReconcileUseCase{orders: orders, lists: lists, sinks: sinks, log: log}
}

// Run carga compras y listas, agrega el inventario y asigna cada lista en
// orden. La asignación es estrictamente secuencial: el inventario que devuelve
// una lista es el punto de partida de la siguiente, de modo que a lo sumo una
// lista "ve" cada unidad de stock. Al final publica el reporte en cada sink.
func (uc *ReconcileUseCase) Run(ctx context.Context) (*dto.Report, error) {
	started := time.Now()

	purchases, orderRows, err := uc.orders.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar pedidos: %w", err)
	}
	if len(purchases) == 0 {
		return nil, domain.ErrNoOrders
	}
	inv := inventory.Aggregate(purchases)
	uc.log.Info().
		Int("compras", len(purchases)).
		Int("posiciones", inv.Len()).
		Msg("inventario agregado")

	lists, err := uc.lists.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar listas de deseados: %w", err)
	}
	if len(lists) == 0 {
		return nil, domain.ErrNoLists
	}

	rep := &dto.Report{
		RunID:     uuid.New().String(),
		StartedAt: started,
		Inventory: inv,
		Orders:    orderRows,
		TotalCost: decimal.Zero,
	}

	for _, list := range lists {
		res := build.Allocate(list, inv)
		if res.Builds > 0 {
			// El pool decrementado pasa a la siguiente lista.
			inv = res.Inventory
		}
		avg := decimal.Zero
		if res.Builds > 0 {
			avg = res.Cost.Div(decimal.NewFromInt(res.Builds)).Round(2)
		}
		rep.Rows = append(rep.Rows, dto.SummaryRow{
			Title:     list.Title,
			Buildable: res.Builds,
			Cost:      res.Cost,
			AvgCost:   avg,
		})
		rep.TotalBuilds += res.Builds
		rep.TotalCost = rep.TotalCost.Add(res.Cost)
		uc.log.Debug().
			Str("lista", list.Title).
			Int64("armables", res.Builds).
			Str("costo", res.Cost.StringFixed(2)).
			Msg("lista asignada")
	}
	rep.Leftovers = inv

	for _, sink := range uc.sinks {
		if err := sink.Publish(ctx, rep); err != nil {
			return nil, fmt.Errorf("publicar reporte: %w", err)
		}
	}
	uc.log.Info().
		Str("run_id", rep.RunID).
		Int64("armables", rep.TotalBuilds).
		Str("costo_total", rep.TotalCost.StringFixed(2)).
		Msg("reconciliación completa")
	return rep, nil
}
