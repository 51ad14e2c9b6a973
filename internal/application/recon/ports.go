package recon

import (
	"context"

	"github.com/jhoicas/minifig-profit/internal/application/dto"
	"github.com/jhoicas/minifig-profit/internal/domain/entity"
)

// OrderSource provee las líneas de compra normalizadas (costo unitario con
// cargos prorrateados) y las filas crudas para la pestaña de pedidos. El caso
// de uso es agnóstico del formato de origen (XML/CSV de BrickLink u otro).
type OrderSource interface {
	Load(ctx context.Context) ([]entity.PurchaseLine, []dto.OrderRow, error)
}

// WantedListSource provee las listas de deseados en el orden de procesamiento,
// que debe ser determinista: las listas compiten secuencialmente por el stock.
type WantedListSource interface {
	Load(ctx context.Context) ([]*entity.WantedList, error)
}

// ReportSink recibe el reporte de una corrida (hoja de cálculo, PDF, archivo
// histórico en base de datos...).
type ReportSink interface {
	Publish(ctx context.Context, rep *dto.Report) error
}
