package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/minifig-profit/internal/domain/entity"
)

// SummaryRow es una fila del resumen: cuántos paquetes completos admite la
// lista, el costo exacto del stock consumido y el promedio por armado (0 si no
// hay armados). Cost no equivale a Buildable×AvgCost: el promedio va redondeado.
type SummaryRow struct {
	Title     string          `json:"title"`
	Buildable int64           `json:"buildable"`
	Cost      decimal.Decimal `json:"cost"`
	AvgCost   decimal.Decimal `json:"avg_cost"`
}

// OrderRow es una fila de la pestaña de pedidos: cabecera de pedido o línea de
// ítem, intercaladas en el orden del archivo fuente.
type OrderRow struct {
	IsHeader bool `json:"is_header"`

	// Campos de cabecera
	OrderID        string          `json:"order_id,omitempty"`
	OrderDate      string          `json:"order_date,omitempty"`
	Seller         string          `json:"seller,omitempty"`
	OrderTotal     decimal.Decimal `json:"order_total"`
	BaseGrandTotal decimal.Decimal `json:"base_grand_total"`

	// Campos de ítem
	ItemNumber  string          `json:"item_number,omitempty"`
	Description string          `json:"description,omitempty"`
	ColorName   string          `json:"color_name,omitempty"`
	ColorID     int             `json:"color_id,omitempty"`
	ItemType    string          `json:"item_type,omitempty"`
	Condition   string          `json:"condition,omitempty"`
	Qty         int64           `json:"qty,omitempty"`
	Each        decimal.Decimal `json:"each"`
	Total       decimal.Decimal `json:"total"`
}

// ErrorResponse respuesta de error estándar del API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InventoryRow es una línea de inventario serializable para el API.
type InventoryRow struct {
	ItemID      string          `json:"item_id"`
	ItemType    string          `json:"item_type"`
	ColorID     *int            `json:"color_id,omitempty"`
	ColorName   string          `json:"color_name,omitempty"`
	Description string          `json:"description,omitempty"`
	Qty         int64           `json:"qty"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// NewInventoryRows proyecta el inventario a filas serializables, omitiendo las
// posiciones agotadas.
func NewInventoryRows(inv *entity.Inventory) []InventoryRow {
	if inv == nil {
		return nil
	}
	rows := make([]InventoryRow, 0, inv.Len())
	for _, line := range inv.Lines() {
		if line.Qty <= 0 {
			continue
		}
		rows = append(rows, InventoryRow{
			ItemID:      line.ItemID,
			ItemType:    string(line.ItemType),
			ColorID:     line.ColorID,
			ColorName:   line.ColorName,
			Description: line.Description,
			Qty:         line.Qty,
			TotalCost:   line.TotalCost,
			UnitCost:    line.UnitCost,
		})
	}
	return rows
}

// ReportResponse es el cuerpo de GET /api/report.
type ReportResponse struct {
	RunID       string          `json:"run_id"`
	StartedAt   time.Time       `json:"started_at"`
	Rows        []SummaryRow    `json:"rows"`
	Leftovers   []InventoryRow  `json:"leftovers"`
	TotalBuilds int64           `json:"total_builds"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// RunHeader es la cabecera de una corrida archivada.
type RunHeader struct {
	RunID       string          `json:"run_id"`
	StartedAt   time.Time       `json:"started_at"`
	TotalBuilds int64           `json:"total_builds"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// Report es el resultado completo de una corrida de reconciliación: resumen por
// lista, inventario sobrante tras procesar todas las listas en orden, y las
// filas de pedidos para la pestaña de órdenes.
type Report struct {
	RunID       string            `json:"run_id"`
	StartedAt   time.Time         `json:"started_at"`
	Rows        []SummaryRow      `json:"rows"`
	Inventory   *entity.Inventory `json:"-"` // agregado, antes de asignar
	Leftovers   *entity.Inventory `json:"-"` // sobrante, después de asignar
	Orders      []OrderRow        `json:"-"`
	TotalBuilds int64             `json:"total_builds"`
	TotalCost   decimal.Decimal   `json:"total_cost"`
}
