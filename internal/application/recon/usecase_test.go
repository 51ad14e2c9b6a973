package recon_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/minifig-profit/internal/application/dto"
	"github.com/jhoicas/minifig-profit/internal/application/recon"
	"github.com/jhoicas/minifig-profit/internal/domain"
	"github.com/jhoicas/minifig-profit/internal/domain/entity"
	"github.com/jhoicas/minifig-profit/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs
// ──────────────────────────────────────────────────────────────────────────────

type stubOrders struct {
	lines []entity.PurchaseLine
	rows  []dto.OrderRow
	err   error
}

func (s stubOrders) Load(context.Context) ([]entity.PurchaseLine, []dto.OrderRow, error) {
	return s.lines, s.rows, s.err
}

type stubLists struct {
	lists []*entity.WantedList
	err   error
}

func (s stubLists) Load(context.Context) ([]*entity.WantedList, error) {
	return s.lists, s.err
}

type captureSink struct {
	got *dto.Report
	err error
}

func (s *captureSink) Publish(_ context.Context, rep *dto.Report) error {
	s.got = rep
	return s.err
}

func compra(itemID string, tipo entity.ItemType, qty int64, unitCost string) entity.PurchaseLine {
	return entity.PurchaseLine{
		OrderID:  "100",
		ItemID:   itemID,
		ItemType: tipo,
		Qty:      qty,
		UnitCost: decimal.RequireFromString(unitCost),
	}
}

func lista(title string, items ...*entity.RequiredItem) *entity.WantedList {
	return &entity.WantedList{Title: title, Items: items}
}

func minifig(itemID string, qty int64) *entity.RequiredItem {
	return &entity.RequiredItem{ItemID: itemID, ItemType: entity.ItemTypeMinifig, Qty: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Las listas compiten en orden por el mismo pool: lo que consume la primera ya
// no lo ve la segunda.
func TestRun_PoolCompartidoSecuencial(t *testing.T) {
	orders := stubOrders{lines: []entity.PurchaseLine{
		compra("sh016", entity.ItemTypeMinifig, 3, "2.00"),
	}}
	lists := stubLists{lists: []*entity.WantedList{
		lista("Primera", minifig("sh016", 1)),
		lista("Segunda", minifig("sh016", 1)),
	}}

	uc := recon.NewReconcileUseCase(orders, lists, logger.NewNop())
	rep, err := uc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rep.Rows, 2)
	assert.EqualValues(t, 3, rep.Rows[0].Buildable)
	assert.EqualValues(t, 0, rep.Rows[1].Buildable)
	assert.EqualValues(t, 3, rep.TotalBuilds)
}

// Una lista sin armables no toca el pool: la siguiente parte del mismo stock.
func TestRun_ListaSinArmablesNoConsumeStock(t *testing.T) {
	orders := stubOrders{lines: []entity.PurchaseLine{
		compra("sh016", entity.ItemTypeMinifig, 2, "2.00"),
	}}
	lists := stubLists{lists: []*entity.WantedList{
		lista("Imposible", minifig("no-existe", 1)),
		lista("Posible", minifig("sh016", 1)),
	}}

	uc := recon.NewReconcileUseCase(orders, lists, logger.NewNop())
	rep, err := uc.Run(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 0, rep.Rows[0].Buildable)
	assert.EqualValues(t, 2, rep.Rows[1].Buildable)
}

// El costo promedio se redondea a 2 decimales; sin armables queda en cero.
func TestRun_CostoPromedioRedondeado(t *testing.T) {
	orders := stubOrders{lines: []entity.PurchaseLine{
		compra("sh016", entity.ItemTypeMinifig, 3, "3.3333"),
	}}
	lists := stubLists{lists: []*entity.WantedList{
		lista("Batman", minifig("sh016", 1)),
		lista("Robin", minifig("sh999", 1)),
	}}

	uc := recon.NewReconcileUseCase(orders, lists, logger.NewNop())
	rep, err := uc.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.Rows[0].AvgCost.Equal(decimal.RequireFromString("3.33")),
		"promedio redondeado, got %s", rep.Rows[0].AvgCost)
	assert.True(t, rep.Rows[1].AvgCost.IsZero())

	// La fila conserva el costo exacto del stock consumido: 9.9999, no el
	// producto 3×3.33 del promedio redondeado.
	assert.True(t, rep.Rows[0].Cost.Equal(decimal.RequireFromString("9.9999")),
		"costo exacto, got %s", rep.Rows[0].Cost)
	assert.True(t, rep.Rows[1].Cost.IsZero())
	assert.True(t, rep.TotalCost.Equal(decimal.RequireFromString("9.9999")))
}

// El reporte llega a todos los sinks; Inventory conserva el agregado original
// y Leftovers lo que quedó tras asignar.
func TestRun_PublicaEnLosSinks(t *testing.T) {
	orders := stubOrders{
		lines: []entity.PurchaseLine{compra("sh016", entity.ItemTypeMinifig, 5, "1.00")},
		rows:  []dto.OrderRow{{IsHeader: true, OrderID: "100"}},
	}
	lists := stubLists{lists: []*entity.WantedList{lista("Batman", minifig("sh016", 2))}}

	a, b := &captureSink{}, &captureSink{}
	uc := recon.NewReconcileUseCase(orders, lists, logger.NewNop(), a, b)
	rep, err := uc.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, a.got)
	assert.Same(t, rep, a.got)
	assert.Same(t, rep, b.got)
	assert.Len(t, rep.Orders, 1)

	key := entity.NewStockKey("sh016", entity.ItemTypeMinifig, 0)
	assert.EqualValues(t, 5, rep.Inventory.Get(key).Qty, "el agregado original no se toca")
	assert.EqualValues(t, 1, rep.Leftovers.Get(key).Qty, "2 armados consumen 4 de 5")
}

// Un sink que falla aborta la corrida con el error envuelto.
func TestRun_ErrorDeSinkSePropaga(t *testing.T) {
	orders := stubOrders{lines: []entity.PurchaseLine{compra("sh016", entity.ItemTypeMinifig, 1, "1.00")}}
	lists := stubLists{lists: []*entity.WantedList{lista("Batman", minifig("sh016", 1))}}

	fails := &captureSink{err: errors.New("hoja no disponible")}
	uc := recon.NewReconcileUseCase(orders, lists, logger.NewNop(), fails)
	_, err := uc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hoja no disponible")
}

func TestRun_SinPedidos(t *testing.T) {
	uc := recon.NewReconcileUseCase(stubOrders{}, stubLists{}, logger.NewNop())
	_, err := uc.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoOrders)
}

func TestRun_SinListas(t *testing.T) {
	orders := stubOrders{lines: []entity.PurchaseLine{compra("sh016", entity.ItemTypeMinifig, 1, "1.00")}}
	uc := recon.NewReconcileUseCase(orders, stubLists{}, logger.NewNop())
	_, err := uc.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoLists)
}
