package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/minifig-profit/internal/domain/entity"
	"github.com/jhoicas/minifig-profit/internal/domain/inventory"
)

func linea(itemID string, t entity.ItemType, colorID int, qty int64, unitCost string) entity.PurchaseLine {
	return entity.PurchaseLine{
		ItemID:   itemID,
		ItemType: t,
		ColorID:  colorID,
		Qty:      qty,
		UnitCost: decimal.RequireFromString(unitCost),
	}
}

// Compras repetidas de la misma posición acumulan cantidad y promedian costo
// ponderado: (3×1.00 + 1×2.00) / 4 = 1.25.
func TestAggregate_PromedioPonderado(t *testing.T) {
	inv := inventory.Aggregate([]entity.PurchaseLine{
		linea("m1", entity.ItemTypeMinifig, 0, 3, "1.00"),
		linea("m1", entity.ItemTypeMinifig, 0, 1, "2.00"),
	})

	require.Equal(t, 1, inv.Len())
	l := inv.Get(entity.NewStockKey("m1", entity.ItemTypeMinifig, 0))
	require.NotNil(t, l)
	assert.Equal(t, int64(4), l.Qty)
	assert.True(t, l.TotalCost.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, l.UnitCost.Equal(decimal.RequireFromString("1.25")))
}

// Las partes separan por color; sets y minifigs colapsan sus variantes.
func TestAggregate_ClaveDeColorSegunTipo(t *testing.T) {
	inv := inventory.Aggregate([]entity.PurchaseLine{
		linea("p1", entity.ItemTypePart, 1, 2, "0.10"),
		linea("p1", entity.ItemTypePart, 5, 3, "0.20"),
		linea("m1", entity.ItemTypeMinifig, 1, 1, "1.00"),
		linea("m1", entity.ItemTypeMinifig, 5, 1, "3.00"),
	})

	assert.Equal(t, 3, inv.Len(), "dos colores de parte + un minifig colapsado")
	assert.Equal(t, int64(2), inv.Get(entity.NewStockKey("p1", entity.ItemTypePart, 1)).Qty)
	assert.Equal(t, int64(3), inv.Get(entity.NewStockKey("p1", entity.ItemTypePart, 5)).Qty)

	m := inv.Get(entity.NewStockKey("m1", entity.ItemTypeMinifig, 0))
	require.NotNil(t, m)
	assert.Equal(t, int64(2), m.Qty, "las variantes de color del minifig se suman")
	assert.True(t, m.UnitCost.Equal(decimal.RequireFromString("2.00")))
}

// El orden de inserción del inventario sigue el orden de las compras; de él
// depende el descuento first-fit del asignador.
func TestAggregate_ConservaOrdenDeEntrada(t *testing.T) {
	inv := inventory.Aggregate([]entity.PurchaseLine{
		linea("b", entity.ItemTypePart, 1, 1, "0.10"),
		linea("a", entity.ItemTypePart, 1, 1, "0.10"),
		linea("c", entity.ItemTypePart, 1, 1, "0.10"),
	})

	ids := make([]string, 0, inv.Len())
	for _, l := range inv.Lines() {
		ids = append(ids, l.ItemID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

// Entrada sin líneas o con cantidades cero → inventario vacío, sin error.
func TestAggregate_EntradaVacia(t *testing.T) {
	assert.Equal(t, 0, inventory.Aggregate(nil).Len())
	assert.Equal(t, 0, inventory.Aggregate([]entity.PurchaseLine{
		linea("p1", entity.ItemTypePart, 1, 0, "0.10"),
	}).Len())
}

// La descripción más reciente no vacía gana al acumular sobre la misma posición.
func TestAggregate_DescripcionMasRecienteGana(t *testing.T) {
	uno := linea("m1", entity.ItemTypeMinifig, 0, 1, "1.00")
	uno.Description = "Boba Fett"
	dos := linea("m1", entity.ItemTypeMinifig, 0, 1, "1.00")

	inv := inventory.Aggregate([]entity.PurchaseLine{uno, dos})
	assert.Equal(t, "Boba Fett", inv.Get(entity.NewStockKey("m1", entity.ItemTypeMinifig, 0)).Description)
}

// Aggregate no muta el slice de entrada.
func TestAggregate_NoMutaEntrada(t *testing.T) {
	in := []entity.PurchaseLine{linea("p1", entity.ItemTypePart, 1, 2, "0.10")}
	_ = inventory.Aggregate(in)
	assert.Equal(t, int64(2), in[0].Qty)
	assert.True(t, in[0].UnitCost.Equal(decimal.RequireFromString("0.10")))
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	got := inventory.CostCalculator(
		decimal.NewFromInt(3), decimal.RequireFromString("1.00"),
		decimal.NewFromInt(1), decimal.RequireFromString("2.00"),
	)
	assert.True(t, got.Equal(decimal.RequireFromString("1.25")))

	// Sin stock ni entrada → costo cero, nunca división por cero.
	assert.True(t, inventory.CostCalculator(decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero).IsZero())
}
