// Package inventory agrupa las líneas de compra en un inventario plano con
// costo promedio ponderado por posición de stock.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/minifig-profit/internal/domain/entity"
)

// Aggregate pliega una secuencia de líneas de compra en un inventario keyed por
// (item id, clave de color): las partes separan por color, sets y minifigs
// suman todas sus variantes en una sola posición. El costo unitario de cada
// posición se recalcula con CostCalculator en cada compra que contribuye (los
// cargos del pedido ya vienen prorrateados en cada línea). Función pura: no
// muta la entrada.
func Aggregate(lines []entity.PurchaseLine) *entity.Inventory {
	inv := entity.NewInventory()
	for _, pl := range lines {
		if pl.Qty == 0 {
			continue
		}
		key := entity.NewStockKey(pl.ItemID, pl.ItemType, pl.ColorID)
		line := inv.Get(key)
		if line == nil {
			var colorID *int
			colorName := ""
			if pl.ItemType == entity.ItemTypePart {
				c := pl.ColorID
				colorID = &c
				colorName = pl.ColorName
			}
			line = &entity.InventoryLine{
				ItemID:    pl.ItemID,
				ItemType:  pl.ItemType,
				ColorID:   colorID,
				ColorName: colorName,
				TotalCost: decimal.Zero,
				UnitCost:  decimal.Zero,
			}
			inv.Put(line)
		}
		qtyIn := decimal.NewFromInt(pl.Qty)
		line.UnitCost = CostCalculator(decimal.NewFromInt(line.Qty), line.UnitCost, qtyIn, pl.UnitCost)
		line.Qty += pl.Qty
		line.TotalCost = line.TotalCost.Add(pl.UnitCost.Mul(qtyIn))
		// La descripción más reciente no vacía gana (igual que el cargador de pedidos).
		if pl.Description != "" {
			line.Description = pl.Description
		}
	}
	return inv
}
