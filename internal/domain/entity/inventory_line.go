package entity

import "github.com/shopspring/decimal"

// StockKey identifica una posición de stock: item id y, solo para partes, color.
// Sets y minifigs se registran sin color (Colored = false).
type StockKey struct {
	ItemID  string
	ColorID int
	Colored bool
}

// NewStockKey construye la clave según el tipo: las partes llevan color,
// sets y minifigs lo ignoran.
func NewStockKey(itemID string, itemType ItemType, colorID int) StockKey {
	if itemType.HasColorKey() {
		return StockKey{ItemID: itemID, ColorID: colorID, Colored: true}
	}
	return StockKey{ItemID: itemID}
}

// InventoryLine representa el stock en mano de una posición de stock, con su
// costo promedio ponderado por unidad (fletes y cargos ya prorrateados río arriba).
type InventoryLine struct {
	ItemID      string
	ItemType    ItemType
	ColorID     *int // solo partes; nil para sets y minifigs
	ColorName   string
	Description string
	Qty         int64
	TotalCost   decimal.Decimal
	UnitCost    decimal.Decimal
}

// Key devuelve la clave de stock de la línea.
func (l *InventoryLine) Key() StockKey {
	colorID := 0
	if l.ColorID != nil {
		colorID = *l.ColorID
	}
	return NewStockKey(l.ItemID, l.ItemType, colorID)
}

// clone copia la línea (los decimales son inmutables, basta copiar el struct).
func (l *InventoryLine) clone() *InventoryLine {
	cp := *l
	if l.ColorID != nil {
		c := *l.ColorID
		cp.ColorID = &c
	}
	return &cp
}
