package entity

import "github.com/shopspring/decimal"

// PurchaseLine es una línea de compra de un pedido BrickLink ya normalizada:
// el costo unitario incluye la parte proporcional de fletes y cargos del pedido.
// Es la entrada del agregador de inventario.
type PurchaseLine struct {
	OrderID     string
	ItemID      string
	ItemType    ItemType
	ColorID     int // significativo solo cuando ItemType = P
	ColorName   string
	Description string
	Qty         int64
	UnitCost    decimal.Decimal
}
