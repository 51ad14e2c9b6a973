package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((QtyActual * CostoActual) + (QtyEntrada * CostoEntrada)) / (QtyActual + QtyEntrada)
func CostCalculator(qtyActual, costoActual, qtyEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := qtyActual.Add(qtyEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := qtyActual.Mul(costoActual).Add(qtyEntrada.Mul(costoEntrada))
	return num.Div(sum)
}
