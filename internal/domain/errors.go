package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNoOrders = errors.New("no hay archivos de pedidos para procesar")
	ErrNoLists  = errors.New("no hay listas de deseados para procesar")
)
