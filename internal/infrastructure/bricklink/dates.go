package bricklink

import "time"

// Formatos de fecha que BrickLink usa en sus exports, del más al menos común.
var orderDateFormats = []string{
	"2006-01-02T15:04:05.000Z", // 2024-08-15T10:30:00.000Z
	"2006-01-02T15:04:05Z",     // 2024-08-15T10:30:00Z
	"2006-01-02 15:04:05",      // 2024-08-15 10:30:00
	"2006-01-02",               // 2024-08-15
	"1/2/2006 15:04:05",        // 08/15/2024 10:30:00
	"1/2/2006 15:04",           // 08/15/2024 10:30
	"1/2/2006",                 // 08/15/2024
}

// parseOrderDate interpreta la fecha de un pedido. Devuelve el cero de time.Time
// si no se reconoce el formato, de modo que el pedido quede al final al ordenar
// de más reciente a más antiguo.
func parseOrderDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range orderDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
