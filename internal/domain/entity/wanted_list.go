package entity

// RequiredItem es una línea de la lista de materiales de un paquete vendible:
// cuántas unidades de una posición de stock requiere cada paquete completo.
type RequiredItem struct {
	ItemID   string
	ItemType ItemType
	ColorID  *int // solo partes
	Qty      int64
	// LoosePart marca una parte requerida sin contenedor designado (set o
	// minifig): su presencia señala que la lista es un kit plano de partes.
	// En los XML de BrickLink corresponde a un ITEM tipo P sin MINQTY.
	LoosePart bool
}

// Key devuelve la clave de stock que satisface el requisito (color exacto para partes).
func (r *RequiredItem) Key() StockKey {
	colorID := 0
	if r.ColorID != nil {
		colorID = *r.ColorID
	}
	return NewStockKey(r.ItemID, r.ItemType, colorID)
}

// WantedList es una lista de deseados: la lista de materiales de un paquete
// vendible, identificada por título. A lo sumo un RequiredItem de tipo Set por
// lista; si hay varios solo se considera el primero.
type WantedList struct {
	Title string
	Items []*RequiredItem
}

// ValidItems devuelve los requisitos con cantidad positiva, en el orden de la
// lista. Las cantidades cero o negativas se filtran antes de asignar; no son error.
func (w *WantedList) ValidItems() []*RequiredItem {
	out := make([]*RequiredItem, 0, len(w.Items))
	for _, it := range w.Items {
		if it != nil && it.Qty >= 1 && it.ItemType.Valid() {
			out = append(out, it)
		}
	}
	return out
}
