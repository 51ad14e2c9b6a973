package entity

// Inventory es la colección de líneas de stock. Mantiene el orden de inserción:
// el asignador descuenta recorriendo las líneas en este orden (first-fit), por lo
// que el costo reportado depende de él y debe ser reproducible entre ejecuciones.
// Nunca usar un map pelado para iterar.
type Inventory struct {
	lines []*InventoryLine
	index map[StockKey]int
}

// NewInventory crea un inventario vacío.
func NewInventory() *Inventory {
	return &Inventory{index: make(map[StockKey]int)}
}

// Get devuelve la línea para una clave exacta, o nil si no existe.
func (inv *Inventory) Get(key StockKey) *InventoryLine {
	if i, ok := inv.index[key]; ok {
		return inv.lines[i]
	}
	return nil
}

// Lines devuelve las líneas en orden de inserción. El slice es el interno:
// los llamadores no deben reordenarlo.
func (inv *Inventory) Lines() []*InventoryLine {
	return inv.lines
}

// Len devuelve el número de líneas.
func (inv *Inventory) Len() int {
	return len(inv.lines)
}

// Put inserta una línea en la siguiente posición. La clave no debe existir ya;
// para plegar compras sobre una posición existente está inventory.Aggregate.
func (inv *Inventory) Put(line *InventoryLine) {
	inv.index[line.Key()] = len(inv.lines)
	inv.lines = append(inv.lines, line)
}

// Clone devuelve una copia profunda conservando el orden de las líneas.
// El asignador muta la copia; el inventario original queda intacto.
func (inv *Inventory) Clone() *Inventory {
	cp := &Inventory{
		lines: make([]*InventoryLine, len(inv.lines)),
		index: make(map[StockKey]int, len(inv.index)),
	}
	for i, l := range inv.lines {
		cp.lines[i] = l.clone()
	}
	for k, v := range inv.index {
		cp.index[k] = v
	}
	return cp
}

// TotalQty suma las cantidades de todas las líneas (útil para conservación en tests).
func (inv *Inventory) TotalQty() int64 {
	var total int64
	for _, l := range inv.lines {
		total += l.Qty
	}
	return total
}
