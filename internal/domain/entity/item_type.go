package entity

// ItemType clasifica una unidad de catálogo BrickLink.
// El color solo participa en la identidad de stock para las partes.
type ItemType string

const (
	ItemTypeSet     ItemType = "S" // set (contenedor)
	ItemTypeMinifig ItemType = "M" // minifigura
	ItemTypePart    ItemType = "P" // parte suelta
)

// HasColorKey indica si el color forma parte de la clave de stock para este tipo.
// Sets y minifigs colapsan todas sus variantes de color en una sola posición.
func (t ItemType) HasColorKey() bool {
	return t == ItemTypePart
}

// Valid indica si el tipo es uno de los soportados.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeSet, ItemTypeMinifig, ItemTypePart:
		return true
	}
	return false
}
