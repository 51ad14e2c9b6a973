// Package build implementa el motor de asignación de armabilidad: cuántos
// paquetes completos de una lista de deseados se pueden armar con el inventario
// en mano, a qué costo real y qué inventario queda después del descuento.
package build

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/minifig-profit/internal/domain/entity"
)

// Result es el resultado de asignar una lista contra un inventario.
// Cost es la suma del costo unitario de cada unidad física realmente
// consumida; no es Builds por un costo promedio a priori.
type Result struct {
	Builds    int64
	Cost      decimal.Decimal
	Inventory *entity.Inventory
}

// Allocate determina cuántos paquetes completos de la lista pueden armarse.
// Trabaja sobre una copia del inventario: el original del llamador queda
// intacto y el inventario devuelto refleja los descuentos.
//
// La lista se resuelve en tres fases secuenciales e independientes, porque la
// lista de materiales particiona en clases de recurso que no comparten clave
// de stock:
//
//   - Fase A: el set contenedor (a lo sumo uno por lista; color ignorado).
//   - Fase B: minifigs (color sumado entre variantes) y partes accesorias
//     nombradas (color exacto). El mínimo de las razones disponible/requerido
//     limita la producción (cuello de botella).
//   - Fase C: si alguna parte viene marcada como suelta (kit plano), todas las
//     partes de la lista se tratan como un kit con la misma regla de mínimo.
//
// Ojo: una lista que mezcla contexto de set/minifig con partes sueltas hace
// que la Fase C vuelva a contar partes ya descontadas como accesorios en la
// Fase B. Es el comportamiento histórico de la herramienta; se conserva tal
// cual hasta que producto decida lo contrario.
//
// Los faltantes no son error: disponibilidad cero produce cero armados.
func Allocate(list *entity.WantedList, inv *entity.Inventory) Result {
	out := inv.Clone()
	var builds int64
	cost := decimal.Zero
	items := list.ValidItems()

	// ---- Fase A: set contenedor (solo el primero encontrado) ----
	var setReq *entity.RequiredItem
	for _, it := range items {
		if it.ItemType == entity.ItemTypeSet {
			setReq = it
			break
		}
	}
	if setReq != nil {
		avail := sumAvailable(out, matchItem(setReq.ItemID, entity.ItemTypeSet))
		if n := avail / setReq.Qty; n > 0 {
			cost = cost.Add(consume(out, matchItem(setReq.ItemID, entity.ItemTypeSet), setReq.Qty*n))
			builds += n
		}
	}

	// ---- Fase B: minifigs + accesorios nombrados ----
	minifigs := dedupeByKey(filterItems(items, func(it *entity.RequiredItem) bool {
		return it.ItemType == entity.ItemTypeMinifig
	}))
	accessories := dedupeByKey(filterItems(items, func(it *entity.RequiredItem) bool {
		return it.ItemType == entity.ItemTypePart && !it.LoosePart
	}))
	if len(minifigs)+len(accessories) > 0 {
		n := int64(math.MaxInt64)
		for _, m := range minifigs {
			n = minInt64(n, sumAvailable(out, matchItem(m.ItemID, entity.ItemTypeMinifig))/m.Qty)
		}
		for _, a := range accessories {
			n = minInt64(n, availableAt(out, a.Key())/a.Qty)
		}
		if n > 0 {
			// Minifigs: descuento agnóstico de color entre todas las variantes.
			for _, m := range minifigs {
				cost = cost.Add(consume(out, matchItem(m.ItemID, entity.ItemTypeMinifig), m.Qty*n))
			}
			// Accesorios: descuento con color exacto.
			for _, a := range accessories {
				cost = cost.Add(consume(out, matchKey(a.Key()), a.Qty*n))
			}
			builds += n
		}
	}

	// ---- Fase C: kit plano de partes sueltas ----
	loose := false
	for _, it := range items {
		if it.LoosePart {
			loose = true
			break
		}
	}
	if loose {
		parts := dedupeByKey(filterItems(items, func(it *entity.RequiredItem) bool {
			return it.ItemType == entity.ItemTypePart
		}))
		if len(parts) > 0 {
			n := int64(math.MaxInt64)
			for _, p := range parts {
				n = minInt64(n, availableAt(out, p.Key())/p.Qty)
			}
			if n > 0 {
				for _, p := range parts {
					cost = cost.Add(consume(out, matchKey(p.Key()), p.Qty*n))
				}
				builds += n
			}
		}
	}

	return Result{Builds: builds, Cost: cost, Inventory: out}
}

// consume descuenta needed unidades de las líneas que cumplen match, en su
// orden de almacenamiento (first-fit, sin reordenar ni minimizar costo), y
// devuelve el costo de las unidades tomadas al costo unitario de cada línea.
// El costo reportado es el histórico de las unidades físicas consumidas; dos
// inventarios iguales en cantidades pero con distinto orden pueden reportar
// costos distintos para el mismo número de armados. Se conserva así para que
// las corridas históricas sigan siendo comparables.
func consume(inv *entity.Inventory, match func(*entity.InventoryLine) bool, needed int64) decimal.Decimal {
	cost := decimal.Zero
	for _, l := range inv.Lines() {
		if needed == 0 {
			break
		}
		if l.Qty <= 0 || !match(l) {
			continue
		}
		take := minInt64(l.Qty, needed)
		if take > 0 {
			cost = cost.Add(l.UnitCost.Mul(decimal.NewFromInt(take)))
			l.Qty -= take
			needed -= take
		}
	}
	return cost
}

// sumAvailable suma la cantidad disponible de todas las líneas que cumplen match.
func sumAvailable(inv *entity.Inventory, match func(*entity.InventoryLine) bool) int64 {
	var total int64
	for _, l := range inv.Lines() {
		if match(l) {
			total += l.Qty
		}
	}
	return total
}

// availableAt devuelve la cantidad en la clave exacta (0 si la posición no existe).
func availableAt(inv *entity.Inventory, key entity.StockKey) int64 {
	if l := inv.Get(key); l != nil {
		return l.Qty
	}
	return 0
}

// matchItem empareja por item id y tipo, entre todas las variantes de color
// que haya en inventario (sets y minifigs descuentan sin distinguir color).
func matchItem(itemID string, t entity.ItemType) func(*entity.InventoryLine) bool {
	return func(l *entity.InventoryLine) bool {
		return l.ItemID == itemID && l.ItemType == t
	}
}

func matchKey(key entity.StockKey) func(*entity.InventoryLine) bool {
	return func(l *entity.InventoryLine) bool {
		return l.Key() == key
	}
}

func filterItems(items []*entity.RequiredItem, keep func(*entity.RequiredItem) bool) []*entity.RequiredItem {
	var out []*entity.RequiredItem
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// dedupeByKey colapsa requisitos duplicados de la misma clave de stock: queda
// la posición del primero y manda la cantidad del último.
func dedupeByKey(items []*entity.RequiredItem) []*entity.RequiredItem {
	if len(items) < 2 {
		return items
	}
	seen := make(map[entity.StockKey]int, len(items))
	out := make([]*entity.RequiredItem, 0, len(items))
	for _, it := range items {
		key := it.Key()
		if i, ok := seen[key]; ok {
			out[i] = it
			continue
		}
		seen[key] = len(out)
		out = append(out, it)
	}
	return out
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
