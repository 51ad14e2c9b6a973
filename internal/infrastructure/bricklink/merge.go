package bricklink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/minifig-profit/pkg/logger"
)

// Merger fusiona los exports de pedidos sueltos en orders.xml / orders.csv
// canónicos: únicos por Order ID (gana la versión más reciente) y ordenados de
// más reciente a más antiguo. Los cargadores leen solo el fusionado cuando existe.
type Merger struct {
	dir string
	log *logger.Logger
}

// NewMerger construye el fusionador sobre el directorio de exports.
func NewMerger(dir string, log *logger.Logger) *Merger {
	return &Merger{dir: dir, log: log}
}

// MergeXML fusiona todos los XML del directorio en orders.xml.
// Sin archivos que fusionar no hace nada y no es error.
func (m *Merger) MergeXML() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("leer directorio de pedidos %q: %w", m.dir, err)
	}

	type keptOrder struct {
		elem *etree.Element
		date time.Time
	}
	ordersByID := make(map[string]keptOrder)
	var orderIDs []string // para iteración determinista

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".xml") || name == mergedXMLName {
			continue
		}
		doc := etree.NewDocument()
		if err := doc.ReadFromFile(filepath.Join(m.dir, name)); err != nil {
			m.log.Warn().Err(err).Str("archivo", name).Msg("XML ilegible, se omite del fusionado")
			continue
		}
		root := doc.Root()
		if root == nil {
			continue
		}
		for _, order := range root.SelectElements("ORDER") {
			orderID := childText(order, "ORDERID")
			if orderID == "" {
				continue
			}
			date := parseOrderDate(childText(order, "ORDERDATE"))
			// Pedido repetido entre exports: se queda la versión más reciente.
			if existing, ok := ordersByID[orderID]; ok {
				if !date.After(existing.date) {
					continue
				}
			} else {
				orderIDs = append(orderIDs, orderID)
			}
			ordersByID[orderID] = keptOrder{elem: order.Copy(), date: date}
		}
	}

	if len(ordersByID) == 0 {
		return nil
	}

	// De más reciente a más antiguo; a igual fecha, por id para estabilidad.
	sort.SliceStable(orderIDs, func(i, j int) bool {
		a, b := ordersByID[orderIDs[i]], ordersByID[orderIDs[j]]
		if !a.date.Equal(b.date) {
			return a.date.After(b.date)
		}
		return orderIDs[i] > orderIDs[j]
	})

	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := out.CreateElement("ORDERS")
	for _, id := range orderIDs {
		root.AddChild(ordersByID[id].elem)
	}
	out.Indent(2)
	if err := out.WriteToFile(filepath.Join(m.dir, mergedXMLName)); err != nil {
		return fmt.Errorf("escribir %s: %w", mergedXMLName, err)
	}
	m.log.Info().Int("pedidos", len(orderIDs)).Msg("orders.xml fusionado")
	return nil
}

// MergeCSV fusiona todos los CSV del directorio en orders.csv, conservando las
// filas de ítems bajo su cabecera de pedido. Los ítems se deduplican por Inv ID
// o, a falta de él, por una clave compuesta de sus campos; gana la versión del
// pedido más reciente.
func (m *Merger) MergeCSV() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("leer directorio de pedidos %q: %w", m.dir, err)
	}

	type keptItem struct {
		row  map[string]string
		date time.Time
	}
	type orderEntry struct {
		date     time.Time
		header   map[string]string
		items    map[string]*keptItem
		itemKeys []string // orden de inserción
	}

	var headers []string
	ordersByID := make(map[string]*orderEntry)
	var orderIDs []string

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".csv") || name == mergedCSVName {
			continue
		}
		f, err := os.Open(filepath.Join(m.dir, name))
		if err != nil {
			m.log.Warn().Err(err).Str("archivo", name).Msg("CSV ilegible, se omite del fusionado")
			continue
		}
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		fileHeader, err := r.Read()
		if err != nil {
			f.Close()
			m.log.Warn().Err(err).Str("archivo", name).Msg("CSV sin encabezado, se omite del fusionado")
			continue
		}
		if headers == nil {
			headers = fileHeader
		}

		currentID := ""
		var currentDate time.Time
		for {
			rec, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				m.log.Warn().Err(err).Str("archivo", name).Msg("fila CSV ilegible, se omite")
				continue
			}
			row := recordToMap(fileHeader, rec)
			if rowEmpty(row) {
				continue
			}

			if rawID := strings.TrimSpace(row["Order ID"]); rawID != "" {
				// Fila de cabecera de pedido.
				currentID = rawID
				currentDate = parseOrderDate(strings.TrimSpace(row["Order Date"]))
				existing := ordersByID[rawID]
				if existing == nil {
					ordersByID[rawID] = &orderEntry{date: currentDate, header: row, items: make(map[string]*keptItem)}
					orderIDs = append(orderIDs, rawID)
				} else if currentDate.After(existing.date) {
					// Cabecera más nueva; los ítems ya recogidos se conservan.
					existing.date = currentDate
					existing.header = row
				}
				continue
			}

			// Fila de ítem: se asocia a la última cabecera vista.
			if currentID == "" {
				continue // ítem huérfano, no se puede asociar
			}
			entry := ordersByID[currentID]
			if entry == nil {
				entry = &orderEntry{date: currentDate, items: make(map[string]*keptItem)}
				ordersByID[currentID] = entry
				orderIDs = append(orderIDs, currentID)
			}

			key := itemKey(row)
			itemDate := currentDate
			if itemDate.IsZero() {
				itemDate = entry.date
			}
			if existing, ok := entry.items[key]; ok {
				if itemDate.Before(existing.date) {
					continue
				}
				existing.row = row
				existing.date = itemDate
				continue
			}
			entry.items[key] = &keptItem{row: row, date: itemDate}
			entry.itemKeys = append(entry.itemKeys, key)
		}
		f.Close()
	}

	if len(ordersByID) == 0 || headers == nil {
		return nil
	}

	sort.SliceStable(orderIDs, func(i, j int) bool {
		a, b := ordersByID[orderIDs[i]], ordersByID[orderIDs[j]]
		if !a.date.Equal(b.date) {
			return a.date.After(b.date)
		}
		return orderIDs[i] > orderIDs[j]
	})

	out, err := os.Create(filepath.Join(m.dir, mergedCSVName))
	if err != nil {
		return fmt.Errorf("crear %s: %w", mergedCSVName, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("escribir %s: %w", mergedCSVName, err)
	}
	totalItems := 0
	for _, id := range orderIDs {
		entry := ordersByID[id]
		if entry.header == nil {
			// Pedido con ítems pero sin cabecera: se descarta completo.
			continue
		}
		if err := w.Write(mapToRecord(headers, entry.header)); err != nil {
			return fmt.Errorf("escribir %s: %w", mergedCSVName, err)
		}
		for _, key := range entry.itemKeys {
			if err := w.Write(mapToRecord(headers, entry.items[key].row)); err != nil {
				return fmt.Errorf("escribir %s: %w", mergedCSVName, err)
			}
			totalItems++
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("escribir %s: %w", mergedCSVName, err)
	}
	m.log.Info().Int("pedidos", len(orderIDs)).Int("items", totalItems).Msg("orders.csv fusionado")
	return nil
}

func recordToMap(header, rec []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(rec) {
			row[h] = rec[i]
		} else {
			row[h] = ""
		}
	}
	return row
}

func mapToRecord(header []string, row map[string]string) []string {
	rec := make([]string, len(header))
	for i, h := range header {
		rec[i] = row[h]
	}
	return rec
}

func rowEmpty(row map[string]string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// itemKey deduplica ítems: Inv ID si existe, si no una clave compuesta con los
// campos que identifican la línea.
func itemKey(row map[string]string) string {
	if inv := strings.TrimSpace(row["Inv ID"]); inv != "" {
		return inv
	}
	fields := []string{
		"Item Type", "Item Number", "Item Description", "Sub-Condition",
		"Qty", "Each", "Total", "Weight", "Batch", "Batch Date", "Condition",
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = strings.TrimSpace(row[f])
	}
	return strings.Join(parts, "|")
}
