package bricklink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/minifig-profit/internal/application/dto"
	"github.com/jhoicas/minifig-profit/internal/domain/entity"
	"github.com/jhoicas/minifig-profit/pkg/logger"
)

// Nombres de los archivos fusionados; si existen, los exports individuales se
// ignoran para no duplicar pedidos.
const (
	mergedXMLName = "orders.xml"
	mergedCSVName = "orders.csv"
)

// OrderSource carga los pedidos BrickLink de un directorio de exports: XML con
// los pedidos y sus ítems, CSV con las descripciones de catálogo. Emite líneas
// de compra con el costo unitario ya cargado con la parte proporcional de los
// cargos del pedido (BASEGRANDTOTAL − ORDERTOTAL, prorrateado por el peso del
// ítem en el total).
type OrderSource struct {
	dir string
	log *logger.Logger
}

// NewOrderSource construye el cargador sobre un directorio de exports.
func NewOrderSource(dir string, log *logger.Logger) *OrderSource {
	return &OrderSource{dir: dir, log: log}
}

// Load devuelve las líneas de compra normalizadas y las filas crudas para la
// pestaña de pedidos. Un archivo ilegible se reporta y se omite.
func (s *OrderSource) Load(_ context.Context) ([]entity.PurchaseLine, []dto.OrderRow, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("leer directorio de pedidos %q: %w", s.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	descs := s.loadDescriptions(names)

	mergedXML := false
	for _, n := range names {
		if n == mergedXMLName {
			mergedXML = true
			break
		}
	}

	var purchases []entity.PurchaseLine
	var rows []dto.OrderRow
	for _, name := range names {
		if !strings.HasSuffix(name, ".xml") {
			continue
		}
		// Con el fusionado presente solo se lee orders.xml.
		if mergedXML && name != mergedXMLName {
			continue
		}
		p, r, err := s.loadXMLFile(filepath.Join(s.dir, name), descs)
		if err != nil {
			s.log.Warn().Err(err).Str("archivo", name).Msg("export XML ilegible, se omite")
			continue
		}
		purchases = append(purchases, p...)
		rows = append(rows, r...)
	}
	return purchases, rows, nil
}

// loadXMLFile parsea un export XML de pedidos y prorratea los cargos de cada
// pedido entre sus ítems.
func (s *OrderSource) loadXMLFile(path string, descs map[string]string) ([]entity.PurchaseLine, []dto.OrderRow, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, nil, fmt.Errorf("parsear %q: %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil, fmt.Errorf("parsear %q: documento vacío", path)
	}

	var purchases []entity.PurchaseLine
	var rows []dto.OrderRow
	for _, order := range root.SelectElements("ORDER") {
		orderID := childText(order, "ORDERID")
		orderDate := childText(order, "ORDERDATE")
		seller := childText(order, "SELLER")
		orderTotal := childDecimal(order, "ORDERTOTAL")
		baseTotal := childDecimal(order, "BASEGRANDTOTAL")
		fees := baseTotal.Sub(orderTotal)

		rows = append(rows, dto.OrderRow{
			IsHeader:       true,
			OrderID:        orderID,
			OrderDate:      orderDate,
			Seller:         seller,
			OrderTotal:     orderTotal,
			BaseGrandTotal: baseTotal,
		})

		for _, item := range order.SelectElements("ITEM") {
			itemID := childText(item, "ITEMID")
			itemType := entity.ItemType(childText(item, "ITEMTYPE"))
			if itemID == "" || !itemType.Valid() {
				continue
			}
			colorID, _ := strconv.Atoi(childText(item, "COLOR"))
			qty, _ := strconv.ParseInt(childText(item, "QTY"), 10, 64)
			price := childDecimal(item, "PRICE")
			sellerDesc := childText(item, "DESCRIPTION")
			condition := childText(item, "CONDITION")
			total := price.Mul(decimal.NewFromInt(qty))

			colorName := GetColorName(colorID)
			displayColor := colorName
			if displayColor == "" {
				displayColor = string(itemType)
			}
			csvDesc := descs[itemID]
			rows = append(rows, dto.OrderRow{
				ItemNumber:  itemID,
				Description: csvDesc,
				ColorName:   displayColor,
				ColorID:     colorID,
				ItemType:    string(itemType),
				Condition:   condition,
				Qty:         qty,
				Each:        price,
				Total:       total,
			})

			// Parte proporcional de los cargos del pedido para este ítem.
			share := decimal.Zero
			if orderTotal.IsPositive() {
				share = total.Div(orderTotal)
			}
			totalWithFees := total.Add(fees.Mul(share))
			unitCost := decimal.Zero
			if qty > 0 {
				unitCost = totalWithFees.Div(decimal.NewFromInt(qty))
			}

			lineColorName := ""
			if itemType == entity.ItemTypePart {
				lineColorName = colorName
			}
			purchases = append(purchases, entity.PurchaseLine{
				OrderID:     orderID,
				ItemID:      itemID,
				ItemType:    itemType,
				ColorID:     colorID,
				ColorName:   lineColorName,
				Description: cleanDescription(csvDesc, sellerDesc),
				Qty:         qty,
				UnitCost:    unitCost,
			})
		}
	}
	return purchases, rows, nil
}

// loadDescriptions toma las descripciones de catálogo de los CSV (la primera
// descripción encontrada por item id gana). Si existe el CSV fusionado, solo él.
func (s *OrderSource) loadDescriptions(names []string) map[string]string {
	mergedCSV := false
	for _, n := range names {
		if n == mergedCSVName {
			mergedCSV = true
			break
		}
	}

	descs := make(map[string]string)
	for _, name := range names {
		if !strings.HasSuffix(name, ".csv") {
			continue
		}
		if mergedCSV && name != mergedCSVName {
			continue
		}
		if err := readDescriptionsCSV(filepath.Join(s.dir, name), descs); err != nil {
			s.log.Warn().Err(err).Str("archivo", name).Msg("export CSV ilegible, se omite")
		}
	}
	return descs
}

func readDescriptionsCSV(path string, descs map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return err
	}
	idCol, descCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "Item Number":
			idCol = i
		case "Item Description":
			descCol = i
		}
	}
	if idCol < 0 || descCol < 0 {
		return nil // CSV sin columnas de catálogo; nada que aportar
	}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if idCol >= len(rec) || descCol >= len(rec) {
			continue
		}
		iid := strings.TrimSpace(rec[idCol])
		desc := strings.TrimSpace(rec[descCol])
		if iid != "" && desc != "" {
			if _, ok := descs[iid]; !ok {
				descs[iid] = desc
			}
		}
	}
}

// cleanDescription prefiere la descripción de catálogo del CSV y le recorta la
// nota del vendedor si viene pegada al final; sin CSV cae a la del vendedor.
func cleanDescription(csvDesc, sellerDesc string) string {
	if csvDesc == "" {
		return sellerDesc
	}
	clean := csvDesc
	if sellerDesc != "" && strings.HasSuffix(clean, sellerDesc) {
		clean = strings.TrimRight(strings.TrimSuffix(clean, sellerDesc), " -")
	}
	return clean
}

// childDecimal parsea el texto de un hijo como decimal; vacío o ilegible → 0.
func childDecimal(e *etree.Element, tag string) decimal.Decimal {
	raw := childText(e, tag)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
