// Package sheets publica el reporte de una corrida en una hoja de Google
// Sheets: resumen por lista con fórmulas de rentabilidad, inventario agregado,
// sobrante y pestaña de pedidos. Es la salida principal de la herramienta.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/jhoicas/minifig-profit/internal/application/dto"
	"github.com/jhoicas/minifig-profit/internal/domain/entity"
	"github.com/jhoicas/minifig-profit/pkg/config"
	"github.com/jhoicas/minifig-profit/pkg/logger"
)

var summaryHeaders = []interface{}{
	"Minifig ID", "Buildable", "Avg Cost", "Price", "Profit", "Margin", "Markup",
	"75%", "100%", "125%", "150%",
}

var inventoryHeaders = []interface{}{
	"Item ID", "Description", "Color", "Qty", "Total Cost", "Unit Cost",
}

var ordersHeaders = []interface{}{
	"Order ID", "Seller", "Order Date", "Subtotal", "Order Total",
	"Condition", "Item #", "Description", "Color", "Qty", "Each", "Total",
}

// Publisher implementa recon.ReportSink sobre la API de Sheets v4.
type Publisher struct {
	svc     *sheetsapi.Service
	cfg     config.SheetsConfig
	pricing config.PricingConfig
	log     *logger.Logger
}

// NewPublisher autentica con la cuenta de servicio y construye el sink.
func NewPublisher(ctx context.Context, cfg config.SheetsConfig, pricing config.PricingConfig, log *logger.Logger) (*Publisher, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("crear cliente de sheets: %w", err)
	}
	return &Publisher{svc: svc, cfg: cfg, pricing: pricing, log: log}, nil
}

// Publish vuelca el reporte completo. Las pestañas faltantes se crean; la
// columna Price del resumen y las ediciones manuales de la pestaña de pedidos
// se conservan entre corridas.
func (p *Publisher) Publish(ctx context.Context, rep *dto.Report) error {
	tabs, err := p.ensureTabs(ctx)
	if err != nil {
		return err
	}
	if err := p.seedConfig(ctx); err != nil {
		return err
	}
	if err := p.publishSummary(ctx, tabs[p.cfg.SummaryTab], rep.Rows); err != nil {
		return err
	}
	if err := p.publishInventory(ctx, p.cfg.InventoryTab, rep.Inventory); err != nil {
		return err
	}
	if err := p.publishInventory(ctx, p.cfg.LeftoversTab, rep.Leftovers); err != nil {
		return err
	}
	if err := p.publishOrders(ctx, tabs[p.cfg.OrdersTab], rep.Orders); err != nil {
		return err
	}
	p.log.Info().
		Str("run_id", rep.RunID).
		Str("spreadsheet", p.cfg.SpreadsheetID).
		Msg("reporte publicado en sheets")
	return nil
}

// ensureTabs crea las pestañas que falten y devuelve título → sheetId (los
// formatos de celda se aplican por sheetId, no por título).
func (p *Publisher) ensureTabs(ctx context.Context) (map[string]int64, error) {
	ss, err := p.svc.Spreadsheets.Get(p.cfg.SpreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", p.cfg.SpreadsheetID, err)
	}
	tabs := make(map[string]int64)
	for _, s := range ss.Sheets {
		tabs[s.Properties.Title] = s.Properties.SheetId
	}

	var reqs []*sheetsapi.Request
	wanted := []string{p.cfg.SummaryTab, p.cfg.InventoryTab, p.cfg.LeftoversTab, p.cfg.OrdersTab, p.cfg.ConfigTab}
	for _, title := range wanted {
		if _, ok := tabs[title]; !ok {
			reqs = append(reqs, &sheetsapi.Request{
				AddSheet: &sheetsapi.AddSheetRequest{
					Properties: &sheetsapi.SheetProperties{Title: title},
				},
			})
		}
	}
	if len(reqs) == 0 {
		return tabs, nil
	}
	resp, err := p.svc.Spreadsheets.BatchUpdate(p.cfg.SpreadsheetID,
		&sheetsapi.BatchUpdateSpreadsheetRequest{Requests: reqs}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("crear pestañas: %w", err)
	}
	for _, reply := range resp.Replies {
		if reply.AddSheet != nil {
			tabs[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
		}
	}
	return tabs, nil
}

// seedConfig siembra los valores que las fórmulas del resumen referencian
// (B1 envío, B2 materiales). Solo escribe celdas vacías: valores editados a
// mano en la hoja mandan sobre la configuración local.
func (p *Publisher) seedConfig(ctx context.Context) error {
	rng := p.cfg.ConfigTab + "!A1:B2"
	got, err := p.svc.Spreadsheets.Values.Get(p.cfg.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("leer pestaña de config: %w", err)
	}
	cell := func(r, c int) string {
		if r < len(got.Values) && c < len(got.Values[r]) {
			return strings.TrimSpace(fmt.Sprint(got.Values[r][c]))
		}
		return ""
	}
	values := [][]interface{}{
		{"Shipping Fee", cell(0, 1)},
		{"Materials Cost", cell(1, 1)},
	}
	if cell(0, 1) == "" {
		values[0][1] = p.pricing.ShippingFee.String()
	}
	if cell(1, 1) == "" {
		values[1][1] = p.pricing.MaterialsCost.String()
	}
	return p.update(ctx, rng, values, "USER_ENTERED")
}

// publishSummary escribe una fila por lista de deseados con las fórmulas de
// ganancia, margen, markup y puntos de precio. La columna Price conserva lo
// que el usuario haya fijado en corridas anteriores.
func (p *Publisher) publishSummary(ctx context.Context, sheetID int64, rows []dto.SummaryRow) error {
	prices, err := p.existingPrices(ctx)
	if err != nil {
		return err
	}
	if err := p.clear(ctx, p.cfg.SummaryTab); err != nil {
		return err
	}

	values := [][]interface{}{summaryHeaders}
	for i, row := range rows {
		n := i + 2 // fila en la hoja
		price := prices[row.Title]
		if price == "" {
			price = "=" + p.pricing.DefaultPrice.String()
		}
		values = append(values, []interface{}{
			row.Title,
			row.Buildable,
			row.AvgCost.StringFixed(2),
			price,
			fmt.Sprintf("=ROUND((D%d * 0.85) - C%d - %s!$B$1 - %s!$B$2, 2)", n, n, p.cfg.ConfigTab, p.cfg.ConfigTab),
			fmt.Sprintf(`=IF(D%d=0, "", ROUND(E%d / D%d, 2))`, n, n, n),
			fmt.Sprintf(`=IF(C%d=0, "", ROUND(E%d / C%d, 2))`, n, n, n),
			p.pricePointFormula(n, "1.75"),
			p.pricePointFormula(n, "2.0"),
			p.pricePointFormula(n, "2.25"),
			p.pricePointFormula(n, "2.5"),
		})
	}
	if err := p.update(ctx, p.cfg.SummaryTab+"!A1", values, "USER_ENTERED"); err != nil {
		return err
	}

	end := int64(len(rows)) + 1
	reqs := []*sheetsapi.Request{
		formatRequest(sheetID, 1, end, 5, 7, "PERCENT", "##0.00%"),     // Margin, Markup
		formatRequest(sheetID, 1, end, 7, 11, "CURRENCY", "$#,##0.00"), // puntos de precio
	}
	_, err = p.svc.Spreadsheets.BatchUpdate(p.cfg.SpreadsheetID,
		&sheetsapi.BatchUpdateSpreadsheetRequest{Requests: reqs}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("formatear resumen: %w", err)
	}
	return nil
}

// pricePointFormula calcula el costo de parte que haría rentable la figura al
// multiplicador dado, tras la comisión del 15% y los costos fijos.
func (p *Publisher) pricePointFormula(row int, multiplier string) string {
	return fmt.Sprintf("=CEILING(((D%d * 0.85) - (%s!$B$1 + %s!$B$2)) / %s, 0.25)",
		row, p.cfg.ConfigTab, p.cfg.ConfigTab, multiplier)
}

// existingPrices lee la columna Price actual del resumen, indexada por título.
func (p *Publisher) existingPrices(ctx context.Context) (map[string]string, error) {
	got, err := p.svc.Spreadsheets.Values.Get(p.cfg.SpreadsheetID, p.cfg.SummaryTab+"!A2:D").
		ValueRenderOption("FORMULA").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("leer precios del resumen: %w", err)
	}
	prices := make(map[string]string)
	for _, row := range got.Values {
		if len(row) < 4 {
			continue
		}
		title := strings.TrimSpace(fmt.Sprint(row[0]))
		price := strings.TrimSpace(fmt.Sprint(row[3]))
		if title != "" && price != "" {
			prices[title] = price
		}
	}
	return prices, nil
}

func (p *Publisher) publishInventory(ctx context.Context, tab string, inv *entity.Inventory) error {
	if err := p.clear(ctx, tab); err != nil {
		return err
	}
	values := [][]interface{}{inventoryHeaders}
	if inv != nil {
		for _, line := range inv.Lines() {
			if line.Qty <= 0 {
				continue
			}
			values = append(values, []interface{}{
				line.ItemID,
				stripColorPrefix(line.Description, line.ColorName),
				line.ColorName,
				line.Qty,
				line.TotalCost.Round(2).StringFixed(2),
				line.UnitCost.Round(2).StringFixed(2),
			})
		}
	}
	return p.update(ctx, tab+"!A1", values, "USER_ENTERED")
}

func (p *Publisher) publishOrders(ctx context.Context, sheetID int64, rows []dto.OrderRow) error {
	if len(rows) == 0 {
		return nil
	}
	edits, err := p.readOrderEdits(ctx)
	if err != nil {
		return err
	}
	if err := p.clear(ctx, p.cfg.OrdersTab); err != nil {
		return err
	}

	values := [][]interface{}{ordersHeaders}
	currentOrder := ""
	for _, row := range rows {
		var rec []interface{}
		if row.IsHeader {
			currentOrder = row.OrderID
			rec = []interface{}{
				row.OrderID, row.Seller, row.OrderDate,
				row.OrderTotal.StringFixed(2), row.BaseGrandTotal.StringFixed(2),
				"", "", "", "", "", "", "",
			}
		} else {
			rec = []interface{}{
				"", "", "", "", "",
				row.Condition, row.ItemNumber,
				stripColorPrefix(row.Description, row.ColorName),
				row.ColorName, row.Qty,
				row.Each.StringFixed(2), row.Total.StringFixed(2),
			}
			// Ediciones manuales de la corrida anterior: celda no vacía manda.
			if edit, ok := edits[editKey{currentOrder, row.ItemNumber}]; ok {
				for i := 5; i < len(rec) && i < len(edit); i++ {
					if strings.TrimSpace(edit[i]) != "" {
						rec[i] = edit[i]
					}
				}
			}
		}
		values = append(values, rec)
	}
	if err := p.update(ctx, p.cfg.OrdersTab+"!A1", values, "USER_ENTERED"); err != nil {
		return err
	}

	end := int64(len(values)) - 1
	reqs := []*sheetsapi.Request{
		formatRequest(sheetID, 1, end, 3, 5, "CURRENCY", "$#,##0.00"),   // Subtotal, Order Total
		formatRequest(sheetID, 1, end, 10, 12, "CURRENCY", "$#,##0.00"), // Each, Total
	}
	_, err = p.svc.Spreadsheets.BatchUpdate(p.cfg.SpreadsheetID,
		&sheetsapi.BatchUpdateSpreadsheetRequest{Requests: reqs}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("formatear pedidos: %w", err)
	}
	return nil
}

type editKey struct {
	orderID string
	itemID  string
}

// readOrderEdits captura la pestaña de pedidos antes de regenerarla. Las filas
// de ítem no llevan Order ID, así que se arrastra el de la última cabecera.
func (p *Publisher) readOrderEdits(ctx context.Context) (map[editKey][]string, error) {
	got, err := p.svc.Spreadsheets.Values.Get(p.cfg.SpreadsheetID, p.cfg.OrdersTab+"!A2:L").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("leer ediciones de pedidos: %w", err)
	}
	edits := make(map[editKey][]string)
	currentOrder := ""
	for _, row := range got.Values {
		rec := make([]string, 12)
		for i := 0; i < len(rec) && i < len(row); i++ {
			rec[i] = fmt.Sprint(row[i])
		}
		if strings.TrimSpace(rec[0]) != "" {
			currentOrder = strings.TrimSpace(rec[0])
			continue
		}
		itemID := strings.TrimSpace(rec[6])
		if currentOrder == "" || itemID == "" {
			continue
		}
		edits[editKey{currentOrder, itemID}] = rec
	}
	return edits, nil
}

func (p *Publisher) clear(ctx context.Context, tab string) error {
	_, err := p.svc.Spreadsheets.Values.Clear(p.cfg.SpreadsheetID, tab,
		&sheetsapi.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("limpiar pestaña %s: %w", tab, err)
	}
	return nil
}

func (p *Publisher) update(ctx context.Context, rng string, values [][]interface{}, inputOption string) error {
	_, err := p.svc.Spreadsheets.Values.Update(p.cfg.SpreadsheetID, rng,
		&sheetsapi.ValueRange{Values: values}).
		ValueInputOption(inputOption).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("escribir rango %s: %w", rng, err)
	}
	return nil
}

// formatRequest aplica un formato numérico a un rango de columnas (índices
// base cero, fin exclusivo).
func formatRequest(sheetID, startRow, endRow, startCol, endCol int64, typ, pattern string) *sheetsapi.Request {
	return &sheetsapi.Request{
		RepeatCell: &sheetsapi.RepeatCellRequest{
			Range: &sheetsapi.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    startRow,
				EndRowIndex:      endRow,
				StartColumnIndex: startCol,
				EndColumnIndex:   endCol,
			},
			Cell: &sheetsapi.CellData{
				UserEnteredFormat: &sheetsapi.CellFormat{
					NumberFormat: &sheetsapi.NumberFormat{Type: typ, Pattern: pattern},
				},
			},
			Fields: "userEnteredFormat.numberFormat",
		},
	}
}

// stripColorPrefix quita el nombre de color con que BrickLink antepone las
// descripciones de partes ("Red Brick 2 x 4" → "Brick 2 x 4").
func stripColorPrefix(description, colorName string) string {
	if colorName == "" || description == "" {
		return description
	}
	if strings.HasPrefix(strings.ToLower(description), strings.ToLower(colorName)) {
		return strings.TrimLeft(description[len(colorName):], " ")
	}
	return description
}
