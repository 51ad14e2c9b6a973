package bricklink_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/minifig-profit/internal/infrastructure/bricklink"
	"github.com/jhoicas/minifig-profit/pkg/logger"
)

func pedido(orderID, date string) string {
	return `<ORDER><ORDERID>` + orderID + `</ORDERID><ORDERDATE>` + date + `</ORDERDATE></ORDER>`
}

func leerOrdenes(t *testing.T, path string) []string {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(path))
	var ids []string
	for _, o := range doc.Root().SelectElements("ORDER") {
		ids = append(ids, o.SelectElement("ORDERID").Text())
	}
	return ids
}

// Pedidos repetidos entre exports se deduplican por Order ID (gana el de fecha
// más reciente) y el fusionado queda ordenado de más reciente a más antiguo.
func TestMerger_XMLDeduplicaYOrdena(t *testing.T) {
	dir := t.TempDir()
	escribir(t, dir, "a.xml", `<ORDERS>`+pedido("111", "2024-01-10")+pedido("222", "2024-03-01")+`</ORDERS>`)
	escribir(t, dir, "b.xml", `<ORDERS>`+pedido("111", "2024-02-20")+pedido("333", "2024-01-05")+`</ORDERS>`)

	m := bricklink.NewMerger(dir, logger.NewNop())
	require.NoError(t, m.MergeXML())

	ids := leerOrdenes(t, filepath.Join(dir, "orders.xml"))
	assert.Equal(t, []string{"222", "111", "333"}, ids)
}

// El fusionado previo no se vuelve a fusionar consigo mismo.
func TestMerger_XMLIgnoraFusionadoPrevio(t *testing.T) {
	dir := t.TempDir()
	escribir(t, dir, "orders.xml", `<ORDERS>`+pedido("999", "2024-01-01")+`</ORDERS>`)
	escribir(t, dir, "a.xml", `<ORDERS>`+pedido("111", "2024-01-10")+`</ORDERS>`)

	require.NoError(t, bricklink.NewMerger(dir, logger.NewNop()).MergeXML())

	ids := leerOrdenes(t, filepath.Join(dir, "orders.xml"))
	assert.Equal(t, []string{"111"}, ids, "el 999 venía del fusionado anterior")
}

// Directorio inexistente o sin exports: no-op sin error.
func TestMerger_SinArchivosNoHaceNada(t *testing.T) {
	dir := t.TempDir()
	m := bricklink.NewMerger(dir, logger.NewNop())
	require.NoError(t, m.MergeXML())
	require.NoError(t, m.MergeCSV())
	_, err := os.Stat(filepath.Join(dir, "orders.xml"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, bricklink.NewMerger(filepath.Join(dir, "no-existe"), logger.NewNop()).MergeXML())
}

// CSV: las filas de ítems quedan bajo su cabecera, deduplicadas por Inv ID;
// entre versiones del mismo pedido gana la más reciente.
func TestMerger_CSVConservaItemsBajoCabecera(t *testing.T) {
	dir := t.TempDir()
	header := "Order ID,Order Date,Inv ID,Item Number,Qty\n"
	escribir(t, dir, "a.csv", header+
		"111,2024-01-10,,,\n"+
		",,inv-1,3001,2\n"+
		",,inv-2,3002,1\n")
	escribir(t, dir, "b.csv", header+
		"111,2024-02-20,,,\n"+
		",,inv-1,3001,5\n"+
		"222,2024-01-01,,,\n"+
		",,inv-9,3003,4\n")

	require.NoError(t, bricklink.NewMerger(dir, logger.NewNop()).MergeCSV())

	f, err := os.Open(filepath.Join(dir, "orders.csv"))
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	// encabezado + (cabecera 111 + 2 ítems) + (cabecera 222 + 1 ítem)
	require.Len(t, recs, 6)
	assert.Equal(t, "111", recs[1][0], "el pedido más reciente va primero")
	assert.Equal(t, "2024-02-20", recs[1][1], "gana la cabecera más nueva")
	assert.Equal(t, "5", recs[2][4], "el ítem inv-1 queda con la versión nueva")
	assert.Equal(t, "inv-2", recs[3][2])
	assert.Equal(t, "222", recs[4][0])
	assert.Equal(t, "inv-9", recs[5][2])
}
