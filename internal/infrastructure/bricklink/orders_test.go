package bricklink_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/minifig-profit/internal/domain/entity"
	"github.com/jhoicas/minifig-profit/internal/infrastructure/bricklink"
	"github.com/jhoicas/minifig-profit/pkg/logger"
)

const pedidoXML = `<?xml version="1.0"?>
<ORDERS>
  <ORDER>
    <ORDERID>12345</ORDERID>
    <ORDERDATE>2024-08-15T10:30:00.000Z</ORDERDATE>
    <SELLER>brickshop</SELLER>
    <ORDERTOTAL>10.00</ORDERTOTAL>
    <BASEGRANDTOTAL>12.00</BASEGRANDTOTAL>
    <ITEM>
      <ITEMID>sh016</ITEMID>
      <ITEMTYPE>M</ITEMTYPE>
      <COLOR>0</COLOR>
      <QTY>2</QTY>
      <PRICE>2.50</PRICE>
      <DESCRIPTION>nota del vendedor</DESCRIPTION>
      <CONDITION>N</CONDITION>
    </ITEM>
    <ITEM>
      <ITEMID>3001</ITEMID>
      <ITEMTYPE>P</ITEMTYPE>
      <COLOR>5</COLOR>
      <QTY>5</QTY>
      <PRICE>1.00</PRICE>
      <DESCRIPTION></DESCRIPTION>
      <CONDITION>U</CONDITION>
    </ITEM>
  </ORDER>
</ORDERS>`

// Los cargos del pedido (BASEGRANDTOTAL − ORDERTOTAL) se prorratean por el peso
// de cada ítem en el total: el costo unitario resultante los incluye.
func TestOrderSource_ProrrateaCargos(t *testing.T) {
	dir := t.TempDir()
	escribir(t, dir, "export1.xml", pedidoXML)

	purchases, rows, err := bricklink.NewOrderSource(dir, logger.NewNop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, purchases, 2)

	// 2.00 de cargos: 1.00 a cada ítem (5.00/10.00 de peso cada uno).
	fig := purchases[0]
	assert.Equal(t, "sh016", fig.ItemID)
	assert.Equal(t, entity.ItemTypeMinifig, fig.ItemType)
	assert.True(t, fig.UnitCost.Equal(decimal.RequireFromString("3.00")), "(5+1)/2 = 3.00, fue %s", fig.UnitCost)

	parte := purchases[1]
	assert.Equal(t, "3001", parte.ItemID)
	assert.Equal(t, 5, parte.ColorID)
	assert.Equal(t, "Red", parte.ColorName)
	assert.True(t, parte.UnitCost.Equal(decimal.RequireFromString("1.20")), "(5+1)/5 = 1.20, fue %s", parte.UnitCost)

	// Filas para la pestaña de pedidos: cabecera + 2 ítems.
	require.Len(t, rows, 3)
	assert.True(t, rows[0].IsHeader)
	assert.Equal(t, "12345", rows[0].OrderID)
	assert.Equal(t, "brickshop", rows[0].Seller)
	assert.Equal(t, int64(2), rows[1].Qty)
	assert.True(t, rows[2].Total.Equal(decimal.RequireFromString("5.00")))
}

// La descripción de catálogo del CSV gana sobre la del vendedor, recortando la
// nota del vendedor si viene pegada al final.
func TestOrderSource_DescripcionDeCatalogo(t *testing.T) {
	dir := t.TempDir()
	escribir(t, dir, "export1.xml", pedidoXML)
	escribir(t, dir, "export1.csv", "Order ID,Order Date,Item Number,Item Description\n"+
		"12345,2024-08-15,,\n"+
		",,sh016,Batman with Cape - nota del vendedor\n")

	purchases, _, err := bricklink.NewOrderSource(dir, logger.NewNop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, "Batman with Cape", purchases[0].Description)
	assert.Equal(t, "", purchases[1].Description, "sin CSV ni descripción de vendedor queda vacía")
}

// Con orders.xml fusionado presente, los exports individuales se ignoran para
// no contar pedidos dos veces.
func TestOrderSource_PrefiereFusionado(t *testing.T) {
	dir := t.TempDir()
	escribir(t, dir, "export1.xml", pedidoXML)
	escribir(t, dir, "orders.xml", pedidoXML)

	purchases, _, err := bricklink.NewOrderSource(dir, logger.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, purchases, 2, "solo el fusionado debe leerse")
}

// Directorio sin XML → sin compras, sin error: la insuficiencia de datos no tumba nada.
func TestOrderSource_DirectorioVacio(t *testing.T) {
	purchases, rows, err := bricklink.NewOrderSource(t.TempDir(), logger.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, purchases)
	assert.Empty(t, rows)
}
