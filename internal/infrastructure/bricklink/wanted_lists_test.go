package bricklink_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/minifig-profit/internal/domain/entity"
	"github.com/jhoicas/minifig-profit/internal/infrastructure/bricklink"
	"github.com/jhoicas/minifig-profit/pkg/logger"
)

func escribir(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestWantedListSource_ParseaListaCompleta(t *testing.T) {
	dir := t.TempDir()
	escribir(t, dir, "batman.xml", `<?xml version="1.0"?>
<INVENTORY>
  <ITEM><ITEMTYPE>M</ITEMTYPE><ITEMID>sh016</ITEMID><MINQTY>1</MINQTY></ITEM>
  <ITEM><ITEMTYPE>P</ITEMTYPE><ITEMID>37720c</ITEMID><COLOR>11</COLOR><MINQTY>2</MINQTY></ITEM>
</INVENTORY>`)

	src := bricklink.NewWantedListSource(dir, logger.NewNop())
	lists, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 1)

	list := lists[0]
	assert.Equal(t, "batman", list.Title, "el título sale del nombre del archivo")
	require.Len(t, list.Items, 2)

	fig := list.Items[0]
	assert.Equal(t, entity.ItemTypeMinifig, fig.ItemType)
	assert.Equal(t, int64(1), fig.Qty)
	assert.False(t, fig.LoosePart)
	assert.Nil(t, fig.ColorID, "el color no aplica a minifigs")

	parte := list.Items[1]
	assert.Equal(t, entity.ItemTypePart, parte.ItemType)
	require.NotNil(t, parte.ColorID)
	assert.Equal(t, 11, *parte.ColorID)
	assert.Equal(t, int64(2), parte.Qty)
	assert.False(t, parte.LoosePart, "con MINQTY es accesorio nombrado, no parte suelta")
}

// Un ITEM tipo P sin MINQTY marca la lista como kit plano: cantidad 1 y LoosePart.
func TestWantedListSource_ParteSinMinqtyEsSuelta(t *testing.T) {
	dir := t.TempDir()
	escribir(t, dir, "kit.xml", `<INVENTORY>
  <ITEM><ITEMTYPE>P</ITEMTYPE><ITEMID>973p01</ITEMID><COLOR>5</COLOR></ITEM>
</INVENTORY>`)

	lists, err := bricklink.NewWantedListSource(dir, logger.NewNop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.Len(t, lists[0].Items, 1)

	it := lists[0].Items[0]
	assert.True(t, it.LoosePart)
	assert.Equal(t, int64(1), it.Qty)
}

// Las listas se devuelven ordenadas por nombre de archivo: el orden de
// procesamiento decide quién compite primero por el stock.
func TestWantedListSource_OrdenDeterministaPorNombre(t *testing.T) {
	dir := t.TempDir()
	item := `<INVENTORY><ITEM><ITEMTYPE>M</ITEMTYPE><ITEMID>m1</ITEMID><MINQTY>1</MINQTY></ITEM></INVENTORY>`
	escribir(t, dir, "zeta.xml", item)
	escribir(t, dir, "alfa.xml", item)
	escribir(t, dir, "media.xml", item)

	lists, err := bricklink.NewWantedListSource(dir, logger.NewNop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 3)
	assert.Equal(t, "alfa", lists[0].Title)
	assert.Equal(t, "media", lists[1].Title)
	assert.Equal(t, "zeta", lists[2].Title)
}

// Un XML malformado se omite con aviso; el resto de listas se procesa.
func TestWantedListSource_OmiteArchivoIlegible(t *testing.T) {
	dir := t.TempDir()
	escribir(t, dir, "roto.xml", `<INVENTORY><ITEM>`)
	escribir(t, dir, "sana.xml", `<INVENTORY><ITEM><ITEMTYPE>M</ITEMTYPE><ITEMID>m1</ITEMID><MINQTY>1</MINQTY></ITEM></INVENTORY>`)

	lists, err := bricklink.NewWantedListSource(dir, logger.NewNop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "sana", lists[0].Title)
}
