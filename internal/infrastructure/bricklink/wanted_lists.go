package bricklink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/jhoicas/minifig-profit/internal/domain/entity"
	"github.com/jhoicas/minifig-profit/pkg/logger"
)

// WantedListSource lee las listas de deseados: un XML BrickLink por lista, con
// el título tomado del nombre del archivo. Las listas se devuelven ordenadas
// por nombre de archivo para que el orden de procesamiento (y con él la
// competencia por el pool de stock) sea determinista.
type WantedListSource struct {
	dir string
	log *logger.Logger
}

// NewWantedListSource construye el lector sobre un directorio de listas.
func NewWantedListSource(dir string, log *logger.Logger) *WantedListSource {
	return &WantedListSource{dir: dir, log: log}
}

// Load parsea todos los .xml del directorio. Un archivo malformado se reporta
// y se omite; no tumba la corrida.
func (s *WantedListSource) Load(_ context.Context) ([]*entity.WantedList, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("leer directorio de listas %q: %w", s.dir, err)
	}

	var lists []*entity.WantedList
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".xml") {
			continue
		}
		title := strings.TrimSuffix(e.Name(), ".xml")
		list, err := parseWantedList(filepath.Join(s.dir, e.Name()), title)
		if err != nil {
			s.log.Warn().Err(err).Str("archivo", e.Name()).Msg("lista de deseados ilegible, se omite")
			continue
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// parseWantedList interpreta un XML de lista de deseados BrickLink.
// Reglas heredadas del formato: COLOR solo aplica a partes; un ITEM tipo P sin
// MINQTY se marca como parte suelta (la lista es un kit plano) con cantidad 1.
func parseWantedList(path, title string) (*entity.WantedList, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("parsear %q: %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parsear %q: documento vacío", path)
	}

	list := &entity.WantedList{Title: title}
	for _, it := range root.SelectElements("ITEM") {
		itemID := childText(it, "ITEMID")
		itemType := entity.ItemType(childText(it, "ITEMTYPE"))
		if itemID == "" || !itemType.Valid() {
			continue
		}

		req := &entity.RequiredItem{ItemID: itemID, ItemType: itemType}
		if itemType == entity.ItemTypePart {
			if c := childText(it, "COLOR"); c != "" {
				if colorID, err := strconv.Atoi(c); err == nil {
					req.ColorID = &colorID
				}
			}
		}

		if minqty := it.SelectElement("MINQTY"); minqty != nil {
			// El formato admite cantidades con decimales; se trunca.
			f, err := strconv.ParseFloat(strings.TrimSpace(minqty.Text()), 64)
			if err != nil {
				continue
			}
			req.Qty = int64(f)
		} else {
			req.Qty = 1
			req.LoosePart = itemType == entity.ItemTypePart
		}
		list.Items = append(list.Items, req)
	}
	return list, nil
}

// childText devuelve el texto recortado de un hijo directo, o "" si no existe.
func childText(e *etree.Element, tag string) string {
	if c := e.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}
