// Package pdf genera la lista de precios del catálogo en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + filtro         │  Fecha + N° de productos  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Categorías | Descripción | Precio         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/catalog-api/internal/application/dto"
	"github.com/jhoicas/catalog-api/internal/application/usecase"
)

var _ usecase.PriceListGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator implementa usecase.PriceListGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{now: time.Now}
}

// GeneratePriceList genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GeneratePriceList(_ context.Context, title, category string, items []dto.ProductResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, category, len(items), g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	if len(items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin productos", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}
	m.AddRows(tableRows(items)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title, category string, count int, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Categoría: "+nonEmpty(category, "todas"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d productos", count), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 8,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 3, align.Left),
		h("Categorías", 3, align.Left),
		h("Descripción", 4, align.Left),
		h("Precio", 2, align.Right),
	)
}

// tableRows: una fila por producto.
func tableRows(items []dto.ProductResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, p := range items {
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(
				nonEmpty(strings.Join(p.Categories, ", "), "—"),
				props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray},
			)),
			col.New(4).Add(text.New(
				nonEmpty(p.Description, "—"),
				props.Text{Size: 8, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(p.Price.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Precios sujetos a cambio sin previo aviso.", props.Text{
			Size: 6.5, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta separadores de miles en la parte entera de un número con decimales fijos.
// Ej: "25000.00" → "25 000.00", "-1500.50" → "-1 500.50"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + frac
}
