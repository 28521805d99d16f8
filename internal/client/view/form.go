package view

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalog-api/internal/application/dto"
	"github.com/jhoicas/catalog-api/internal/domain/entity"
)

const (
	fieldName = iota
	fieldPrice
	fieldDescription
	fieldCategories
	fieldCount
)

var (
	errMissingFields = errors.New("completa todos los campos")
	errPriceNotNum   = errors.New("el precio debe ser un número")
	errPriceNegative = errors.New("el precio no puede ser negativo")
)

// form es el único estado local de la vista: los buffers de alta o edición.
type form struct {
	inputs []textinput.Model
	focus  int
	editID string // vacío en alta
	orig   [fieldCount]string
	err    string
}

func newForm() *form {
	placeholders := [fieldCount]string{
		fieldName:        "Nombre",
		fieldPrice:       "Precio",
		fieldDescription: "Descripción",
		fieldCategories:  "Categorías (separadas por coma)",
	}
	f := &form{inputs: make([]textinput.Model, fieldCount)}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Prompt = "› "
		in.CharLimit = 256
		in.Width = 48
		f.inputs[i] = in
	}
	return f
}

// newEditForm precarga los buffers con el producto seleccionado.
func newEditForm(p dto.ProductResponse) *form {
	f := newForm()
	f.editID = p.ID
	f.orig = [fieldCount]string{
		fieldName:        p.Name,
		fieldPrice:       p.Price.String(),
		fieldDescription: p.Description,
		fieldCategories:  strings.Join(p.Categories, ", "),
	}
	for i, v := range f.orig {
		f.inputs[i].SetValue(v)
	}
	return f
}

func (f *form) editing() bool { return f.editID != "" }

func (f *form) focusCmd() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *form) move(delta int) tea.Cmd {
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.focusCmd()
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// createRequest valida el alta: todos los campos son obligatorios y el precio numérico.
func (f *form) createRequest() (dto.CreateProductRequest, error) {
	name, priceText := f.value(fieldName), f.value(fieldPrice)
	desc, cats := f.value(fieldDescription), f.value(fieldCategories)
	if name == "" || priceText == "" || desc == "" || cats == "" {
		return dto.CreateProductRequest{}, errMissingFields
	}
	price, err := parsePrice(priceText)
	if err != nil {
		return dto.CreateProductRequest{}, err
	}
	return dto.CreateProductRequest{
		Name:        &name,
		Price:       &price,
		Description: &desc,
		Categories:  entity.SplitCategories(cats),
	}, nil
}

// updateRequest envía solo los campos modificados.
func (f *form) updateRequest() (dto.UpdateProductRequest, error) {
	var req dto.UpdateProductRequest
	if v := f.value(fieldName); v != f.orig[fieldName] {
		if v == "" {
			return req, errMissingFields
		}
		req.Name = &v
	}
	if v := f.value(fieldPrice); v != f.orig[fieldPrice] {
		price, err := parsePrice(v)
		if err != nil {
			return req, err
		}
		req.Price = &price
	}
	if v := f.value(fieldDescription); v != f.orig[fieldDescription] {
		req.Description = &v
	}
	if v := f.value(fieldCategories); v != f.orig[fieldCategories] {
		req.Categories = entity.SplitCategories(v)
	}
	return req, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, errMissingFields
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errPriceNotNum
	}
	if price.IsNegative() {
		return decimal.Zero, errPriceNegative
	}
	return price, nil
}

func (f *form) view(s Styles) string {
	var b strings.Builder
	title := "Nuevo producto"
	if f.editing() {
		title = "Editar producto"
	}
	b.WriteString(s.Label.Render(title))
	b.WriteString("\n")
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString(s.Error.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString(s.Muted.Render("tab siguiente · enter guardar · esc cancelar"))
	return s.Form.Render(b.String())
}
