package entity

import (
	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// ID se asigna al crear y no cambia; Categories conserva el orden en que se registraron.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Categories  []string        `json:"categories"`
}

// Clone devuelve una copia profunda, para que el almacén no comparta slices con quien llama.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.Categories = append(make([]string, 0, len(p.Categories)), p.Categories...)
	return &c
}

// HasCategory indica si el producto está etiquetado con la categoría (comparación normalizada).
func (p *Product) HasCategory(label string) bool {
	want := NormalizeCategory(label)
	for _, c := range p.Categories {
		if NormalizeCategory(c) == want {
			return true
		}
	}
	return false
}
