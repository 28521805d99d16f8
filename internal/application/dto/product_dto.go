package dto

import (
	"github.com/shopspring/decimal"
)

// La API y su cliente intercambian price como número JSON. El ajuste es global del paquete
// decimal y afecta a todo el proceso que importe dto.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// CreateProductRequest entrada para crear un producto. Los punteros distinguen "ausente" de
// "valor cero": los cuatro campos son obligatorios, categories puede ser [] pero no null.
type CreateProductRequest struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Categories  []string         `json:"categories"`
}

// UpdateProductRequest entrada parcial; solo se sobrescriben los campos presentes.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description *string          `json:"description,omitempty"`
	Categories  []string         `json:"categories"` // null o ausente = sin cambio
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Categories  []string        `json:"categories"`
}
