package usecase

import (
	"context"

	"github.com/jhoicas/catalog-api/internal/application/dto"
	"github.com/jhoicas/catalog-api/internal/domain/entity"
)

// PriceListGenerator puerto para renderizar la lista de precios (PDF).
type PriceListGenerator interface {
	GeneratePriceList(ctx context.Context, title, category string, items []dto.ProductResponse) ([]byte, error)
}

// ExportUseCase exporta el catálogo, opcionalmente filtrado por categoría.
type ExportUseCase struct {
	catalog   *CatalogUseCase
	generator PriceListGenerator
	title     string
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(catalog *CatalogUseCase, generator PriceListGenerator, title string) *ExportUseCase {
	return &ExportUseCase{catalog: catalog, generator: generator, title: title}
}

// PriceList genera el documento. category vacía significa "todas".
func (uc *ExportUseCase) PriceList(ctx context.Context, category string) ([]byte, error) {
	items, err := uc.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	category = entity.NormalizeCategory(category)
	if category != "" {
		items = FilterByCategory(items, category)
	}
	return uc.generator.GeneratePriceList(ctx, uc.title, category, items)
}

// FilterByCategory conserva los productos etiquetados con category, en el mismo orden.
func FilterByCategory(items []dto.ProductResponse, category string) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(items))
	for _, it := range items {
		p := entity.Product{Categories: it.Categories}
		if p.HasCategory(category) {
			out = append(out, it)
		}
	}
	return out
}
