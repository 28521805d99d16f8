package state

import (
	"context"

	"github.com/jhoicas/catalog-api/internal/application/dto"
)

// CatalogAPI operaciones remotas que usan los thunks.
type CatalogAPI interface {
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id string) error
}

// FetchProducts carga el catálogo completo.
func FetchProducts(ctx context.Context, s *Store, c CatalogAPI) error {
	s.Dispatch(FetchStarted{})
	items, err := c.List(ctx)
	if err != nil {
		s.Dispatch(FetchFailed{Err: err})
		return err
	}
	s.Dispatch(FetchSucceeded{Items: items})
	return nil
}

// AddProduct crea el producto en el servidor y lo añade a la lista local.
func AddProduct(ctx context.Context, s *Store, c CatalogAPI, in dto.CreateProductRequest) error {
	p, err := c.Create(ctx, in)
	if err != nil {
		s.Dispatch(MutationFailed{Err: err})
		return err
	}
	s.Dispatch(ProductAdded{Product: *p})
	return nil
}

// UpdateProduct aplica el cambio en el servidor y reemplaza la copia local.
func UpdateProduct(ctx context.Context, s *Store, c CatalogAPI, id string, in dto.UpdateProductRequest) error {
	p, err := c.Update(ctx, id, in)
	if err != nil {
		s.Dispatch(MutationFailed{Err: err})
		return err
	}
	s.Dispatch(ProductUpdated{Product: *p})
	return nil
}

// DeleteProduct elimina el producto en el servidor y de la lista local.
func DeleteProduct(ctx context.Context, s *Store, c CatalogAPI, id string) error {
	if err := c.Delete(ctx, id); err != nil {
		s.Dispatch(MutationFailed{Err: err})
		return err
	}
	s.Dispatch(ProductRemoved{ID: id})
	return nil
}
