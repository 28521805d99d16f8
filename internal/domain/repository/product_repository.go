package repository

import (
	"context"

	"github.com/jhoicas/catalog-api/internal/domain/entity"
)

// CatalogRepository define el puerto de persistencia del catálogo (DIP).
// Las lecturas devuelven copias; GetByID y Update devuelven nil, nil si el ID no existe.
type CatalogRepository interface {
	List(ctx context.Context) ([]*entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	// Update aplica fn sobre el producto almacenado y persiste. Si fn devuelve error no se guarda nada.
	Update(ctx context.Context, id string, fn func(*entity.Product) error) (*entity.Product, error)
	// Delete devuelve false si el ID no existe.
	Delete(ctx context.Context, id string) (bool, error)
	// Reload vuelve a leer el almacenamiento durable (cambios hechos por otro proceso).
	Reload(ctx context.Context) error
}
