package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/catalog-api/internal/application/dto"
	"github.com/jhoicas/catalog-api/internal/domain"
	"github.com/jhoicas/catalog-api/internal/domain/entity"
	"github.com/jhoicas/catalog-api/internal/domain/repository"
	"github.com/jhoicas/catalog-api/pkg/logger"
)

// Tipos de cambio publicados por ChangePublisher.
const (
	ChangeCreated = "product.created"
	ChangeUpdated = "product.updated"
	ChangeDeleted = "product.deleted"
)

// ChangePublisher recibe un aviso de texto después de cada mutación confirmada.
type ChangePublisher interface {
	Publish(text string)
}

// CatalogUseCase es el único punto de acceso al catálogo: REST y GraphQL pasan por aquí,
// así que validación y errores no pueden divergir entre ambas interfaces.
type CatalogUseCase struct {
	repo      repository.CatalogRepository
	publisher ChangePublisher
	newID     func() string
	log       *logger.Logger
}

// Option configura el caso de uso.
type Option func(*CatalogUseCase)

// WithPublisher anuncia altas, cambios y bajas por el canal en tiempo real.
func WithPublisher(p ChangePublisher) Option {
	return func(uc *CatalogUseCase) { uc.publisher = p }
}

// WithIDGenerator reemplaza el generador de IDs (tests).
func WithIDGenerator(fn func() string) Option {
	return func(uc *CatalogUseCase) { uc.newID = fn }
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.CatalogRepository, log *logger.Logger, opts ...Option) *CatalogUseCase {
	uc := &CatalogUseCase{
		repo:  repo,
		newID: uuid.NewString,
		log:   log.Component("catalog"),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// List devuelve el catálogo completo en orden de alta.
func (uc *CatalogUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// GetByID obtiene un producto. Devuelve domain.ErrNotFound si no existe.
func (uc *CatalogUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// Create valida que name, price, description y categories estén presentes, asigna un ID nuevo
// y persiste. Devuelve *domain.ValidationError con los campos faltantes.
func (uc *CatalogUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	product := &entity.Product{
		ID:          uc.newID(),
		Name:        strings.TrimSpace(*in.Name),
		Price:       *in.Price,
		Description: *in.Description,
		Categories:  entity.NormalizeCategories(in.Categories),
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}
	uc.log.Info().Str("id", product.ID).Str("name", product.Name).Msg("producto creado")
	uc.publish(ChangeCreated, product.ID)
	return toProductResponse(product), nil
}

// Update sobrescribe solo los campos presentes. Devuelve domain.ErrNotFound si no existe.
func (uc *CatalogUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Price != nil && in.Price.IsNegative() {
		return nil, &domain.ValidationError{Reason: "price no puede ser negativo"}
	}
	updated, err := uc.repo.Update(ctx, id, func(p *entity.Product) error {
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Categories != nil {
			p.Categories = entity.NormalizeCategories(in.Categories)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	uc.log.Info().Str("id", id).Msg("producto actualizado")
	uc.publish(ChangeUpdated, id)
	return toProductResponse(updated), nil
}

// Delete elimina un producto. Devuelve domain.ErrNotFound si no existe.
func (uc *CatalogUseCase) Delete(ctx context.Context, id string) error {
	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("eliminar producto: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	uc.log.Info().Str("id", id).Msg("producto eliminado")
	uc.publish(ChangeDeleted, id)
	return nil
}

// Count devuelve el número de productos (health).
func (uc *CatalogUseCase) Count(ctx context.Context) int {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return 0
	}
	return len(list)
}

func (uc *CatalogUseCase) publish(kind, id string) {
	if uc.publisher == nil {
		return
	}
	uc.publisher.Publish(kind + " " + id)
}

func validateCreate(in dto.CreateProductRequest) error {
	var missing []string
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		missing = append(missing, "name")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	if in.Description == nil {
		missing = append(missing, "description")
	}
	if in.Categories == nil {
		missing = append(missing, "categories")
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}
	if in.Price.IsNegative() {
		return &domain.ValidationError{Reason: "price no puede ser negativo"}
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Categories:  append(make([]string, 0, len(p.Categories)), p.Categories...),
	}
}
