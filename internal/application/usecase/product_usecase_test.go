package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-api/internal/application/dto"
	"github.com/jhoicas/catalog-api/internal/application/usecase"
	"github.com/jhoicas/catalog-api/internal/domain"
	"github.com/jhoicas/catalog-api/internal/infrastructure/filestore"
	"github.com/jhoicas/catalog-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu    sync.Mutex
	texts []string
}

func (p *recordingPublisher) Publish(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts = append(p.texts, text)
}

func newUseCase(t *testing.T, opts ...usecase.Option) *usecase.CatalogUseCase {
	t.Helper()
	store := filestore.Open(filepath.Join(t.TempDir(), "products.json"), logger.Nop())
	return usecase.NewCatalogUseCase(store, logger.Nop(), opts...)
}

func phoneRequest() dto.CreateProductRequest {
	price := decimal.NewFromInt(500)
	return dto.CreateProductRequest{
		Name:        dto.StringPtr("Phone"),
		Price:       &price,
		Description: dto.StringPtr("x"),
		Categories:  []string{"Смартфоны"},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AsignaIDsUnicos(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		out, err := uc.Create(ctx, phoneRequest())
		require.NoError(t, err)
		require.NotEmpty(t, out.ID)
		assert.False(t, seen[out.ID], "ID repetido: %s", out.ID)
		seen[out.ID] = true
	}
}

func TestCreate_CamposFaltantes(t *testing.T) {
	ctx := context.Background()

	cases := map[string]struct {
		mutate func(*dto.CreateProductRequest)
		fields []string
	}{
		"sin name":        {func(r *dto.CreateProductRequest) { r.Name = nil }, []string{"name"}},
		"name vacío":      {func(r *dto.CreateProductRequest) { r.Name = dto.StringPtr("  ") }, []string{"name"}},
		"sin price":       {func(r *dto.CreateProductRequest) { r.Price = nil }, []string{"price"}},
		"sin description": {func(r *dto.CreateProductRequest) { r.Description = nil }, []string{"description"}},
		"sin categories":  {func(r *dto.CreateProductRequest) { r.Categories = nil }, []string{"categories"}},
		"todo vacío": {
			func(r *dto.CreateProductRequest) { *r = dto.CreateProductRequest{} },
			[]string{"name", "price", "description", "categories"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			uc := newUseCase(t)
			in := phoneRequest()
			tc.mutate(&in)

			_, err := uc.Create(ctx, in)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "debe ser ValidationError, fue %v", err)
			assert.Equal(t, tc.fields, verr.Fields)

			list, err := uc.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list, "una validación fallida no debe persistir nada")
		})
	}
}

func TestCreate_CategoriasVaciasSonValidas(t *testing.T) {
	uc := newUseCase(t)
	in := phoneRequest()
	in.Categories = []string{}

	out, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.NotNil(t, out.Categories)
	assert.Empty(t, out.Categories)
}

func TestCreate_PrecioNegativo(t *testing.T) {
	uc := newUseCase(t)
	in := phoneRequest()
	neg := decimal.NewFromInt(-1)
	in.Price = &neg

	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Get / Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_DespuesDeCreate(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	created, err := uc.Create(ctx, phoneRequest())
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.True(t, created.Price.Equal(got.Price))
	assert.Equal(t, created.Description, got.Description)
	assert.Equal(t, created.Categories, got.Categories)

	_, err = uc.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_Parcial(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	created, err := uc.Create(ctx, phoneRequest())
	require.NoError(t, err)

	price := decimal.NewFromInt(450)
	out, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)

	assert.True(t, price.Equal(out.Price))
	assert.Equal(t, "Phone", out.Name, "los campos ausentes no cambian")
	assert.Equal(t, []string{"Смартфоны"}, out.Categories)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, price.Equal(got.Price), "el cambio debe verse en lecturas posteriores")
}

func TestUpdate_RecortaNombreComoCreate(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	req := phoneRequest()
	req.Name = dto.StringPtr("  Phone  ")
	created, err := uc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Phone", created.Name)

	out, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Name: dto.StringPtr("  Phone 2 ")})
	require.NoError(t, err)
	assert.Equal(t, "Phone 2", out.Name)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Phone 2", got.Name)
}

func TestUpdate_NoExiste(t *testing.T) {
	uc := newUseCase(t)
	_, err := uc.Update(context.Background(), "nope", dto.UpdateProductRequest{Name: dto.StringPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_DosVeces(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	created, err := uc.Create(ctx, phoneRequest())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))
	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Publicación de cambios
// ──────────────────────────────────────────────────────────────────────────────

func TestPublisher_RecibeCadaMutacion(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	uc := newUseCase(t, usecase.WithPublisher(pub), usecase.WithIDGenerator(func() string { return "fijo" }))

	_, err := uc.Create(ctx, phoneRequest())
	require.NoError(t, err)
	_, err = uc.Update(ctx, "fijo", dto.UpdateProductRequest{Name: dto.StringPtr("Phone 2")})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, "fijo"))
	_ = uc.Delete(ctx, "fijo") // no existe: no publica

	assert.Equal(t, []string{
		"product.created fijo",
		"product.updated fijo",
		"product.deleted fijo",
	}, pub.texts)
}
