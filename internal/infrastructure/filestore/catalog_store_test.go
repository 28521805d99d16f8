package filestore_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-api/internal/domain"
	"github.com/jhoicas/catalog-api/internal/domain/entity"
	"github.com/jhoicas/catalog-api/internal/infrastructure/filestore"
	"github.com/jhoicas/catalog-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func tempCatalog(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "products.json")
}

func product(id, name string, price int64, categories ...string) *entity.Product {
	if categories == nil {
		categories = []string{}
	}
	return &entity.Product{
		ID:          id,
		Name:        name,
		Price:       decimal.NewFromInt(price),
		Description: "desc " + name,
		Categories:  categories,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga
// ──────────────────────────────────────────────────────────────────────────────

func TestOpen_ArchivoInexistenteIniciaVacio(t *testing.T) {
	s := filestore.Open(tempCatalog(t), logger.Nop())

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpen_ArchivoMalFormadoIniciaVacio(t *testing.T) {
	path := tempCatalog(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"products": [`), 0o644))

	s := filestore.Open(path, logger.Nop())

	list, err := s.List(context.Background())
	require.NoError(t, err, "un archivo corrupto nunca se reporta como error al leer")
	assert.Empty(t, list)
}

func TestOpen_IDsNumericosAntiguos(t *testing.T) {
	path := tempCatalog(t)
	legacy := `{"products":[{"id":1712345678901,"name":"Laptop","price":1200.5,"description":"x","categories":["Ноутбуки"]}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s := filestore.Open(path, logger.Nop())

	p, err := s.GetByID(context.Background(), "1712345678901")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Laptop", p.Name)
	assert.True(t, decimal.RequireFromString("1200.5").Equal(p.Price))
	assert.Equal(t, []string{"Ноутбуки"}, p.Categories)
}

// ──────────────────────────────────────────────────────────────────────────────
// Persistencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRoundTrip_ConservaOrdenYCampos(t *testing.T) {
	ctx := context.Background()
	path := tempCatalog(t)
	s := filestore.Open(path, logger.Nop())

	want := []*entity.Product{
		product("c", "Phone", 500, "Смартфоны"),
		product("a", "Laptop", 1500, "Ноутбуки", "Аксессуары"),
		product("b", "Cable", 0),
	}
	for _, p := range want {
		require.NoError(t, s.Create(ctx, p))
	}

	reloaded := filestore.Open(path, logger.Nop())
	got, err := reloaded.List(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Fatalf("el catálogo recargado difiere (-want +got):\n%s", diff)
	}
}

// El archivo guarda price como número aunque el ajuste global de decimal esté desactivado.
func TestEncode_PrecioNumericoSinAjusteGlobal(t *testing.T) {
	prev := decimal.MarshalJSONWithoutQuotes
	decimal.MarshalJSONWithoutQuotes = false
	t.Cleanup(func() { decimal.MarshalJSONWithoutQuotes = prev })

	path := tempCatalog(t)
	s := filestore.Open(path, logger.Nop())
	p := product("a", "Laptop", 0)
	p.Price = decimal.RequireFromString("1200.5")
	require.NoError(t, s.Create(context.Background(), p))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price": 1200.5`)
	assert.NotContains(t, string(raw), `"price": "`)

	got, err := filestore.Open(path, logger.Nop()).GetByID(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(got.Price))
}

func TestCreate_IDDuplicado(t *testing.T) {
	ctx := context.Background()
	s := filestore.Open(tempCatalog(t), logger.Nop())
	require.NoError(t, s.Create(ctx, product("1", "A", 1)))

	err := s.Create(ctx, product("1", "B", 2))
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	list, _ := s.List(ctx)
	assert.Len(t, list, 1)
}

func TestCreate_ConcurrenteNoPierdeEscrituras(t *testing.T) {
	ctx := context.Background()
	path := tempCatalog(t)
	s := filestore.Open(path, logger.Nop())

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Create(ctx, product(fmt.Sprintf("id-%d", i), "P", int64(i))))
		}(i)
	}
	wg.Wait()

	list, err := filestore.Open(path, logger.Nop()).List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, n, "todas las altas concurrentes deben quedar en el archivo")
}

func TestUpdate_InexistenteNoTocaArchivo(t *testing.T) {
	ctx := context.Background()
	path := tempCatalog(t)
	s := filestore.Open(path, logger.Nop())
	require.NoError(t, s.Create(ctx, product("1", "A", 1)))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	got, err := s.Update(ctx, "nope", func(p *entity.Product) error {
		p.Name = "X"
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, got)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdate_ErrorDeFnNoPersiste(t *testing.T) {
	ctx := context.Background()
	s := filestore.Open(tempCatalog(t), logger.Nop())
	require.NoError(t, s.Create(ctx, product("1", "A", 1)))

	boom := errors.New("boom")
	_, err := s.Update(ctx, "1", func(p *entity.Product) error {
		p.Name = "cambiado"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := s.GetByID(ctx, "1")
	assert.Equal(t, "A", p.Name)
}

func TestUpdate_NoPermiteCambiarID(t *testing.T) {
	ctx := context.Background()
	s := filestore.Open(tempCatalog(t), logger.Nop())
	require.NoError(t, s.Create(ctx, product("1", "A", 1)))

	got, err := s.Update(ctx, "1", func(p *entity.Product) error {
		p.ID = "2"
		p.Name = "B"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, "B", got.Name)
}

func TestDelete_DosVeces(t *testing.T) {
	ctx := context.Background()
	path := tempCatalog(t)
	s := filestore.Open(path, logger.Nop())
	require.NoError(t, s.Create(ctx, product("1", "A", 1)))

	ok, err := s.Delete(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)

	list, _ := filestore.Open(path, logger.Nop()).List(ctx)
	assert.Empty(t, list)
}

func TestCommit_FalloDeEscrituraRevierte(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "no-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// El directorio padre es un archivo: MkdirAll/CreateTemp fallan siempre.
	s := filestore.Open(filepath.Join(blocker, "products.json"), logger.Nop())

	err := s.Create(ctx, product("1", "A", 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorage))

	list, _ := s.List(ctx)
	assert.Empty(t, list, "un fallo al persistir no debe dejar el alta en memoria")
}

func TestList_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	s := filestore.Open(tempCatalog(t), logger.Nop())
	require.NoError(t, s.Create(ctx, product("1", "A", 1, "x")))

	list, _ := s.List(ctx)
	list[0].Name = "mutado"
	list[0].Categories[0] = "mutado"

	p, _ := s.GetByID(ctx, "1")
	assert.Equal(t, "A", p.Name)
	assert.Equal(t, []string{"x"}, p.Categories)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recarga y watcher
// ──────────────────────────────────────────────────────────────────────────────

func TestReload_ArchivoCorruptoConservaEstado(t *testing.T) {
	ctx := context.Background()
	path := tempCatalog(t)
	s := filestore.Open(path, logger.Nop())
	require.NoError(t, s.Create(ctx, product("1", "A", 1)))

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	err := s.Reload(ctx)
	assert.True(t, errors.Is(err, domain.ErrStorage))

	list, _ := s.List(ctx)
	assert.Len(t, list, 1)
}

func TestWatcher_RecargaCambiosExternos(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := tempCatalog(t)
	s := filestore.Open(path, logger.Nop())
	w, err := filestore.NewWatcher(s, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	external := `{"products":[{"id":"ext","name":"Externo","price":10,"description":"d","categories":[]}]}`
	require.NoError(t, os.WriteFile(path, []byte(external), 0o644))

	require.Eventually(t, func() bool {
		p, _ := s.GetByID(ctx, "ext")
		return p != nil && p.Name == "Externo"
	}, 3*time.Second, 20*time.Millisecond, "el watcher debe recargar el archivo modificado")
}
