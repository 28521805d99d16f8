// Package filestore implementa el puerto CatalogRepository sobre un único documento JSON:
//
//	{ "products": [ {id, name, price, description, categories}, ... ] }
//
// El catálogo vive en memoria y es propiedad exclusiva de CatalogStore. Cada mutación
// reescribe el documento completo (archivo temporal + rename) antes de publicarse en memoria,
// así que un fallo de escritura deja ambos lados sin cambios.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalog-api/internal/domain"
	"github.com/jhoicas/catalog-api/internal/domain/entity"
	"github.com/jhoicas/catalog-api/internal/domain/repository"
	"github.com/jhoicas/catalog-api/pkg/logger"
)

var _ repository.CatalogRepository = (*CatalogStore)(nil)

// CatalogStore catálogo en memoria respaldado por un archivo plano. Seguro para uso concurrente.
type CatalogStore struct {
	mu          sync.RWMutex
	path        string
	products    []*entity.Product
	lastWritten []byte
	log         *logger.Logger
}

// Open carga el catálogo desde path. Si el archivo no existe, no se puede leer o está mal
// formado, registra un warning y arranca con el catálogo vacío: nunca falla.
func Open(path string, log *logger.Logger) *CatalogStore {
	s := &CatalogStore{
		path:     filepath.Clean(path),
		products: []*entity.Product{},
		log:      log.Component("filestore"),
	}
	products, raw, err := s.read()
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("catálogo no disponible, se inicia vacío")
		return s
	}
	s.products = products
	s.lastWritten = raw
	s.log.Info().Str("path", s.path).Int("products", len(products)).Msg("catálogo cargado")
	return s
}

// Path devuelve la ruta del documento.
func (s *CatalogStore) Path() string { return s.path }

// List devuelve una copia de la secuencia completa, en orden.
func (s *CatalogStore) List(_ context.Context) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p.Clone())
	}
	return out, nil
}

// GetByID busca por ID. Devuelve nil, nil si no existe.
func (s *CatalogStore) GetByID(_ context.Context, id string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.products[i].Clone(), nil
	}
	return nil, nil
}

// Create agrega el producto al final y persiste.
func (s *CatalogStore) Create(_ context.Context, product *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(product.ID) >= 0 {
		return fmt.Errorf("%w: id %s", domain.ErrDuplicate, product.ID)
	}
	next := make([]*entity.Product, 0, len(s.products)+1)
	next = append(next, s.products...)
	next = append(next, product.Clone())
	return s.commit(next)
}

// Update aplica fn sobre una copia del producto y, si no hay error, la persiste en su lugar.
func (s *CatalogStore) Update(_ context.Context, id string, fn func(*entity.Product) error) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	storedID := s.products[i].ID
	updated := s.products[i].Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	// el ID es inmutable; nunca se toma del argumento, que puede apuntar a un buffer ajeno
	updated.ID = storedID

	next := append([]*entity.Product(nil), s.products...)
	next[i] = updated
	if err := s.commit(next); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// Delete elimina por ID y persiste. Devuelve false si no existe.
func (s *CatalogStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	next := make([]*entity.Product, 0, len(s.products)-1)
	next = append(next, s.products[:i]...)
	next = append(next, s.products[i+1:]...)
	if err := s.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

// Reload vuelve a leer el archivo. Si no se puede leer, conserva el estado actual.
func (s *CatalogStore) Reload(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, raw, err := s.read()
	if err != nil {
		return err
	}
	if bytes.Equal(raw, s.lastWritten) {
		return nil
	}
	s.products = products
	s.lastWritten = raw
	s.log.Info().Int("products", len(products)).Msg("catálogo recargado desde disco")
	return nil
}

func (s *CatalogStore) indexOf(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// commit persiste next y solo entonces lo publica en memoria. Requiere s.mu tomado.
func (s *CatalogStore) commit(next []*entity.Product) error {
	raw, err := encode(next)
	if err != nil {
		return &domain.StorageError{Op: "persist", Path: s.path, Err: err}
	}
	if err := writeAtomic(s.path, raw); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("no se pudo guardar el catálogo")
		return &domain.StorageError{Op: "persist", Path: s.path, Err: err}
	}
	s.products = next
	s.lastWritten = raw
	return nil
}

func (s *CatalogStore) read() ([]*entity.Product, []byte, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, &domain.StorageError{Op: "load", Path: s.path, Err: err}
	}
	products, err := decode(raw)
	if err != nil {
		return nil, nil, &domain.StorageError{Op: "load", Path: s.path, Err: err}
	}
	return products, raw, nil
}

// ── formato del documento ────────────────────────────────────────────────────

type document struct {
	Products []record `json:"products"`
}

type record struct {
	ID          recordID    `json:"id"`
	Name        string      `json:"name"`
	Price       recordPrice `json:"price"`
	Description string      `json:"description"`
	Categories  []string    `json:"categories"`
}

// recordPrice se escribe siempre como número JSON, sin depender de decimal.MarshalJSONWithoutQuotes.
type recordPrice decimal.Decimal

func (p recordPrice) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(p).String()), nil
}

func (p *recordPrice) UnmarshalJSON(b []byte) error {
	return (*decimal.Decimal)(p).UnmarshalJSON(b)
}

// recordID acepta IDs numéricos (archivos antiguos con IDs derivados de la hora) y los
// conserva como su representación decimal.
type recordID string

func (id *recordID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id inválido %s: %w", string(b), err)
	}
	*id = recordID(n.String())
	return nil
}

func decode(raw []byte) ([]*entity.Product, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	products := make([]*entity.Product, 0, len(doc.Products))
	seen := make(map[string]struct{}, len(doc.Products))
	for _, r := range doc.Products {
		id := string(r.ID)
		if id == "" {
			return nil, errors.New("producto sin id")
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: id %s", domain.ErrDuplicate, id)
		}
		seen[id] = struct{}{}
		categories := r.Categories
		if categories == nil {
			categories = []string{}
		}
		products = append(products, &entity.Product{
			ID:          id,
			Name:        r.Name,
			Price:       decimal.Decimal(r.Price),
			Description: r.Description,
			Categories:  categories,
		})
	}
	return products, nil
}

func encode(products []*entity.Product) ([]byte, error) {
	doc := document{Products: make([]record, 0, len(products))}
	for _, p := range products {
		categories := p.Categories
		if categories == nil {
			categories = []string{}
		}
		doc.Products = append(doc.Products, record{
			ID:          recordID(p.ID),
			Name:        p.Name,
			Price:       recordPrice(p.Price),
			Description: p.Description,
			Categories:  categories,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// writeAtomic escribe en un temporal del mismo directorio y lo renombra sobre path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("crear directorio: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("escribir temporal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temporal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("renombrar: %w", err)
	}
	return nil
}
