// Package state es el almacén de estado del cliente: tres porciones (productos, filtro y tema)
// que se reducen de forma independiente con cada acción despachada.
package state

import (
	"sort"
	"sync"

	"github.com/jhoicas/catalog-api/internal/application/dto"
	"github.com/jhoicas/catalog-api/internal/domain/entity"
)

// Status de la carga del catálogo.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ThemeMode tema visual de la interfaz.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// AllCategories es el valor del filtro que muestra todo el catálogo.
const AllCategories = ""

// ProductsState porción de productos. Items nunca se modifica en sitio.
type ProductsState struct {
	Status Status
	Items  []dto.ProductResponse
	Error  string
}

// FilterState porción del filtro por categoría.
type FilterState struct {
	Category string
}

// ThemeState porción del tema.
type ThemeState struct {
	Mode ThemeMode
}

// State estado completo del cliente.
type State struct {
	Products ProductsState
	Filter   FilterState
	Theme    ThemeState
}

// Store guarda el estado y notifica a los suscriptores tras cada Dispatch.
type Store struct {
	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// NewStore crea el almacén con catálogo vacío, sin filtro y el tema indicado.
func NewStore(theme ThemeMode) *Store {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return &Store{
		state: State{
			Products: ProductsState{Status: StatusIdle, Items: []dto.ProductResponse{}},
			Filter:   FilterState{Category: AllCategories},
			Theme:    ThemeState{Mode: theme},
		},
		subs: make(map[int]func(State)),
	}
}

// State devuelve una instantánea del estado.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch aplica la acción a cada porción y notifica a los suscriptores.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	next := State{
		Products: reduceProducts(s.state.Products, a),
		Filter:   reduceFilter(s.state.Filter, a),
		Theme:    reduceTheme(s.state.Theme, a),
	}
	s.state = next
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// Subscribe registra fn y devuelve la función para darla de baja.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Visible devuelve los productos que pasan el filtro actual.
func (s *Store) Visible() []dto.ProductResponse {
	st := s.State()
	return Visible(st)
}

// Visible filtra los productos de st por la categoría seleccionada.
func Visible(st State) []dto.ProductResponse {
	if st.Filter.Category == AllCategories {
		return st.Products.Items
	}
	want := entity.NormalizeCategory(st.Filter.Category)
	out := make([]dto.ProductResponse, 0, len(st.Products.Items))
	for _, p := range st.Products.Items {
		for _, c := range p.Categories {
			if entity.NormalizeCategory(c) == want {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Categories devuelve las categorías distintas presentes en el catálogo, ordenadas.
func Categories(st State) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range st.Products.Items {
		for _, c := range p.Categories {
			c = entity.NormalizeCategory(c)
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
