package state

import "github.com/jhoicas/catalog-api/internal/application/dto"

// Action es cualquier evento que el almacén sabe reducir.
type Action interface {
	action()
}

type (
	FetchStarted   struct{}
	FetchSucceeded struct{ Items []dto.ProductResponse }
	FetchFailed    struct{ Err error }
	ProductAdded   struct{ Product dto.ProductResponse }
	ProductUpdated struct{ Product dto.ProductResponse }
	ProductRemoved struct{ ID string }
	// MutationFailed deja los productos intactos y expone el error.
	MutationFailed struct{ Err error }
	SetCategory    struct{ Category string }
	ToggleTheme    struct{}
)

func (FetchStarted) action()   {}
func (FetchSucceeded) action() {}
func (FetchFailed) action()    {}
func (ProductAdded) action()   {}
func (ProductUpdated) action() {}
func (ProductRemoved) action() {}
func (MutationFailed) action() {}
func (SetCategory) action()    {}
func (ToggleTheme) action()    {}

func reduceProducts(s ProductsState, a Action) ProductsState {
	switch a := a.(type) {
	case FetchStarted:
		s.Status = StatusLoading
		s.Error = ""
	case FetchSucceeded:
		s.Status = StatusSucceeded
		s.Items = append(make([]dto.ProductResponse, 0, len(a.Items)), a.Items...)
		s.Error = ""
	case FetchFailed:
		s.Status = StatusFailed
		s.Error = errText(a.Err)
	case ProductAdded:
		items := make([]dto.ProductResponse, 0, len(s.Items)+1)
		s.Items = append(append(items, s.Items...), a.Product)
		s.Error = ""
	case ProductUpdated:
		items := make([]dto.ProductResponse, len(s.Items))
		copy(items, s.Items)
		for i := range items {
			if items[i].ID == a.Product.ID {
				items[i] = a.Product
			}
		}
		s.Items = items
		s.Error = ""
	case ProductRemoved:
		items := make([]dto.ProductResponse, 0, len(s.Items))
		for _, p := range s.Items {
			if p.ID != a.ID {
				items = append(items, p)
			}
		}
		s.Items = items
		s.Error = ""
	case MutationFailed:
		s.Error = errText(a.Err)
	}
	return s
}

func reduceFilter(s FilterState, a Action) FilterState {
	if a, ok := a.(SetCategory); ok {
		s.Category = a.Category
	}
	return s
}

func reduceTheme(s ThemeState, a Action) ThemeState {
	if _, ok := a.(ToggleTheme); ok {
		if s.Mode == ThemeDark {
			s.Mode = ThemeLight
		} else {
			s.Mode = ThemeDark
		}
	}
	return s
}

func errText(err error) string {
	if err == nil {
		return "error desconocido"
	}
	return err.Error()
}
