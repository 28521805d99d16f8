package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrStorage      = errors.New("error de almacenamiento")
)

// ValidationError indica campos faltantes o inválidos al crear/actualizar un producto.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Fields []string // campos faltantes, en orden name, price, description, categories
	Reason string   // detalle adicional cuando no es un campo faltante
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return strings.Join(e.Fields, ", ") + " son requeridos"
	}
	if e.Reason != "" {
		return e.Reason
	}
	return ErrInvalidInput.Error()
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StorageError envuelve un fallo de lectura/escritura del archivo del catálogo.
type StorageError struct {
	Op   string // "load" o "persist"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Is permite errors.Is(err, ErrStorage).
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func (e *StorageError) Unwrap() error { return e.Err }
