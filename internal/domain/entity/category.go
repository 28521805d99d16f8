package entity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeCategory recorta espacios y lleva la etiqueta a NFC, de modo que
// "Смартфоны" escrito con caracteres compuestos o descompuestos sea la misma categoría.
func NormalizeCategory(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}

// NormalizeCategories normaliza cada etiqueta y descarta las vacías. Conserva el orden.
// Devuelve un slice no nil para que se serialice como [] y no como null.
func NormalizeCategories(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if n := NormalizeCategory(l); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// SplitCategories separa una lista escrita por el usuario ("Ноутбуки, Аксессуары").
func SplitCategories(s string) []string {
	return NormalizeCategories(strings.Split(s, ","))
}
