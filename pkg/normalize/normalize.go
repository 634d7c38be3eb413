// Package normalize ofrece normalización de texto para búsquedas:
// minúsculas y sin tildes/diacríticos, para que "José Pérez" haga match
// con "jose perez" al buscar clientes o productos.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)), // elimina marcas combinantes (tildes, diéresis)
	norm.NFC,
)

// Fold devuelve el texto en minúsculas y sin diacríticos.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// Si la transformación falla (entrada no UTF-8 válida) se degrada a lower-case
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// Matches indica si needle aparece en haystack ignorando mayúsculas y tildes.
func Matches(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}
