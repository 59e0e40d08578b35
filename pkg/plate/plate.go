// Package plate normaliza placas de vehículos a su forma canónica.
package plate

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize devuelve la placa en mayúsculas, sin acentos, espacios ni guiones.
// Ej: "abc-1234" → "ABC1234", " bRa 2e19 " → "BRA2E19".
func Normalize(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	clean, _, err := transform.String(t, raw)
	if err != nil {
		clean = raw
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// Valid informa si la placa normalizada tiene una longitud razonable (padrón antiguo o Mercosul).
func Valid(normalized string) bool {
	n := len(normalized)
	return n >= 5 && n <= 8
}
