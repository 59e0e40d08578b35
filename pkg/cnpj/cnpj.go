// Package cnpj valida el CNPJ (identificación fiscal de empresas en Brasil).
package cnpj

import (
	"fmt"
	"unicode"
)

// Length cantidad de dígitos de un CNPJ completo (12 base + 2 verificadores).
const Length = 14

// pesos módulo 11 de cada dígito verificador, de izquierda a derecha.
var (
	firstWeights  = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondWeights = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Normalize deja solo los dígitos: "11.222.333/0001-81" → "11222333000181".
func Normalize(taxID string) string {
	out := make([]byte, 0, Length)
	for _, r := range taxID {
		if unicode.IsDigit(r) && r < 128 {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// Validate comprueba longitud y ambos dígitos verificadores. Acepta el CNPJ con o sin máscara.
func Validate(taxID string) error {
	digits := Normalize(taxID)
	if len(digits) != Length {
		return fmt.Errorf("cnpj: debe tener %d dígitos, se encontraron %d", Length, len(digits))
	}
	if allSame(digits) {
		return fmt.Errorf("cnpj: secuencia repetida inválida")
	}
	d1 := checkDigit(digits[:12], firstWeights[:])
	d2 := checkDigit(digits[:13], secondWeights[:])
	if digits[12] != d1 || digits[13] != d2 {
		return fmt.Errorf("cnpj: dígitos verificadores inválidos: esperado %c%c, recibido %s", d1, d2, digits[12:])
	}
	return nil
}

// CheckDigits calcula los dos dígitos verificadores para los 12 dígitos base.
func CheckDigits(base string) (string, error) {
	digits := Normalize(base)
	if len(digits) < 12 {
		return "", fmt.Errorf("cnpj: se requieren 12 dígitos base, se encontraron %d", len(digits))
	}
	d1 := checkDigit(digits[:12], firstWeights[:])
	d2 := checkDigit(digits[:12]+string(d1), secondWeights[:])
	return string([]byte{d1, d2}), nil
}

func checkDigit(digits string, weights []int) byte {
	var sum int
	for i := range weights {
		sum += int(digits[i]-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + (11 - r))
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
