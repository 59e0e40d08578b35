package vehicle

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Valores por defecto del número de registro: prefijo + dígitos aleatorios.
const (
	DefaultPrefix      = "RNV"
	DefaultDigits      = 12
	DefaultMaxAttempts = 5
)

// RandomNumberGenerator genera PREFIJO + N dígitos con crypto/rand.
type RandomNumberGenerator struct {
	Prefix string
	Digits int
}

// NewRandomNumberGenerator aplica los valores por defecto a los campos vacíos.
func NewRandomNumberGenerator(prefix string, digits int) RandomNumberGenerator {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultPrefix
	}
	if digits <= 0 {
		digits = DefaultDigits
	}
	return RandomNumberGenerator{Prefix: prefix, Digits: digits}
}

// Next devuelve un candidato nuevo. Los ceros a la izquierda se conservan.
func (g RandomNumberGenerator) Next() (string, error) {
	upper := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(g.Digits)), nil)
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("generar número de registro: %w", err)
	}
	digits := n.String()
	if pad := g.Digits - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return g.Prefix + digits, nil
}
