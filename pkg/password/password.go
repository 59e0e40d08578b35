// Package password encapsula el hash de contraseñas con bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinLength longitud mínima aceptada para contraseñas nuevas.
const MinLength = 8

// Hash genera el hash bcrypt de la contraseña. Nunca devuelve el texto plano.
func Hash(plain string) (string, error) {
	if len(plain) < MinLength {
		return "", fmt.Errorf("password debe tener al menos %d caracteres", MinLength)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify compara la contraseña con el hash. Un hash vacío o corrupto es simplemente "no coincide".
func Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	return err == nil
}
