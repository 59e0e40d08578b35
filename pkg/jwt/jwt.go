package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más el rol del usuario.
// El Subject es el email del usuario; la identidad completa se resuelve contra la base de datos
// en cada petición, de modo que el token nunca es la fuente de verdad del tenant.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Generate emite un token HS256 con sub=email y vencimiento a expMinutes.
func Generate(secret, email, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if email == "" {
		return "", fmt.Errorf("jwt: subject vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, algoritmo y vencimiento, y devuelve el subject (email).
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("claims inválidos")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token sin subject")
	}
	return claims.Subject, nil
}

// Issuer implementa la emisión y resolución de tokens con un secreto y vigencia fijos.
type Issuer struct {
	Secret     string
	Name       string
	ExpMinutes int
}

// Issue emite un token para el email indicado.
func (i Issuer) Issue(email, role string) (string, error) {
	return Generate(i.Secret, email, role, i.Name, i.ExpMinutes)
}

// Resolve devuelve el email del token o "" ante cualquier fallo (firma, formato o vencimiento).
// No distingue la causa: para el llamador todo fallo significa "no autenticado".
func (i Issuer) Resolve(token string) string {
	email, err := Parse(i.Secret, token)
	if err != nil {
		return ""
	}
	return email
}
