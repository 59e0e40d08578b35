package renave

import (
	"crypto/rsa"
	"crypto/tls"
	"fmt"

	"golang.org/x/crypto/pkcs12"

	apprenave "github.com/jhoicas/autogest-api/internal/application/renave"
)

var _ apprenave.CredentialLoader = (*CredentialLoader)(nil)

// CredentialLoader abre credenciales PKCS#12 (.p12/.pfx) guardadas en la empresa.
type CredentialLoader struct{}

// NewCredentialLoader crea el loader.
func NewCredentialLoader() *CredentialLoader { return &CredentialLoader{} }

// Load decodifica certificado y llave privada. La llave debe ser RSA.
func (l *CredentialLoader) Load(p12 []byte, password string) (tls.Certificate, error) {
	if len(p12) == 0 {
		return tls.Certificate{}, fmt.Errorf("credencial vacía")
	}
	priv, cert, err := pkcs12.Decode(p12, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decodificar p12: %w", err)
	}
	if _, ok := priv.(*rsa.PrivateKey); !ok {
		return tls.Certificate{}, fmt.Errorf("la llave privada debe ser RSA")
	}
	// pkcs12.Decode devuelve solo el certificado hoja; basta para KeyInfo.
	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  priv,
		Leaf:        cert,
	}, nil
}

// Validate comprueba que la credencial abre con su contraseña (se usa al subirla).
func (l *CredentialLoader) Validate(p12 []byte, password string) error {
	_, err := l.Load(p12, password)
	return err
}
