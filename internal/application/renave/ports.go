package renave

import (
	"context"
	"crypto/tls"

	"github.com/jhoicas/autogest-api/internal/domain/entity"
)

// CertificateRenderer genera el certificado RENAVE en PDF.
// Devuelve domain.ErrRenderFailed si el snapshot está incompleto.
type CertificateRenderer interface {
	Render(ctx context.Context, s Snapshot) ([]byte, error)
}

// XMLBuilder construye el documento <RenaveEntrada> sin firmar.
type XMLBuilder interface {
	Build(s Snapshot) ([]byte, error)
}

// Signer firma un XML con la credencial de la empresa.
type Signer interface {
	Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error)
}

// CredentialLoader abre una credencial PKCS#12 guardada en la empresa.
type CredentialLoader interface {
	Load(p12 []byte, password string) (tls.Certificate, error)
}

// VehicleFinder carga un vehículo aplicando capacidad y alcance del llamador.
type VehicleFinder interface {
	Find(ctx context.Context, caller entity.Caller, op entity.Operation, id string) (*entity.Vehicle, error)
}
