// Package renave genera los documentos de un vehículo: certificado PDF y exportación XML firmada.
package renave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/autogest-api/internal/application/ports"
	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/domain/repository"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

// Tipos de documento reportados a métricas.
const (
	KindPDF = "pdf"
	KindXML = "xml"
)

// Document resultado de una generación.
type Document struct {
	Content  []byte
	FileName string
	Signed   bool
}

// UseCase arma el snapshot y delega en los generadores. Nunca escribe en el registro.
type UseCase struct {
	vehicles    VehicleFinder
	companyRepo repository.CompanyRepository
	renderer    CertificateRenderer
	xml         XMLBuilder
	signer      Signer
	loader      CredentialLoader
	metrics     ports.Metrics
	log         *logger.Logger
	now         func() time.Time
}

// Deps dependencias del caso de uso. XML, Signer y Loader son opcionales.
type Deps struct {
	Vehicles    VehicleFinder
	CompanyRepo repository.CompanyRepository
	Renderer    CertificateRenderer
	XML         XMLBuilder
	Signer      Signer
	Loader      CredentialLoader
	Metrics     ports.Metrics
	Log         *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	if d.Metrics == nil {
		d.Metrics = ports.NopMetrics{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &UseCase{
		vehicles:    d.Vehicles,
		companyRepo: d.CompanyRepo,
		renderer:    d.Renderer,
		xml:         d.XML,
		signer:      d.Signer,
		loader:      d.Loader,
		metrics:     d.Metrics,
		log:         d.Log.Named("renave"),
		now:         time.Now,
	}
}

// Certificate genera el PDF del vehículo.
//   - domain.ErrNotFound      si no existe o es de otra empresa.
//   - domain.ErrRenderFailed  si falta un campo obligatorio (p. ej. sin número RENAVE).
func (uc *UseCase) Certificate(ctx context.Context, caller entity.Caller, vehicleID string) (*Document, error) {
	snap, _, err := uc.snapshot(ctx, caller, vehicleID)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.renderer.Render(ctx, snap)
	if err != nil {
		return nil, renderErr(err)
	}
	uc.metrics.DocumentRendered(KindPDF)
	return &Document{Content: pdf, FileName: snap.FileName("pdf")}, nil
}

// ExportXML genera el XML <RenaveEntrada>; se firma si la empresa tiene credencial cargada.
func (uc *UseCase) ExportXML(ctx context.Context, caller entity.Caller, vehicleID string) (*Document, error) {
	if uc.xml == nil {
		return nil, fmt.Errorf("renave: exportación XML no configurada")
	}
	snap, company, err := uc.snapshot(ctx, caller, vehicleID)
	if err != nil {
		return nil, err
	}
	doc, err := uc.xml.Build(snap)
	if err != nil {
		return nil, renderErr(err)
	}
	signed := false
	if company.HasCertificate() && uc.signer != nil && uc.loader != nil {
		cert, err := uc.loader.Load(company.Certificate, company.CertificatePassword)
		if err != nil {
			uc.log.Error().Err(err).Str("company_id", company.ID).Msg("no se pudo abrir la credencial de firma")
			return nil, fmt.Errorf("%w: credencial de firma inválida", domain.ErrRenderFailed)
		}
		doc, err = uc.signer.Sign(doc, cert)
		if err != nil {
			return nil, renderErr(err)
		}
		signed = true
	}
	uc.metrics.DocumentRendered(KindXML)
	return &Document{Content: doc, FileName: snap.FileName("xml"), Signed: signed}, nil
}

func (uc *UseCase) snapshot(ctx context.Context, caller entity.Caller, vehicleID string) (Snapshot, *entity.Company, error) {
	v, err := uc.vehicles.Find(ctx, caller, entity.OpCertificateRender, vehicleID)
	if err != nil {
		return Snapshot{}, nil, err
	}
	company, err := uc.companyRepo.GetByID(ctx, v.CompanyID)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf("renave: cargar empresa: %w", err)
	}
	snap := NewSnapshot(v, company, uc.now())
	if err := snap.Validate(); err != nil {
		return Snapshot{}, nil, err
	}
	return snap, company, nil
}

// renderErr conserva ErrRenderFailed y envuelve cualquier otro fallo del generador.
func renderErr(err error) error {
	if errors.Is(err, domain.ErrRenderFailed) {
		return err
	}
	return fmt.Errorf("%w: %s", domain.ErrRenderFailed, err.Error())
}
