// Package pdf genera el certificado RENAVE de un vehículo con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + CNPJ        │  Documento RENAVE + Fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VEÍCULO: Marca / Modelo / Ano / Placa / Valor               │
//	│  SITUAÇÃO: Status + Entrada                                  │
//	│  VENDA (solo SOLD): Comprador / Documento / Endereço / Valor │
//	│  ─────────────────────────────────────────────────────────  │
//	│  REGISTRO: Número RENAVE + QR                                │
//	│  Leyenda legal                                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autogest-api/internal/application/renave"
	"github.com/jhoicas/autogest-api/internal/domain"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dateLayout = "02/01/2006 15:04"

// ── Generator ─────────────────────────────────────────────────────────────────

var _ renave.CertificateRenderer = (*CertificateGenerator)(nil)

// CertificateGenerator implementa renave.CertificateRenderer usando Maroto v2.
type CertificateGenerator struct {
	loc *time.Location
}

// NewCertificateGenerator construye el generador. loc nil usa UTC.
func NewCertificateGenerator(loc *time.Location) *CertificateGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &CertificateGenerator{loc: loc}
}

// Render genera el PDF. Falla con domain.ErrRenderFailed si falta un campo obligatorio:
// nunca emite un documento con campos obligatorios en blanco.
func (g *CertificateGenerator) Render(_ context.Context, s renave.Snapshot) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Documento RENAVE "+s.Plate, true).
		WithAuthor(s.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(vehicleRows(s)...)
	m.AddRows(g.statusRow(s))
	if s.SoldAt != nil {
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
		m.AddRows(g.saleRows(s)...)
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(registrationRow(s))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: maroto: %s", domain.ErrRenderFailed, err.Error())
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *CertificateGenerator) headerRow(s renave.Snapshot) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(s.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CNPJ: "+nonEmpty(s.CompanyTaxID, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Documento RENAVE", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido em: "+g.format(s.GeneratedAt), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func vehicleRows(s renave.Snapshot) []core.Row {
	return []core.Row{
		sectionTitle("VEÍCULO"),
		row.New(8).Add(
			field("Marca", s.Make, 3),
			field("Modelo", s.Model, 3),
			field("Ano", nonEmpty(s.Year, "-"), 2),
			field("Placa", s.Plate, 2),
			field("Valor", formatMoney(s.Value), 2),
		),
	}
}

func (g *CertificateGenerator) statusRow(s renave.Snapshot) core.Row {
	return row.New(10).Add(
		field("Status", s.Status, 4),
		field("Entrada", g.format(s.EntryAt), 4),
		field("ID", s.VehicleID, 4),
	)
}

func (g *CertificateGenerator) saleRows(s renave.Snapshot) []core.Row {
	sale := "-"
	if s.SaleValue != nil {
		sale = formatMoney(*s.SaleValue)
	}
	return []core.Row{
		sectionTitle("VENDA"),
		row.New(8).Add(
			field("Comprador", nonEmpty(s.BuyerName, "-"), 5),
			field("Documento", nonEmpty(s.BuyerDocument, "-"), 3),
			field("Valor de venda", sale, 2),
			field("Data", g.format(*s.SoldAt), 2),
		),
		row.New(8).Add(field("Endereço", nonEmpty(s.BuyerAddress, "-"), 12)),
	}
}

// registrationRow: número RENAVE + QR con el mismo valor.
func registrationRow(s renave.Snapshot) core.Row {
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(s.RegistrationNumber, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("NÚMERO DE REGISTRO RENAVE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 6, Left: 3,
			}),
			text.New(s.RegistrationNumber, props.Text{
				Style: fontstyle.Bold, Size: 16, Top: 13, Left: 3,
			}),
			text.New("Escaneie o código QR para conferir o registro.", props.Text{
				Size: 8, Top: 24, Left: 3, Color: colorGray,
			}),
		),
	)
}

func footerRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(
			"Documento gerado eletronicamente. Registro simulado, sem integração com o órgão nacional de trânsito.",
			props.Text{Size: 6.5, Color: colorGray, Top: 3},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func field(label, value string, size int) core.Col {
	return col.New(size).Add(
		text.New(label, props.Text{Size: 7, Color: colorGray}),
		text.New(value, props.Text{Style: fontstyle.Bold, Size: 9, Top: 3.5}),
	)
}

func (g *CertificateGenerator) format(t time.Time) string {
	return t.In(g.loc).Format(dateLayout)
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// formatMoney formatea en reales con puntos de miles y coma decimal.
// Ej: 30000 → "R$ 30.000,00", 1234.5 → "R$ 1.234,50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return "R$ " + sign + string(buf) + "," + frac
}
