package renave

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	apprenave "github.com/jhoicas/autogest-api/internal/application/renave"
	"github.com/jhoicas/autogest-api/internal/domain"
)

var _ apprenave.XMLBuilder = (*XMLBuilder)(nil)

// XMLBuilder construye el documento <RenaveEntrada> (sin firma).
type XMLBuilder struct{}

// NewXMLBuilder crea el builder.
func NewXMLBuilder() *XMLBuilder { return &XMLBuilder{} }

// Build genera el XML del snapshot. El Id del root es el destino de la Reference de la firma.
func (b *XMLBuilder) Build(s apprenave.Snapshot) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	// Sin declaración ni indentación: el documento se canonicaliza tal cual al firmarlo.
	doc := etree.NewDocument()

	root := doc.CreateElement(RootElement)
	root.CreateAttr("xmlns", NamespaceRenave)
	root.CreateAttr("Id", RootElementID)
	root.CreateAttr("versao", layoutVersion)

	root.CreateElement("DataGeracao").SetText(s.GeneratedAt.UTC().Format(time.RFC3339))

	loja := root.CreateElement("Loja")
	loja.CreateElement("RazaoSocial").SetText(s.CompanyName)
	if s.CompanyTaxID != "" {
		loja.CreateElement("CNPJ").SetText(s.CompanyTaxID)
	}

	veiculo := root.CreateElement("Veiculo")
	veiculo.CreateAttr("id", s.VehicleID)
	veiculo.CreateElement("Marca").SetText(s.Make)
	veiculo.CreateElement("Modelo").SetText(s.Model)
	if s.Year != "" {
		veiculo.CreateElement("Ano").SetText(s.Year)
	}
	veiculo.CreateElement("Placa").SetText(s.Plate)
	veiculo.CreateElement("ValorDeclarado").SetText(s.Value.StringFixed(2))
	veiculo.CreateElement("Status").SetText(s.Status)
	veiculo.CreateElement("DataEntrada").SetText(s.EntryAt.UTC().Format(time.RFC3339))

	root.CreateElement("Registro").CreateElement("Numero").SetText(s.RegistrationNumber)

	if s.SoldAt != nil {
		venda := root.CreateElement("Venda")
		venda.CreateElement("Data").SetText(s.SoldAt.UTC().Format(time.RFC3339))
		if s.SaleValue != nil {
			venda.CreateElement("Valor").SetText(s.SaleValue.StringFixed(2))
		}
		comprador := venda.CreateElement("Comprador")
		comprador.CreateElement("Nome").SetText(s.BuyerName)
		comprador.CreateElement("Documento").SetText(s.BuyerDocument)
		if s.BuyerAddress != "" {
			comprador.CreateElement("Endereco").SetText(s.BuyerAddress)
		}
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: serializar XML: %s", domain.ErrRenderFailed, err.Error())
	}
	return out, nil
}
