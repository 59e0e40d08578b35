package renave

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"math/big"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apprenave "github.com/jhoicas/autogest-api/internal/application/renave"
)

func testCredential(t *testing.T) (tls.Certificate, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tpl := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: "Loja Centro", Organization: []string{"AutoGest Test"}},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tpl, tpl, &key.PublicKey, key)
	require.NoError(t, err)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}, key
}

func sampleSnapshot() apprenave.Snapshot {
	entry := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	return apprenave.Snapshot{
		VehicleID:          "veh-1",
		CompanyName:        "Loja Centro & Filhos",
		CompanyTaxID:       "12.345.678/0001-90",
		Make:               "VW",
		Model:              "GOL",
		Year:               "2019",
		Plate:              "ABC1234",
		Value:              decimal.NewFromInt(30000),
		Status:             "IN_STOCK",
		RegistrationNumber: "RNV000123456789",
		EntryAt:            entry,
		GeneratedAt:        entry,
	}
}

// ── Builder ───────────────────────────────────────────────────────────────────

func TestXMLBuilder_ContieneDatosDelVehiculo(t *testing.T) {
	out, err := NewXMLBuilder().Build(sampleSnapshot())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, RootElement, root.Tag)
	assert.Equal(t, RootElementID, root.SelectAttrValue("Id", ""))
	assert.Equal(t, "ABC1234", root.FindElement("./Veiculo/Placa").Text())
	assert.Equal(t, "30000.00", root.FindElement("./Veiculo/ValorDeclarado").Text())
	assert.Equal(t, "RNV000123456789", root.FindElement("./Registro/Numero").Text())
	assert.Equal(t, "Loja Centro & Filhos", root.FindElement("./Loja/RazaoSocial").Text(), "el texto se escapa y se recupera")
	assert.Nil(t, root.FindElement("./Venda"), "sin venta no hay bloque Venda")
}

func TestXMLBuilder_IncluyeVenta(t *testing.T) {
	s := sampleSnapshot()
	soldAt := s.EntryAt.Add(24 * time.Hour)
	sale := decimal.NewFromInt(28000)
	s.Status, s.SoldAt, s.SaleValue = "SOLD", &soldAt, &sale
	s.BuyerName, s.BuyerDocument, s.BuyerAddress = "Maria", "111", "Rua X"

	out, err := NewXMLBuilder().Build(s)
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "28000.00", doc.Root().FindElement("./Venda/Valor").Text())
	assert.Equal(t, "Maria", doc.Root().FindElement("./Venda/Comprador/Nome").Text())
}

func TestXMLBuilder_SnapshotIncompleto(t *testing.T) {
	s := sampleSnapshot()
	s.RegistrationNumber = ""
	_, err := NewXMLBuilder().Build(s)
	assert.Error(t, err)
}

// ── Signer ────────────────────────────────────────────────────────────────────

func TestSign_FirmaVerificable(t *testing.T) {
	cred, key := testCredential(t)
	unsigned, err := NewXMLBuilder().Build(sampleSnapshot())
	require.NoError(t, err)

	signed, err := NewSignatureService().Sign(unsigned, cred)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(signed))
	sig := doc.Root().FindElement("./ds:Signature")
	require.NotNil(t, sig, "la firma debe quedar como hijo del root")

	// Digest del documento sin firma
	canonicalDoc, err := canonicalize(unsigned)
	require.NoError(t, err)
	want := sha256.Sum256(canonicalDoc)
	digest := sig.FindElement("./ds:SignedInfo/ds:Reference/ds:DigestValue")
	require.NotNil(t, digest)
	assert.Equal(t, base64.StdEncoding.EncodeToString(want[:]), digest.Text())

	// Firma RSA sobre el SignedInfo canónico
	signedInfo := etree.NewDocument()
	signedInfo.SetRoot(sig.FindElement("./ds:SignedInfo").Copy())
	siBytes, err := signedInfo.WriteToBytes()
	require.NoError(t, err)
	canonicalSI, err := canonicalize(siBytes)
	require.NoError(t, err)
	hash := sha256.Sum256(canonicalSI)

	sigValue, err := base64.StdEncoding.DecodeString(sig.FindElement("./ds:SignatureValue").Text())
	require.NoError(t, err)
	assert.NoError(t, rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, hash[:], sigValue))

	certB64 := sig.FindElement("./ds:KeyInfo/ds:X509Data/ds:X509Certificate").Text()
	assert.Equal(t, base64.StdEncoding.EncodeToString(cred.Certificate[0]), certB64)
}

func TestSign_Errores(t *testing.T) {
	cred, _ := testCredential(t)
	s := NewSignatureService()

	_, err := s.Sign(nil, cred)
	assert.Error(t, err, "XML vacío")

	_, err = s.Sign([]byte("<a>"), cred)
	assert.Error(t, err, "XML mal formado")

	_, err = s.Sign([]byte("<a/>"), tls.Certificate{})
	assert.Error(t, err, "sin llave privada")
}

// ── Credential ───────────────────────────────────────────────────────────────

func TestCredentialLoader_RechazaBasura(t *testing.T) {
	l := NewCredentialLoader()

	_, err := l.Load(nil, "x")
	assert.Error(t, err)

	assert.Error(t, l.Validate([]byte("no es un p12"), "secreto"))
}
