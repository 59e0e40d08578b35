package renave

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	apprenave "github.com/jhoicas/autogest-api/internal/application/renave"
)

var _ apprenave.Signer = (*SignatureService)(nil)

// SignatureService firma XMLDSig enveloped: digest SHA-256 del documento canónico,
// RSA-SHA256 sobre el SignedInfo canónico y certificado X509 embebido.
type SignatureService struct{}

// NewSignatureService crea el servicio.
func NewSignatureService() *SignatureService { return &SignatureService{} }

// Sign firma el documento e inserta <ds:Signature> como último hijo del root.
func (s *SignatureService) Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error) {
	if len(xmlBytes) == 0 {
		return nil, fmt.Errorf("renave: XML vacío")
	}
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("renave: la credencial debe incluir llave privada RSA")
	}
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("renave: la credencial no incluye certificado")
	}
	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("renave: parsear certificado: %w", err)
	}

	// 1) Digest del documento canónico (Reference URI="#renave-entrada")
	canonicalDoc, err := canonicalize(xmlBytes)
	if err != nil {
		return nil, fmt.Errorf("renave: canonicalizar documento: %w", err)
	}
	docDigest := sha256.Sum256(canonicalDoc)

	// 2) SignedInfo canónico firmado con RSA-SHA256
	signedInfo := buildSignedInfo(base64.StdEncoding.EncodeToString(docDigest[:]))
	canonicalSignedInfo, err := canonicalize([]byte(signedInfo))
	if err != nil {
		return nil, fmt.Errorf("renave: canonicalizar SignedInfo: %w", err)
	}
	hash := sha256.Sum256(canonicalSignedInfo)
	signature, err := rsa.SignPKCS1v15(nil, priv, crypto.SHA256, hash[:])
	if err != nil {
		return nil, fmt.Errorf("renave: firmar SignedInfo: %w", err)
	}

	// 3) Signature completa con KeyInfo
	var sb strings.Builder
	sb.WriteString(`<ds:Signature xmlns:ds="` + NamespaceDS + `">`)
	sb.WriteString(signedInfo)
	sb.WriteString(`<ds:SignatureValue>` + base64.StdEncoding.EncodeToString(signature) + `</ds:SignatureValue>`)
	sb.WriteString(`<ds:KeyInfo><ds:X509Data><ds:X509Certificate>`)
	sb.WriteString(base64.StdEncoding.EncodeToString(x509Cert.Raw))
	sb.WriteString(`</ds:X509Certificate></ds:X509Data></ds:KeyInfo>`)
	sb.WriteString(`</ds:Signature>`)

	return injectSignature(xmlBytes, sb.String())
}

func buildSignedInfo(digestB64 string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:SignedInfo xmlns:ds="` + NamespaceDS + `">`)
	sb.WriteString(`<ds:CanonicalizationMethod Algorithm="` + AlgC14N + `"></ds:CanonicalizationMethod>`)
	sb.WriteString(`<ds:SignatureMethod Algorithm="` + AlgRSASHA256 + `"></ds:SignatureMethod>`)
	sb.WriteString(`<ds:Reference URI="#` + RootElementID + `">`)
	sb.WriteString(`<ds:Transforms><ds:Transform Algorithm="` + TransformEnveloped + `"></ds:Transform>`)
	sb.WriteString(`<ds:Transform Algorithm="` + AlgC14N + `"></ds:Transform></ds:Transforms>`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA256 + `"></ds:DigestMethod>`)
	sb.WriteString(`<ds:DigestValue>` + digestB64 + `</ds:DigestValue>`)
	sb.WriteString(`</ds:Reference>`)
	sb.WriteString(`</ds:SignedInfo>`)
	return sb.String()
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func injectSignature(xmlBytes []byte, signatureXML string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("renave: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("renave: documento sin raíz")
	}
	sigDoc := etree.NewDocument()
	if err := sigDoc.ReadFromString(signatureXML); err != nil {
		return nil, fmt.Errorf("renave: parsear Signature: %w", err)
	}
	sigRoot := sigDoc.Root()
	if sigRoot == nil {
		return nil, fmt.Errorf("renave: Signature vacía")
	}
	root.AddChild(sigRoot)

	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("renave: serializar XML firmado: %w", err)
	}
	return out.Bytes(), nil
}
