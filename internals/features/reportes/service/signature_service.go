package service

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	"go.mozilla.org/pkcs7"

	"biblioteca_backend/internals/configs"
)

// SignatureService firma reportes PDF con una firma CMS (PKCS#7) separada.
// La firma va adjunta al final del archivo, después de %%EOF, como bloque de
// comentario en base64: los visores la ignoran y el verificador la extrae.
type SignatureService struct {
	CertPath string
	KeyPath  string
	Password string
}

func NewSignatureService() *SignatureService {
	return &SignatureService{
		CertPath: configs.DigitalCertPath,
		KeyPath:  configs.PrivateKeyPath,
		Password: configs.CertPassword,
	}
}

const (
	sigBegin = "\n%--BEGIN-CMS-SIGNATURE--\n"
	sigEnd   = "\n%--END-CMS-SIGNATURE--\n"
)

// SignPDF devuelve el PDF con la firma CMS adjunta. Si no hay material
// criptográfico utilizable se genera un certificado autofirmado efímero con
// aviso ruidoso; esa firma sirve para pruebas, no para producción.
func (s *SignatureService) SignPDF(pdf []byte) ([]byte, error) {
	cert, key, err := s.loadCredentials()
	if err != nil {
		log.Printf("⚠️ Sin certificado configurado (%v); usando certificado efímero NO apto para producción", err)
		cert, key, err = ephemeralCredentials()
		if err != nil {
			return nil, err
		}
	}

	signed, err := pkcs7.NewSignedData(pdf)
	if err != nil {
		return nil, fmt.Errorf("preparando firma: %w", err)
	}
	if err := signed.AddSigner(cert, key, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, fmt.Errorf("agregando firmante: %w", err)
	}
	signed.Detach()
	der, err := signed.Finish()
	if err != nil {
		return nil, fmt.Errorf("serializando firma: %w", err)
	}

	var out bytes.Buffer
	out.Write(pdf)
	out.WriteString(sigBegin)
	out.WriteString("% " + base64.StdEncoding.EncodeToString(der))
	out.WriteString(sigEnd)
	return out.Bytes(), nil
}

// ExtractSignature recupera la firma CMS adjunta, si existe.
func ExtractSignature(signedPDF []byte) ([]byte, bool) {
	start := bytes.Index(signedPDF, []byte(sigBegin))
	if start < 0 {
		return nil, false
	}
	rest := signedPDF[start+len(sigBegin):]
	end := bytes.Index(rest, []byte(sigEnd))
	if end < 0 {
		return nil, false
	}
	payload := bytes.TrimPrefix(rest[:end], []byte("% "))
	der, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		return nil, false
	}
	return der, true
}

func (s *SignatureService) loadCredentials() (*x509.Certificate, *rsa.PrivateKey, error) {
	if s.CertPath == "" || s.KeyPath == "" {
		return nil, nil, errors.New("rutas de certificado no configuradas")
	}

	certPEM, err := os.ReadFile(s.CertPath)
	if err != nil {
		return nil, nil, err
	}
	keyPEM, err := os.ReadFile(s.KeyPath)
	if err != nil {
		return nil, nil, err
	}

	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil {
		return nil, nil, errors.New("certificado PEM ilegible")
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, nil, err
	}

	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return nil, nil, errors.New("clave privada PEM ilegible")
	}
	keyBytes := keyBlock.Bytes
	if x509.IsEncryptedPEMBlock(keyBlock) {
		keyBytes, err = x509.DecryptPEMBlock(keyBlock, []byte(s.Password))
		if err != nil {
			return nil, nil, err
		}
	}
	if key, err := x509.ParsePKCS1PrivateKey(keyBytes); err == nil {
		return cert, key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(keyBytes)
	if err != nil {
		return nil, nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, nil, errors.New("la clave privada no es RSA")
	}
	return cert, key, nil
}

func ephemeralCredentials() (*x509.Certificate, *rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, err
	}
	template := x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject: pkix.Name{
			CommonName:   "Biblioteca (firma efímera)",
			Organization: []string{"biblioteca_backend"},
		},
		NotBefore:   time.Now().Add(-time.Hour),
		NotAfter:    time.Now().Add(24 * time.Hour),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, err
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, err
	}
	return cert, key, nil
}
