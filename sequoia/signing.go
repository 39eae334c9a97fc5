package sequoia

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"

	"github.com/pkg/errors"
)

// ParseSigningKeyPair decodes a PEM RSA private key (PKCS#1 or PKCS#8) and a
// PEM certificate into the form Config.SigningKey and Config.SigningCert expect.
func ParseSigningKeyPair(keyPEM, certPEM []byte) (*rsa.PrivateKey, string, error) {
	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return nil, "", errors.New("signing key: no PEM block found")
	}

	var key *rsa.PrivateKey
	switch keyBlock.Type {
	case "RSA PRIVATE KEY":
		k, err := x509.ParsePKCS1PrivateKey(keyBlock.Bytes)
		if err != nil {
			return nil, "", errors.Wrap(err, "signing key")
		}
		key = k
	default:
		k, err := x509.ParsePKCS8PrivateKey(keyBlock.Bytes)
		if err != nil {
			return nil, "", errors.Wrap(err, "signing key")
		}
		rsaKey, ok := k.(*rsa.PrivateKey)
		if !ok {
			return nil, "", errors.Errorf("signing key: %T is not an RSA key", k)
		}
		key = rsaKey
	}

	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil {
		return nil, "", errors.New("signing certificate: no PEM block found")
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, "", errors.Wrap(err, "signing certificate")
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok || pub.N.Cmp(key.N) != 0 {
		return nil, "", errors.New("signing certificate does not match the key")
	}
	return key, base64.StdEncoding.EncodeToString(certBlock.Bytes), nil
}
