package sequoia

import (
	"context"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheyinl/sequoia-api/internal/sequoiatest"
)

func TestParseSigningKeyPair(t *testing.T) {
	keyPEM, certPEM, err := sequoiatest.NewSigningKeyPair()
	require.NoError(t, err)

	key, cert, err := ParseSigningKeyPair(keyPEM, certPEM)
	require.NoError(t, err)
	assert.NotNil(t, key)

	block, _ := pem.Decode(certPEM)
	assert.Equal(t, base64.StdEncoding.EncodeToString(block.Bytes), cert)
}

func TestParseSigningKeyPairRejectsMismatch(t *testing.T) {
	keyPEM, _, err := sequoiatest.NewSigningKeyPair()
	require.NoError(t, err)
	_, otherCert, err := sequoiatest.NewSigningKeyPair()
	require.NoError(t, err)

	_, _, err = ParseSigningKeyPair(keyPEM, otherCert)
	assert.EqualError(t, err, "signing certificate does not match the key")

	_, _, err = ParseSigningKeyPair([]byte("not pem"), otherCert)
	assert.Error(t, err)
}

func TestNewClientSignsAndSetsUserAgent(t *testing.T) {
	keyPEM, certPEM, err := sequoiatest.NewSigningKeyPair()
	require.NoError(t, err)
	key, cert, err := ParseSigningKeyPair(keyPEM, certPEM)
	require.NoError(t, err)

	srv, c, _ := newTestClient(t, func(cfg *Config) {
		cfg.SigningKey = key
		cfg.SigningCert = cert
		cfg.UserAgent = "sequoia-demo/test"
		cfg.DialTimeout = 5 * time.Second
	})

	_, err = c.DeleteShipment(context.Background(), "S25/A0652")
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "sequoia-demo/test", reqs[0].Header.Get("User-Agent"))
	assert.Equal(t, cert, lastEnvelopeText(t, srv, "//Security/BinarySecurityToken"))
	assert.NotEmpty(t, lastEnvelopeText(t, srv, "//Signature/SignatureValue"))
}
