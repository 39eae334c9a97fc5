package sequoia

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheyinl/sequoia-api/internal/logging"
	"github.com/cheyinl/sequoia-api/internal/sequoiatest"
	"github.com/cheyinl/sequoia-api/wsdl"
)

func testConfig(srv *sequoiatest.Server) Config {
	cfg := DefaultConfig()
	cfg.WSDLURL = srv.WSDLURL()
	cfg.PlaceholderHost = sequoiatest.PlaceholderHost
	cfg.RealHost = srv.Host()
	return cfg
}

func newTestClient(t *testing.T, mutate func(*Config)) (*sequoiatest.Server, *Client, *logging.Recorder) {
	t.Helper()
	srv := sequoiatest.NewServer()
	t.Cleanup(srv.Close)

	cfg := testConfig(srv)
	if mutate != nil {
		mutate(&cfg)
	}
	rec := &logging.Recorder{}
	c, err := NewClient(context.Background(), cfg, rec)
	require.NoError(t, err)
	return srv, c, rec
}

func lastEnvelopeText(t *testing.T, srv *sequoiatest.Server, path string) string {
	t.Helper()
	reqs := srv.Requests()
	require.NotEmpty(t, reqs)
	doc, err := reqs[len(reqs)-1].Envelope()
	require.NoError(t, err)
	el := doc.FindElement(path)
	require.NotNil(t, el, path)
	return el.Text()
}

func TestDeleteShipment(t *testing.T) {
	srv, c, rec := newTestClient(t, nil)

	resp, err := c.DeleteShipment(context.Background(), "S25/A0652")
	require.NoError(t, err)
	assert.Equal(t, "Deleted", resp.ReturnValue)
	assert.Equal(t, "deleteS25/A0652", resp.TransactionID)
	assert.NotNil(t, resp.Call)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, sequoiatest.ActionDeleteShipment, reqs[0].Action)
	assert.Equal(t, "deleteS25/A0652", lastEnvelopeText(t, srv, "//deleteRequest/TransactionId"))

	content := lastEnvelopeText(t, srv, "//deleteRequest/Content")
	assert.Contains(t, content, "<shipmentReference>S25/A0652</shipmentReference>")

	assert.Empty(t, rec.Entries("ERROR"))
	assert.NotEmpty(t, rec.Entries("INFO"))
}

func TestDeleteShipmentEmptyReference(t *testing.T) {
	srv, c, rec := newTestClient(t, nil)

	resp, err := c.DeleteShipment(context.Background(), "")
	assert.Nil(t, resp)
	require.Error(t, err)

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindRequest, kind)
	assert.True(t, errors.Is(err, ErrEmptyReference))
	assert.Empty(t, srv.Requests(), "nothing is sent")
	assert.Len(t, rec.Entries("ERROR"), 1)
}

func TestCreateShipment(t *testing.T) {
	srv, c, _ := newTestClient(t, nil)

	resp, err := c.CreateShipment(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "S25/A0700", resp.ReturnValue)
	assert.Equal(t, "20240610002", resp.TransactionID)

	assert.Equal(t, "operator001", lastEnvelopeText(t, srv, "//createRequest/ImpersonationContextId"))
	content := lastEnvelopeText(t, srv, "//createRequest/Content")
	assert.Contains(t, content, "<code>CNNBP</code>")
	assert.Contains(t, content, "<packages>50</packages>")
}

func TestCreateShipmentGeneratesTransactionID(t *testing.T) {
	srv, c, _ := newTestClient(t, func(cfg *Config) {
		cfg.TransactionID = ""
		cfg.ImpersonationContextID = ""
	})

	shipment := DemoShipment()
	shipment.Packages = 7
	resp, err := c.CreateShipment(context.Background(), shipment)
	require.NoError(t, err)

	_, err = uuid.Parse(resp.TransactionID)
	assert.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	doc, err := reqs[0].Envelope()
	require.NoError(t, err)
	assert.Nil(t, doc.FindElement("//ImpersonationContextId"), "unset fields are omitted")
	assert.Contains(t, lastEnvelopeText(t, srv, "//createRequest/Content"), "<packages>7</packages>")
}

func TestGetApiVersion(t *testing.T) {
	srv, c, _ := newTestClient(t, nil)
	srv.SetReturnValue(sequoiatest.ActionGetApiVersion, "4.0.0")

	resp, err := c.GetApiVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GetApiVersion", resp.Operation)
	assert.Equal(t, "4.0.0", resp.ReturnValue)
	assert.Contains(t, resp.Body, "4.0.0")
}

func TestOperationFault(t *testing.T) {
	srv, c, rec := newTestClient(t, nil)
	srv.Fail(sequoiatest.ActionDeleteShipment, "Shipment S25/A0652 not found")

	resp, err := c.DeleteShipment(context.Background(), "S25/A0652")
	assert.Nil(t, resp)
	require.Error(t, err)

	var seqErr *Error
	require.True(t, errors.As(err, &seqErr))
	assert.Equal(t, KindFault, seqErr.Kind)
	assert.Equal(t, "DeleteShipment", seqErr.Op)
	assert.True(t, IsFault(err))
	assert.Contains(t, err.Error(), "Shipment S25/A0652 not found")

	errs := rec.Entries("ERROR")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].String(), "Shipment S25/A0652 not found")
	assert.Empty(t, rec.Entries("INFO"))
}

func TestOperationTransportError(t *testing.T) {
	srv, c, rec := newTestClient(t, nil)
	srv.Close()

	resp, err := c.GetApiVersion(context.Background())
	assert.Nil(t, resp)
	require.Error(t, err)

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindTransport, kind)
	assert.False(t, IsFault(err))
	assert.Len(t, rec.Entries("ERROR"), 1)
}

func TestNewClientUnknownService(t *testing.T) {
	srv := sequoiatest.NewServer()
	defer srv.Close()

	cfg := testConfig(srv)
	cfg.Service = "NoSuchService"
	_, err := NewClient(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wsdl.ErrServiceNotFound))
}

func TestNewClientAddsUsernameToken(t *testing.T) {
	srv, c, _ := newTestClient(t, func(cfg *Config) {
		cfg.Username = "demo"
		cfg.Password = "secret"
	})

	_, err := c.GetApiVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "demo", lastEnvelopeText(t, srv, "//Security/UsernameToken/Username"))
}

func TestOperationsAndDescribeType(t *testing.T) {
	_, c, _ := newTestClient(t, nil)

	catalog := c.Operations()
	require.Len(t, catalog, 1)
	assert.Len(t, catalog[0].Operations, 3)

	sig, err := c.DescribeType("CreateRequest")
	require.NoError(t, err)
	assert.Contains(t, sig, "CreateRequest(ImpersonationContextId: xsd:string, TransactionId: xsd:string, Content: xsd:string)")

	_, err = c.DescribeType("Missing")
	assert.True(t, errors.Is(err, wsdl.ErrTypeNotFound))
}

func TestGetApiVersionFault(t *testing.T) {
	srv, c, rec := newTestClient(t, nil)
	srv.Fail(sequoiatest.ActionGetApiVersion, "Service unavailable")

	resp, err := c.GetApiVersion(context.Background())
	assert.Nil(t, resp)
	assert.True(t, IsFault(err))
	assert.Len(t, rec.Entries("ERROR"), 1)
}
