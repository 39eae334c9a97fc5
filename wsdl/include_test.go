package wsdl

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	svcNamespace   = "urn:svc"
	otherNamespace = "urn:other"
)

// svcWSDL pulls its types in through relative locations: a same-namespace
// include of a schema without targetNamespace, and an import of another
// namespace that declares a global element with the same local name.
const svcWSDL = `<?xml version="1.0" encoding="utf-8"?>
<wsdl:definitions name="Svc" targetNamespace="urn:svc"
    xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/"
    xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
    xmlns:xs="http://www.w3.org/2001/XMLSchema"
    xmlns:tns="urn:svc"
    xmlns:other="urn:other">
  <wsdl:types>
    <xs:schema targetNamespace="urn:svc" elementFormDefault="qualified">
      <xs:import namespace="urn:other" schemaLocation="xsd/other.xsd"/>
      <xs:include schemaLocation="xsd/common.xsd"/>
      <xs:element name="Ping">
        <xs:complexType><xs:sequence>
          <xs:element name="request" type="tns:PingRequest"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="PingResponse">
        <xs:complexType><xs:sequence>
          <xs:element name="result" type="xs:string"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:complexType name="Broken">
        <xs:complexContent>
          <xs:extension base="tns:Missing">
            <xs:sequence><xs:element name="Extra" type="xs:string"/></xs:sequence>
          </xs:extension>
        </xs:complexContent>
      </xs:complexType>
    </xs:schema>
  </wsdl:types>
  <wsdl:message name="PingIn"><wsdl:part name="parameters" element="tns:Ping"/></wsdl:message>
  <wsdl:message name="PingOut"><wsdl:part name="parameters" element="tns:PingResponse"/></wsdl:message>
  <wsdl:message name="EchoIn"><wsdl:part name="parameters" element="other:Ping"/></wsdl:message>
  <wsdl:portType name="SvcPort">
    <wsdl:operation name="Ping">
      <wsdl:input message="tns:PingIn"/>
      <wsdl:output message="tns:PingOut"/>
    </wsdl:operation>
    <wsdl:operation name="Echo">
      <wsdl:input message="tns:EchoIn"/>
      <wsdl:output message="tns:PingOut"/>
    </wsdl:operation>
  </wsdl:portType>
  <wsdl:binding name="SvcBinding" type="tns:SvcPort">
    <soap:binding transport="http://schemas.xmlsoap.org/soap/http"/>
    <wsdl:operation name="Ping"><soap:operation soapAction="urn:svc/Ping"/></wsdl:operation>
    <wsdl:operation name="Echo"><soap:operation soapAction="urn:svc/Echo"/></wsdl:operation>
  </wsdl:binding>
  <wsdl:service name="Svc">
    <wsdl:port name="SvcPort" binding="tns:SvcBinding">
      <soap:address location="http://localhost:9010/a/svc"/>
    </wsdl:port>
  </wsdl:service>
</wsdl:definitions>`

const commonXSD = `<?xml version="1.0" encoding="utf-8"?>
<xs:schema elementFormDefault="qualified" xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:simpleType name="guid">
    <xs:restriction base="xs:string"/>
  </xs:simpleType>
  <xs:complexType name="PingRequest">
    <xs:sequence>
      <xs:element name="Id" type="guid"/>
      <xs:element name="TransactionId" type="xs:string"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>`

const otherXSD = `<?xml version="1.0" encoding="utf-8"?>
<xs:schema targetNamespace="urn:other" elementFormDefault="qualified" xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="Ping">
    <xs:complexType><xs:sequence>
      <xs:element name="note" type="xs:string"/>
    </xs:sequence></xs:complexType>
  </xs:element>
</xs:schema>`

type documentServer struct {
	*httptest.Server

	mu      sync.Mutex
	fetched []string
}

func newDocumentServer(t *testing.T, docs map[string]string) *documentServer {
	s := &documentServer{}
	r := mux.NewRouter()
	for path, body := range docs {
		body := body
		r.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
			s.mu.Lock()
			s.fetched = append(s.fetched, req.URL.Path)
			s.mu.Unlock()
			w.Header().Set("Content-Type", "text/xml; charset=utf-8")
			_, _ = io.WriteString(w, body)
		}).Methods(http.MethodGet)
	}
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func loadSvc(t *testing.T) (*documentServer, *Definitions) {
	t.Helper()
	srv := newDocumentServer(t, map[string]string{
		"/a/svc.wsdl":       svcWSDL,
		"/a/xsd/common.xsd": commonXSD,
		"/a/xsd/other.xsd":  otherXSD,
	})
	defs, err := Load(context.Background(), srv.URL+"/a/svc.wsdl", srv.Client())
	require.NoError(t, err)
	return srv, defs
}

func TestLoadResolvesRelativeLocations(t *testing.T) {
	srv, _ := loadSvc(t)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.ElementsMatch(t, []string{"/a/svc.wsdl", "/a/xsd/other.xsd", "/a/xsd/common.xsd"}, srv.fetched)
}

func TestIncludedSchemaTakesIncluderNamespace(t *testing.T) {
	_, defs := loadSvc(t)
	types := defs.Types()

	b, err := types.Resolve("{" + svcNamespace + "}PingRequest")
	require.NoError(t, err)
	assert.Equal(t, []Field{
		{Name: "Id", Type: "guid", Namespace: svcNamespace},
		{Name: "TransactionId", Type: "xs:string", Namespace: svcNamespace},
	}, b.Type().Fields)

	prefix, ok := types.Prefix(svcNamespace)
	require.True(t, ok)
	assert.Equal(t, prefix+":PingRequest(Id: "+prefix+":guid, TransactionId: xsd:string)", b.Signature())
}

func TestResolveReportsMissingBaseType(t *testing.T) {
	_, defs := loadSvc(t)

	_, err := defs.Types().Resolve("Broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeNotFound))
	assert.Contains(t, err.Error(), "base type of Broken")
}

func TestPartElementsResolveByNamespace(t *testing.T) {
	_, defs := loadSvc(t)
	prefix, _ := defs.Types().Prefix(svcNamespace)

	// element lookup must not depend on map order
	for i := 0; i < 20; i++ {
		catalog := defs.Catalog()
		require.Len(t, catalog, 1)
		require.Len(t, catalog[0].Operations, 2)

		ping, echo := catalog[0].Operations[0], catalog[0].Operations[1]
		assert.Equal(t, xml.Name{Space: svcNamespace, Local: "Ping"}, ping.Input.Element)
		assert.Equal(t, "request: "+prefix+":PingRequest", ping.Input.Signature())
		assert.Equal(t, xml.Name{Space: otherNamespace, Local: "Ping"}, echo.Input.Element)
		assert.Equal(t, "note: xsd:string", echo.Input.Signature())
	}
}
