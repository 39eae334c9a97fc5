package sequoia

import (
	"crypto/rsa"
	"time"
)

// Endpoint defaults for the Sequoia API. The WSDL advertises the service on
// localhost:9010, which is only reachable as 185.79.59.183:9010, so every
// request to the placeholder is rewritten to the real address.
const (
	DefaultWSDLURL         = "http://185.79.59.183:9010/Asm/Sequoia/SequoiaApiSoapService?wsdl"
	DefaultPlaceholderHost = "localhost:9010"
	DefaultRealHost        = "185.79.59.183:9010"
	DefaultService         = "SequoiaApiSoapService"
	DefaultBinding         = "BasicHttpBinding_ISequoiaApiSoapService"
)

// Config is the endpoint configuration, built once at startup.
type Config struct {
	WSDLURL string

	// PlaceholderHost is rewritten to RealHost on every outbound request.
	// Leave it empty to disable the rewrite.
	PlaceholderHost string
	RealHost        string

	Service string
	Binding string

	// CreateRequestType and DeleteRequestType name the request types in
	// any form wsdl.TypeRegistry.Resolve accepts.
	CreateRequestType string
	DeleteRequestType string

	// TransactionID is sent with CreateShipment; a UUID is generated when empty.
	TransactionID          string
	ImpersonationContextID string

	// Username and Password, when set, add a WS-Security UsernameToken header.
	Username string
	Password string

	// SigningKey, when set, signs the body of every call with an X.509
	// WS-Security signature. SigningCert is the base64 DER certificate
	// sent as the BinarySecurityToken; see ParseSigningKeyPair.
	SigningKey  *rsa.PrivateKey
	SigningCert string

	// Timeout bounds each HTTP request and DialTimeout each connection
	// attempt. Zero keeps the transport default.
	Timeout     time.Duration
	DialTimeout time.Duration

	// UserAgent replaces the default User-Agent of SOAP calls.
	UserAgent string
}

// DefaultConfig returns the configuration of the Sequoia demo environment.
func DefaultConfig() Config {
	return Config{
		WSDLURL:                DefaultWSDLURL,
		PlaceholderHost:        DefaultPlaceholderHost,
		RealHost:               DefaultRealHost,
		Service:                DefaultService,
		Binding:                DefaultBinding,
		CreateRequestType:      "CreateRequest",
		DeleteRequestType:      "DeleteRequest",
		TransactionID:          "20240610002",
		ImpersonationContextID: "operator001",
	}
}
