package soap

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cheyinl/sequoia-api/internal/logging"
)

type SOAPEnvelopeResponse struct {
	XMLName xml.Name `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Header  *SOAPHeaderResponse
	Body    SOAPBodyResponse
}

// SOAPMIMEType is the SOAP 1.1 content type expected by WCF basicHttpBinding endpoints.
const SOAPMIMEType = "text/xml; charset=utf-8"

type SOAPEnvelope struct {
	XMLName xml.Name `xml:"SOAP-ENV:Envelope"`
	XmlNS   string   `xml:"xmlns:SOAP-ENV,attr"`

	Header *SOAPHeader
	Body   SOAPBody
}

type SOAPHeader struct {
	XMLName xml.Name `xml:"SOAP-ENV:Header"`

	Headers []interface{}
}

type SOAPHeaderResponse struct {
	XMLName xml.Name `xml:"Header"`

	Headers []interface{}
}

type SOAPBody struct {
	XMLName xml.Name `xml:"SOAP-ENV:Body"`

	// XMLNSSoapEnv re-declares the envelope prefix so the body can be canonicalized on its own.
	XMLNSSoapEnv string `xml:"xmlns:SOAP-ENV,attr,omitempty"`
	// XMLNSWsu is the SOAP WS-Security utility namespace.
	XMLNSWsu string `xml:"xmlns:wsu,attr,omitempty"`
	// ID is a body ID used during WS-Security signing.
	ID string `xml:"wsu:Id,attr,omitempty"`

	Content interface{} `xml:",omitempty"`
}

type SOAPBodyResponse struct {
	XMLName xml.Name `xml:"Body"`

	Content interface{} `xml:",omitempty"`

	// faultOccurred indicates whether the XML body included a fault;
	// we cannot simply store SOAPFault as a pointer to indicate this, since
	// fault is initialized to non-nil with user-provided detail type.
	faultOccurred bool
	Fault         *SOAPFault `xml:",omitempty"`
}

// UnmarshalXML unmarshals SOAPBody xml
func (b *SOAPBodyResponse) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	if b.Content == nil {
		return xml.UnmarshalError("Content must be a pointer to a struct")
	}

	var (
		token    xml.Token
		err      error
		consumed bool
	)

Loop:
	for {
		if token, err = d.Token(); err != nil {
			return err
		}

		if token == nil {
			break
		}

		switch se := token.(type) {
		case xml.StartElement:
			if consumed {
				return xml.UnmarshalError("Found multiple elements inside SOAP body; not wrapped-document/literal WS-I compliant")
			} else if se.Name.Space == XmlNsSoapEnv && se.Name.Local == "Fault" {
				b.Content = nil

				b.faultOccurred = true
				err = d.DecodeElement(b.Fault, &se)
				if err != nil {
					return err
				}

				consumed = true
			} else {
				if err = d.DecodeElement(b.Content, &se); err != nil {
					return err
				}

				consumed = true
			}
		case xml.EndElement:
			break Loop
		}
	}

	return nil
}

func (b *SOAPBodyResponse) ErrorFromFault() error {
	if b.faultOccurred {
		return b.Fault
	}
	b.Fault = nil
	return nil
}

// FaultDetail keeps the raw content of a fault's detail element.
// WCF puts its ExceptionDetail there when includeExceptionDetailInFaults is on.
type FaultDetail struct {
	Content string `xml:",innerxml"`
}

type SOAPFault struct {
	XMLName xml.Name `xml:"http://schemas.xmlsoap.org/soap/envelope/ Fault"`

	Code   string       `xml:"faultcode,omitempty"`
	String string       `xml:"faultstring,omitempty"`
	Actor  string       `xml:"faultactor,omitempty"`
	Detail *FaultDetail `xml:"detail,omitempty"`
}

func (f *SOAPFault) Error() string {
	if f.Code != "" {
		return f.Code + ": " + f.String
	}
	return f.String
}

// HTTPError is returned whenever the HTTP request to the server fails
type HTTPError struct {
	//StatusCode is the status code returned in the HTTP response
	StatusCode int
	//ResponseBody contains the body returned in the HTTP response
	ResponseBody []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP Status %d: %s", e.StatusCode, string(e.ResponseBody))
}

const (
	// Predefined WSS namespaces to be used in
	WssNsWSSE           string = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	WssNsWSU            string = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-utility-1.0.xsd"
	WssNsType           string = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-username-token-profile-1.0#PasswordText"
	XmlNsSoapEnv        string = "http://schemas.xmlsoap.org/soap/envelope/"
	WssEncodeTypeBase64        = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-soap-message-security-1.0#Base64Binary"
	WssValueTypeX509v3         = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-x509-token-profile-1.0#X509v3"
	NsXMLDSig                  = "http://www.w3.org/2000/09/xmldsig#"
	NsXMLExcC14N               = "http://www.w3.org/2001/10/xml-exc-c14n#"
)

type WSSSecurityHeader struct {
	XMLName   xml.Name `xml:"http://schemas.xmlsoap.org/soap/envelope/ wsse:Security"`
	XmlNSWsse string   `xml:"xmlns:wsse,attr"`

	MustUnderstand string `xml:"mustUnderstand,attr,omitempty"`

	Token *WSSUsernameToken `xml:",omitempty"`
}

type WSSUsernameToken struct {
	XMLName   xml.Name `xml:"wsse:UsernameToken"`
	XmlNSWsu  string   `xml:"xmlns:wsu,attr"`
	XmlNSWsse string   `xml:"xmlns:wsse,attr"`

	Id string `xml:"wsu:Id,attr,omitempty"`

	Username *WSSUsername `xml:",omitempty"`
	Password *WSSPassword `xml:",omitempty"`
}

type WSSUsername struct {
	XMLName   xml.Name `xml:"wsse:Username"`
	XmlNSWsse string   `xml:"xmlns:wsse,attr"`

	Data string `xml:",chardata"`
}

type WSSPassword struct {
	XMLName   xml.Name `xml:"wsse:Password"`
	XmlNSWsse string   `xml:"xmlns:wsse,attr"`
	XmlNSType string   `xml:"Type,attr"`

	Data string `xml:",chardata"`
}

// NewWSSSecurityHeader creates WSSSecurityHeader instance
func NewWSSSecurityHeader(user, pass, tokenID, mustUnderstand string) *WSSSecurityHeader {
	hdr := &WSSSecurityHeader{XmlNSWsse: WssNsWSSE, MustUnderstand: mustUnderstand}
	hdr.Token = &WSSUsernameToken{XmlNSWsu: WssNsWSU, XmlNSWsse: WssNsWSSE, Id: tokenID}
	hdr.Token.Username = &WSSUsername{XmlNSWsse: WssNsWSSE, Data: user}
	hdr.Token.Password = &WSSPassword{XmlNSWsse: WssNsWSSE, XmlNSType: WssNsType, Data: pass}
	return hdr
}

type basicAuth struct {
	Login    string
	Password string
}

type hostRewrite struct {
	from, to string
}

type options struct {
	auth        *basicAuth
	timeout     time.Duration
	contimeout  time.Duration
	client      HTTPClient
	userAgent   string
	httpHeaders map[string]string
	rewrite     *hostRewrite
	logger      logging.Logger
}

var defaultOptions = options{
	timeout:    time.Duration(30 * time.Second),
	contimeout: time.Duration(90 * time.Second),
	userAgent:  "sequoia-api/0.1",
	logger:     logging.Nop{},
}

// A Option sets options such as credentials, timeouts, etc.
type Option func(*options)

// WithHTTPClient is an Option to set the HTTP client to use
// This cannot be used with WithRequestTimeout, WithTimeout,
// WithHostRewrite options
func WithHTTPClient(c HTTPClient) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithRequestTimeout is an Option to set default end-end connection timeout
// This option cannot be used with WithHTTPClient
func WithRequestTimeout(t time.Duration) Option {
	return func(o *options) {
		o.contimeout = t
	}
}

// WithBasicAuth is an Option to set BasicAuth
func WithBasicAuth(login, password string) Option {
	return func(o *options) {
		o.auth = &basicAuth{Login: login, Password: password}
	}
}

// WithTimeout is an Option to set default HTTP dial timeout
func WithTimeout(t time.Duration) Option {
	return func(o *options) {
		o.timeout = t
	}
}

// WithUserAgent is an Option to set User-Agent header value
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// WithHTTPHeaders is an Option to set global HTTP headers for all requests
func WithHTTPHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.httpHeaders = headers
	}
}

// WithHostRewrite sends every request addressed to host:port from to host:port to instead.
// This option cannot be used with WithHTTPClient
func WithHostRewrite(from, to string) Option {
	return func(o *options) {
		o.rewrite = &hostRewrite{from: from, to: to}
	}
}

// WithLogger is an Option to set the logger for request tracing
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func makeDefaultClient(opts *options) *http.Client {
	var tr http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			d := net.Dialer{Timeout: opts.timeout}
			return d.DialContext(ctx, network, addr)
		},
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: time.Second * 2,
	}
	if opts.rewrite != nil {
		tr = &HostRewriter{From: opts.rewrite.from, To: opts.rewrite.to, Next: tr, Log: opts.logger}
	}
	return &http.Client{
		Timeout:   opts.contimeout,
		Transport: tr,
	}
}

// NewHTTPClient builds the HTTP client a Client would use for the given options.
// It lets callers share one transport, including any host rewrite, between
// WSDL retrieval and SOAP calls.
func NewHTTPClient(opt ...Option) HTTPClient {
	opts := defaultOptions
	for _, o := range opt {
		o(&opts)
	}
	if opts.client != nil {
		return opts.client
	}
	return makeDefaultClient(&opts)
}

// Client is soap client
type Client struct {
	url     string
	opts    *options
	headers []interface{}

	wssPrivateKey  *rsa.PrivateKey
	wssCertBlobB64 string
}

// HTTPClient is a client which can make HTTP requests
// An example implementation is net/http.Client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient creates new SOAP client instance
func NewClient(url string, opt ...Option) *Client {
	opts := defaultOptions
	for _, o := range opt {
		o(&opts)
	}
	if opts.client == nil {
		opts.client = makeDefaultClient(&opts)
	}
	return &Client{
		url:  url,
		opts: &opts,
	}
}

// URL returns the endpoint address the client posts to.
func (s *Client) URL() string {
	return s.url
}

// SetWSSHeaderSigningKey enables an X.509 signature over the SOAP body on every call.
func (s *Client) SetWSSHeaderSigningKey(wssPrivateKey *rsa.PrivateKey, wssCertBlobBase64 string) {
	s.wssPrivateKey = wssPrivateKey
	s.wssCertBlobB64 = wssCertBlobBase64
}

// AddHeader adds envelope header
// For correct behavior, every header must contain a `XMLName` field.  Refer to #121 for details
func (s *Client) AddHeader(header interface{}) {
	s.headers = append(s.headers, header)
}

// CallContext performs HTTP POST request with a context
func (s *Client) CallContext(ctx context.Context, soapAction string, request, response interface{}) (*CallResult, error) {
	return s.call(ctx, soapAction, request, response)
}

// Call performs HTTP POST request.
// Note that if the server returns a status code >= 400 without a SOAP fault, a HTTPError will be returned
func (s *Client) Call(soapAction string, request, response interface{}) (*CallResult, error) {
	return s.call(context.Background(), soapAction, request, response)
}

func (s *Client) buildEnvelope(request interface{}) (*SOAPEnvelope, error) {
	envelope := &SOAPEnvelope{
		XmlNS: XmlNsSoapEnv,
	}
	envelope.Body.Content = request

	var soapHeaders []interface{}
	if s.wssPrivateKey != nil {
		envelope.Body.XMLNSSoapEnv = XmlNsSoapEnv
		envelope.Body.XMLNSWsu = WssNsWSU
		secHeader, err := s.makeWSSESecurityHeader(envelope)
		if err != nil {
			return nil, fmt.Errorf("sign envelope failed: %w", err)
		}
		soapHeaders = append(soapHeaders, secHeader)
	}
	soapHeaders = append(soapHeaders, s.headers...)
	if len(soapHeaders) > 0 {
		envelope.Header = &SOAPHeader{
			Headers: soapHeaders,
		}
	}
	return envelope, nil
}

func (s *Client) call(ctx context.Context, soapAction string, request, response interface{}) (*CallResult, error) {
	envelope, err := s.buildEnvelope(request)
	if err != nil {
		return nil, err
	}
	reqBody, err := xml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope failed: %w", err)
	}
	s.opts.logger.Trace("soap request", soapAction, string(reqBody))

	invokeResult := CallResult{
		RequestURL: s.url,
		RequestContent: CallContent{
			Body: string(reqBody),
		},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	if s.opts.auth != nil {
		req.SetBasicAuth(s.opts.auth.Login, s.opts.auth.Password)
	}

	req.Header.Add("Content-Type", SOAPMIMEType)
	req.Header.Set("SOAPAction", quoteAction(soapAction))
	req.Header.Set("User-Agent", s.opts.userAgent)
	req.Header.Set("Accept", "*/*")
	for k, v := range s.opts.httpHeaders {
		req.Header.Set(k, v)
	}
	req.Close = true
	invokeResult.RequestContent.Header = req.Header.Clone()

	invokeResult.InvokeAt = time.Now()
	res, err := s.opts.client.Do(req)
	if err != nil {
		invokeResult.ReturnAt = time.Now()
		return &invokeResult, err
	}
	defer res.Body.Close()
	respBody, err := io.ReadAll(res.Body)
	invokeResult.ReturnAt = time.Now()
	invokeResult.ResponseContent = CallContent{
		Header: res.Header.Clone(),
		Body:   string(respBody),
	}
	invokeResult.StatusCode = res.StatusCode
	if err != nil {
		return &invokeResult, fmt.Errorf("cannot read all content from http body: %w", err)
	}
	s.opts.logger.Trace("soap response", soapAction, res.StatusCode, string(respBody))

	// xml Decoder cannot handle namespace prefixes (yet),
	// so we have to use a namespace-less response envelope
	respEnvelope := new(SOAPEnvelopeResponse)
	respEnvelope.Body = SOAPBodyResponse{
		Content: response,
		Fault:   &SOAPFault{},
	}

	decodeErr := xml.NewDecoder(bytes.NewReader(respBody)).Decode(respEnvelope)
	if res.StatusCode >= 400 {
		// servers such as WCF report faults with status 500
		if decodeErr == nil {
			if fault := respEnvelope.Body.ErrorFromFault(); fault != nil {
				return &invokeResult, fault
			}
		}
		return &invokeResult, &HTTPError{
			StatusCode:   res.StatusCode,
			ResponseBody: respBody,
		}
	}
	if decodeErr != nil {
		return &invokeResult, fmt.Errorf("cannot decode: %w", decodeErr)
	}
	invokeResult.DecodedAt = time.Now()

	return &invokeResult, respEnvelope.Body.ErrorFromFault()
}

func quoteAction(action string) string {
	if strings.HasPrefix(action, `"`) {
		return action
	}
	return `"` + action + `"`
}
