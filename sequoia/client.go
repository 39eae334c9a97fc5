// Package sequoia invokes the Sequoia logistics API over SOAP.
package sequoia

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/cheyinl/sequoia-api/internal/logging"
	"github.com/cheyinl/sequoia-api/soap"
	"github.com/cheyinl/sequoia-api/wsdl"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/cheyinl/sequoia-api/sequoia Invoker,TypeResolver

// Invoker calls operations on a bound service port.
type Invoker interface {
	Invoke(ctx context.Context, operation string, args ...wsdl.Arg) (*wsdl.Reply, *soap.CallResult, error)
}

// TypeResolver finds request builders by qualified type name.
type TypeResolver interface {
	Resolve(qname string) (*wsdl.RequestBuilder, error)
}

// Client invokes Sequoia operations. Build it once and share it.
type Client struct {
	cfg     Config
	port    Invoker
	types   TypeResolver
	catalog []wsdl.Endpoint
	log     logging.Logger
}

// New returns a client using already bound collaborators.
func New(port Invoker, types TypeResolver, cfg Config, log logging.Logger) *Client {
	if log == nil {
		log = logging.Nop{}
	}
	return &Client{cfg: cfg, port: port, types: types, log: log}
}

// NewClient loads the WSDL named by cfg and binds the configured service port.
// All traffic, including WSDL imports, goes through the placeholder host rewrite.
func NewClient(ctx context.Context, cfg Config, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.Nop{}
	}

	opts := []soap.Option{soap.WithLogger(log)}
	if cfg.PlaceholderHost != "" {
		opts = append(opts, soap.WithHostRewrite(cfg.PlaceholderHost, cfg.RealHost))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, soap.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.DialTimeout > 0 {
		opts = append(opts, soap.WithTimeout(cfg.DialTimeout))
	}
	httpClient := soap.NewHTTPClient(opts...)

	log.Debug("sequoia", "creating client, connecting to WSDL", cfg.WSDLURL)
	defs, err := wsdl.Load(ctx, cfg.WSDLURL, httpClient, wsdl.WithLogger(log))
	if err != nil {
		return nil, errors.Wrap(err, "load wsdl")
	}

	portOpts := []soap.Option{soap.WithLogger(log)}
	if cfg.UserAgent != "" {
		portOpts = append(portOpts, soap.WithUserAgent(cfg.UserAgent))
	}
	port, err := defs.Bind(cfg.Service, cfg.Binding, portOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "bind service")
	}
	if cfg.SigningKey != nil {
		port.Client().SetWSSHeaderSigningKey(cfg.SigningKey, cfg.SigningCert)
	}
	if cfg.Username != "" {
		port.Client().AddHeader(soap.NewWSSSecurityHeader(cfg.Username, cfg.Password, "UsernameToken-"+uuid.New().String(), "1"))
	}

	c := New(port, defs.Types(), cfg, log)
	c.catalog = defs.Catalog()
	return c, nil
}

// Operations lists the operations the WSDL declares, per service port.
func (c *Client) Operations() []wsdl.Endpoint {
	return c.catalog
}

// DescribeType renders the schema signature of the named type.
func (c *Client) DescribeType(qname string) (string, error) {
	b, err := c.types.Resolve(qname)
	if err != nil {
		return "", err
	}
	return b.Signature(), nil
}

func (c *Client) fail(op string, err error) error {
	e := &Error{Op: op, Kind: classify(err), Err: err}
	c.log.Error("sequoia", op, e)
	return e
}

func (c *Client) buildRequest(typeName string, values map[string]interface{}) (*wsdl.Object, error) {
	b, err := c.types.Resolve(typeName)
	if err != nil {
		return nil, err
	}
	return b.New(values)
}

func (c *Client) invoke(ctx context.Context, op string, args ...wsdl.Arg) (*Response, error) {
	c.log.Debug("sequoia", "calling", op)
	reply, res, err := c.port.Invoke(ctx, op, args...)
	if err != nil {
		return nil, c.fail(op, err)
	}

	resp := newResponse(op, reply, res)
	c.log.Info("sequoia", op, "returned", resp.ReturnValue)
	return resp, nil
}
