// Package wsdl binds a remote SOAP service described by a WSDL document.
//
// Load fetches the document and everything it imports, Bind selects one
// service/port pair as a callable Port, and Types resolves schema complex
// types into builders for well-formed request objects.
package wsdl

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"

	"github.com/beevik/etree"
	"github.com/hooklift/gowsdl"
	"github.com/pkg/errors"

	"github.com/cheyinl/sequoia-api/internal/logging"
	"github.com/cheyinl/sequoia-api/soap"
)

type options struct {
	log logging.Logger
}

// Option configures Load.
type Option func(*options)

// WithLogger sets the logger used while loading and binding.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

type loader struct {
	ctx    context.Context
	client soap.HTTPClient
	log    logging.Logger
	seen   map[string]bool

	root    *gowsdl.WSDL
	docs    []document
	schemas []*gowsdl.XSDSchema
}

// document is a decoded WSDL with the namespace prefixes declared on its root,
// needed to resolve the QNames its messages refer to.
type document struct {
	*gowsdl.WSDL
	xmlns map[string]string
}

// rootNamespaces returns the prefix to namespace declarations of the root
// element; the default namespace is keyed by "".
func rootNamespaces(data []byte) (map[string]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	xmlns := make(map[string]string)
	if root := doc.Root(); root != nil {
		for _, attr := range root.Attr {
			switch {
			case attr.Space == "xmlns":
				xmlns[attr.Key] = attr.Value
			case attr.Space == "" && attr.Key == "xmlns":
				xmlns[""] = attr.Value
			}
		}
	}
	return xmlns, nil
}

// Load retrieves the WSDL at wsdlURL with client, follows its wsdl:import and
// schema import/include locations, and returns the merged definitions.
// Every document is requested through client, so a rewriting transport
// applies to imports as well.
func Load(ctx context.Context, wsdlURL string, client soap.HTTPClient, opts ...Option) (*Definitions, error) {
	o := options{log: logging.Nop{}}
	for _, opt := range opts {
		opt(&o)
	}

	l := &loader{
		ctx:    ctx,
		client: client,
		log:    o.log,
		seen:   make(map[string]bool),
	}

	base, err := url.Parse(wsdlURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid wsdl url %q", wsdlURL)
	}
	if err := l.loadWSDL(base); err != nil {
		return nil, err
	}

	return newDefinitions(l.root, l.docs, l.schemas, client, o.log), nil
}

func (l *loader) fetch(u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(l.ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	l.log.Debug("wsdl", "fetching", u.String())
	res, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", u)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", u)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, errors.Wrapf(&soap.HTTPError{StatusCode: res.StatusCode, ResponseBody: data}, "fetch %s", u)
	}
	return data, nil
}

func (l *loader) loadWSDL(u *url.URL) error {
	if l.seen[u.String()] {
		return nil
	}
	l.seen[u.String()] = true

	data, err := l.fetch(u)
	if err != nil {
		return err
	}

	doc := new(gowsdl.WSDL)
	if err := xml.Unmarshal(data, doc); err != nil {
		return errors.Wrapf(err, "decode wsdl %s", u)
	}
	xmlns, err := rootNamespaces(data)
	if err != nil {
		return errors.Wrapf(err, "decode wsdl %s", u)
	}
	if l.root == nil {
		l.root = doc
	}
	l.docs = append(l.docs, document{WSDL: doc, xmlns: xmlns})

	for _, schema := range doc.Types.Schemas {
		if err := l.addSchema(schema, u); err != nil {
			return err
		}
	}

	for _, imp := range doc.Imports {
		if imp.Location == "" {
			continue
		}
		next, err := u.Parse(imp.Location)
		if err != nil {
			return errors.Wrapf(err, "invalid wsdl import %q", imp.Location)
		}
		if err := l.loadWSDL(next); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) addSchema(schema *gowsdl.XSDSchema, base *url.URL) error {
	l.schemas = append(l.schemas, schema)

	for _, imp := range schema.Imports {
		if err := l.loadSchema(imp.SchemaLocation, base, ""); err != nil {
			return err
		}
	}
	for _, inc := range schema.Includes {
		// included schemas without a namespace take on the includer's
		if err := l.loadSchema(inc.SchemaLocation, base, schema.TargetNamespace); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) loadSchema(location string, base *url.URL, namespace string) error {
	if location == "" {
		return nil
	}
	u, err := base.Parse(location)
	if err != nil {
		return errors.Wrapf(err, "invalid schema location %q", location)
	}
	if l.seen[u.String()] {
		return nil
	}
	l.seen[u.String()] = true

	data, err := l.fetch(u)
	if err != nil {
		return err
	}

	schema := new(gowsdl.XSDSchema)
	if err := xml.Unmarshal(data, schema); err != nil {
		return errors.Wrapf(err, "decode schema %s", u)
	}
	if schema.TargetNamespace == "" {
		schema.TargetNamespace = namespace
	}
	return l.addSchema(schema, u)
}
