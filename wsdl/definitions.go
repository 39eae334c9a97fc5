package wsdl

import (
	"encoding/xml"

	"github.com/hooklift/gowsdl"
	"github.com/pkg/errors"

	"github.com/cheyinl/sequoia-api/internal/logging"
	"github.com/cheyinl/sequoia-api/soap"
)

// Message describes the wrapper element of an operation's input or output.
type Message struct {
	Name    string
	Element xml.Name
	Params  []Field

	signature string
}

// Signature renders the message parameters, e.g. "createRequest: ns3:CreateRequest".
func (m Message) Signature() string {
	return m.signature
}

// Operation is one operation offered by a binding.
type Operation struct {
	Name       string
	SOAPAction string
	Doc        string
	Input      Message
	Output     Message
}

// Endpoint lists the operations reachable through one service port.
type Endpoint struct {
	Service    string
	Port       string
	Binding    string
	Address    string
	Operations []*Operation
}

type scopedMessage struct {
	*gowsdl.WSDLMessage
	xmlns map[string]string
}

// Definitions is a loaded WSDL with its imports merged.
type Definitions struct {
	TargetNamespace string

	messages  map[string]scopedMessage
	portTypes map[string]*gowsdl.WSDLPortType
	bindings  map[string]*gowsdl.WSDLBinding
	services  []*gowsdl.WSDLService

	types  *TypeRegistry
	client soap.HTTPClient
	log    logging.Logger
}

func newDefinitions(root *gowsdl.WSDL, docs []document, schemas []*gowsdl.XSDSchema, client soap.HTTPClient, log logging.Logger) *Definitions {
	d := &Definitions{
		TargetNamespace: root.TargetNamespace,
		messages:        make(map[string]scopedMessage),
		portTypes:       make(map[string]*gowsdl.WSDLPortType),
		bindings:        make(map[string]*gowsdl.WSDLBinding),
		types:           newTypeRegistry(schemas),
		client:          client,
		log:             log,
	}

	for _, doc := range docs {
		for _, m := range doc.Messages {
			d.messages[m.Name] = scopedMessage{WSDLMessage: m, xmlns: doc.xmlns}
		}
		for _, pt := range doc.PortTypes {
			d.portTypes[pt.Name] = pt
		}
		for _, b := range doc.Binding {
			d.bindings[b.Name] = b
		}
		d.services = append(d.services, doc.Service...)
	}
	return d
}

// Types returns the registry of schema types declared by the WSDL.
func (d *Definitions) Types() *TypeRegistry {
	return d.types
}

// Catalog lists every service port and the operations of its binding.
func (d *Definitions) Catalog() []Endpoint {
	var out []Endpoint
	for _, svc := range d.services {
		for _, port := range svc.Ports {
			_, bindingName := splitQName(port.Binding)
			ep := Endpoint{
				Service: svc.Name,
				Port:    port.Name,
				Binding: bindingName,
				Address: port.SOAPAddress.Location,
			}
			if b, ok := d.bindings[bindingName]; ok {
				ep.Operations = d.operations(b)
			}
			out = append(out, ep)
		}
	}
	return out
}

// Bind returns a Port for the named service and port. The port may be given
// by its own name or by the name of its binding. The port's SOAP client is
// built with the HTTP client the definitions were loaded with, followed by opts.
func (d *Definitions) Bind(service, port string, opts ...soap.Option) (*Port, error) {
	var svc *gowsdl.WSDLService
	for _, s := range d.services {
		if s.Name == service {
			svc = s
			break
		}
	}
	if svc == nil {
		return nil, errors.Wrapf(ErrServiceNotFound, "%s", service)
	}

	var wp *gowsdl.WSDLPort
	for _, p := range svc.Ports {
		_, bindingName := splitQName(p.Binding)
		if p.Name == port || bindingName == port {
			wp = p
			break
		}
	}
	if wp == nil {
		return nil, errors.Wrapf(ErrPortNotFound, "%s in service %s", port, service)
	}

	_, bindingName := splitQName(wp.Binding)
	binding, ok := d.bindings[bindingName]
	if !ok {
		return nil, errors.Wrapf(ErrBindingNotFound, "%s", bindingName)
	}

	p := &Port{
		Service: svc.Name,
		Name:    wp.Name,
		Address: wp.SOAPAddress.Location,
		ops:     make(map[string]*Operation),
		client:  soap.NewClient(wp.SOAPAddress.Location, append([]soap.Option{soap.WithHTTPClient(d.client)}, opts...)...),
	}
	for _, op := range d.operations(binding) {
		p.ops[op.Name] = op
		p.order = append(p.order, op.Name)
	}

	d.log.Debug("wsdl", "bound port", p.Service+"/"+p.Name, p.Address, len(p.ops))
	return p, nil
}

func (d *Definitions) operations(b *gowsdl.WSDLBinding) []*Operation {
	_, ptName := splitQName(b.Type)
	pt := d.portTypes[ptName]

	ops := make([]*Operation, 0, len(b.Operations))
	for _, bop := range b.Operations {
		op := &Operation{
			Name:       bop.Name,
			SOAPAction: bop.SOAPOperation.SOAPAction,
			Doc:        bop.Doc,
			Input:      Message{Element: xml.Name{Space: d.TargetNamespace, Local: bop.Name}},
			Output:     Message{Element: xml.Name{Space: d.TargetNamespace, Local: bop.Name + "Response"}},
		}
		if pt != nil {
			for _, ptop := range pt.Operations {
				if ptop.Name != bop.Name {
					continue
				}
				if op.Doc == "" {
					op.Doc = ptop.Doc
				}
				op.Input = d.message(ptop.Input.Message, op.Input.Element)
				op.Output = d.message(ptop.Output.Message, op.Output.Element)
			}
		}
		ops = append(ops, op)
	}
	return ops
}

// message resolves a portType message reference into its wrapper element.
func (d *Definitions) message(ref string, fallback xml.Name) Message {
	_, name := splitQName(ref)
	m := Message{Name: name, Element: fallback}

	wm, ok := d.messages[name]
	if !ok || len(wm.Parts) == 0 {
		return m
	}

	part := wm.Parts[0]
	if part.Element != "" {
		prefix, local := splitQName(part.Element)
		if el := d.types.element(xml.Name{Space: wm.xmlns[prefix], Local: local}); el != nil {
			m.Element = el.name
			m.Params = d.types.params(el)
		}
	} else {
		// rpc style: every part is a parameter of the operation element
		for _, p := range wm.Parts {
			m.Params = append(m.Params, Field{Name: p.Name, Type: p.Type})
		}
	}
	m.signature = d.types.signature(m.Params)
	return m
}
