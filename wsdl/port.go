package wsdl

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"

	"github.com/cheyinl/sequoia-api/soap"
)

// Arg is a named operation parameter.
type Arg struct {
	Name  string
	Value interface{}
}

// Port is a callable binding of one service port.
type Port struct {
	Service string
	Name    string
	Address string

	ops    map[string]*Operation
	order  []string
	client *soap.Client
}

// Operations returns the port's operations in binding order.
func (p *Port) Operations() []*Operation {
	out := make([]*Operation, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.ops[name])
	}
	return out
}

// Operation returns the named operation.
func (p *Port) Operation(name string) (*Operation, bool) {
	op, ok := p.ops[name]
	return op, ok
}

// Client returns the SOAP client requests are posted with.
func (p *Port) Client() *soap.Client {
	return p.client
}

// Invoke calls operation with args wrapped in the operation's input element.
// A SOAP fault is returned as *soap.SOAPFault and an HTTP failure as
// *soap.HTTPError, both wrapped; the call result is returned whenever a
// request was sent.
func (p *Port) Invoke(ctx context.Context, operation string, args ...Arg) (*Reply, *soap.CallResult, error) {
	op, ok := p.ops[operation]
	if !ok {
		return nil, nil, errors.Wrapf(ErrOperationNotFound, "%s on %s", operation, p.Name)
	}

	req, err := newWrapper(op, args)
	if err != nil {
		return nil, nil, err
	}

	reply := &Reply{}
	res, err := p.client.CallContext(ctx, op.SOAPAction, req, reply)
	if err != nil {
		return nil, res, errors.Wrapf(err, "%s", operation)
	}
	return reply, res, nil
}

type wrapper struct {
	name xml.Name
	args []wrappedArg
}

type wrappedArg struct {
	name  xml.Name
	value interface{}
}

func newWrapper(op *Operation, args []Arg) (*wrapper, error) {
	w := &wrapper{name: op.Input.Element}
	if len(op.Input.Params) == 0 {
		for _, a := range args {
			w.args = append(w.args, wrappedArg{name: xml.Name{Space: op.Input.Element.Space, Local: a.Name}, value: a.Value})
		}
		return w, nil
	}

	byName := make(map[string]interface{}, len(args))
	for _, a := range args {
		byName[a.Name] = a.Value
	}
	for _, param := range op.Input.Params {
		v, ok := byName[param.Name]
		if !ok {
			continue
		}
		delete(byName, param.Name)
		w.args = append(w.args, wrappedArg{name: xml.Name{Space: param.Namespace, Local: param.Name}, value: v})
	}
	for name := range byName {
		return nil, errors.Wrapf(ErrUnknownField, "%s has no parameter %s", op.Name, name)
	}
	return w, nil
}

func (w *wrapper) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: w.name}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, a := range w.args {
		if a.value == nil {
			continue
		}
		if err := e.EncodeElement(a.value, xml.StartElement{Name: a.name}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// Reply is the response element of an operation, kept as raw XML.
type Reply struct {
	XMLName xml.Name
	Inner   string `xml:",innerxml"`
}

// Document parses the reply into an etree document rooted at the response element.
func (r *Reply) Document() (*etree.Document, error) {
	var b strings.Builder
	b.WriteString("<" + r.XMLName.Local)
	if r.XMLName.Space != "" {
		fmt.Fprintf(&b, ` xmlns="%s"`, r.XMLName.Space)
	}
	b.WriteString(">" + r.Inner + "</" + r.XMLName.Local + ">")

	doc := etree.NewDocument()
	if err := doc.ReadFromString(b.String()); err != nil {
		return nil, errors.Wrapf(err, "parse %s", r.XMLName.Local)
	}
	return doc, nil
}

// Value returns the text of the first element below the response whose local
// name is local, searching depth first.
func (r *Reply) Value(local string) (string, bool) {
	doc, err := r.Document()
	if err != nil || doc.Root() == nil {
		return "", false
	}
	if el := findLocal(doc.Root(), local); el != nil {
		return strings.TrimSpace(el.Text()), true
	}
	return "", false
}

func findLocal(el *etree.Element, local string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == local {
			return child
		}
		if found := findLocal(child, local); found != nil {
			return found
		}
	}
	return nil
}
