package wsdl

import (
	"encoding/xml"
	"sort"

	"github.com/pkg/errors"
)

// RequestBuilder creates objects of one schema complex type.
type RequestBuilder struct {
	typ      *ComplexType
	registry *TypeRegistry
}

// Type returns the flattened complex type the builder creates.
func (b *RequestBuilder) Type() *ComplexType {
	return b.typ
}

// Signature renders the type as prefix:Name(field: type, ...).
func (b *RequestBuilder) Signature() string {
	return b.registry.qualify(b.typ.Name) + "(" + b.registry.signature(b.typ.Fields) + ")"
}

// New returns an object with the given field values set.
func (b *RequestBuilder) New(values map[string]interface{}) (*Object, error) {
	o := &Object{typ: b.typ, values: make(map[string]interface{}, len(values))}

	// sorted so the first unknown field reported is deterministic
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := o.Set(name, values[name]); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Object is a request value conforming to a schema complex type.
// Only fields that have been set are written when it is marshalled,
// in the order the schema declares them.
type Object struct {
	typ    *ComplexType
	values map[string]interface{}
}

// Type returns the qualified schema name of the object's type.
func (o *Object) Type() xml.Name {
	return o.typ.Name
}

// Set assigns value to the field called name.
func (o *Object) Set(name string, value interface{}) error {
	if _, ok := o.typ.Field(name); !ok {
		return errors.Wrapf(ErrUnknownField, "%s has no field %s", o.typ.Name.Local, name)
	}
	o.values[name] = value
	return nil
}

// Get returns the value stored for the field called name.
func (o *Object) Get(name string) (interface{}, bool) {
	v, ok := o.values[name]
	return v, ok
}

// MarshalXML writes the object's set fields as children of start.
func (o *Object) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, f := range o.typ.Fields {
		v, ok := o.values[f.Name]
		if !ok || v == nil {
			continue
		}
		child := xml.StartElement{Name: xml.Name{Space: f.Namespace, Local: f.Name}}
		if err := e.EncodeElement(v, child); err != nil {
			return errors.Wrapf(err, "marshal %s.%s", o.typ.Name.Local, f.Name)
		}
	}
	return e.EncodeToken(start.End())
}
