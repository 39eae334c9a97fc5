package wsdl

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/hooklift/gowsdl"
	"github.com/pkg/errors"
)

const xsdNamespace = "http://www.w3.org/2001/XMLSchema"

// Field is one element of a complex type's content, in declaration order.
type Field struct {
	Name string
	// Type is the schema type as written in the document, e.g. "xs:string".
	Type string
	// Namespace qualifies the element on the wire; empty when the
	// declaring schema leaves local elements unqualified.
	Namespace string
}

// ComplexType is a named schema type flattened with the fields of its base types.
type ComplexType struct {
	Name   xml.Name
	Fields []Field
}

// Field returns the declared field called name.
func (t *ComplexType) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

type typeDef struct {
	name      xml.Name
	base      string
	fields    []Field
	flattened *ComplexType
}

type elementDef struct {
	name   xml.Name
	typ    string
	fields []Field
	inline bool
}

// TypeRegistry indexes the complex types and global elements of every loaded schema.
type TypeRegistry struct {
	types    map[xml.Name]*typeDef
	simple   map[xml.Name]bool
	elements map[xml.Name]*elementDef

	prefixes   map[string]string // namespace -> prefix
	namespaces map[string]string // prefix -> namespace
}

func newTypeRegistry(schemas []*gowsdl.XSDSchema) *TypeRegistry {
	r := &TypeRegistry{
		types:      make(map[xml.Name]*typeDef),
		simple:     make(map[xml.Name]bool),
		elements:   make(map[xml.Name]*elementDef),
		prefixes:   map[string]string{xsdNamespace: "xsd"},
		namespaces: map[string]string{"xsd": xsdNamespace},
	}

	for _, schema := range schemas {
		ns := schema.TargetNamespace
		r.assignPrefix(ns)

		elemNS := ""
		if schema.ElementFormDefault == "qualified" {
			elemNS = ns
		}

		for _, ct := range schema.ComplexTypes {
			if ct.Name == "" {
				continue
			}
			name := xml.Name{Space: ns, Local: ct.Name}
			r.types[name] = &typeDef{
				name:   name,
				base:   ct.ComplexContent.Extension.Base,
				fields: append(fieldsOf(ct.Sequence, elemNS), fieldsOf(ct.ComplexContent.Extension.Sequence, elemNS)...),
			}
		}

		for _, st := range schema.SimpleType {
			if st.Name != "" {
				r.simple[xml.Name{Space: ns, Local: st.Name}] = true
			}
		}

		for _, el := range schema.Elements {
			name := xml.Name{Space: ns, Local: el.Name}
			def := &elementDef{name: name, typ: el.Type}
			if el.ComplexType != nil {
				def.inline = true
				def.fields = fieldsOf(el.ComplexType.Sequence, elemNS)
			}
			r.elements[name] = def
		}
	}
	return r
}

func fieldsOf(elements []*gowsdl.XSDElement, namespace string) []Field {
	var fields []Field
	for _, el := range elements {
		fields = append(fields, Field{Name: el.Name, Type: el.Type, Namespace: namespace})
	}
	return fields
}

func (r *TypeRegistry) assignPrefix(ns string) {
	if ns == "" {
		return
	}
	if _, ok := r.prefixes[ns]; ok {
		return
	}
	prefix := fmt.Sprintf("ns%d", len(r.prefixes)-1)
	r.prefixes[ns] = prefix
	r.namespaces[prefix] = ns
}

func splitQName(qname string) (prefix, local string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}

// Resolve looks up a complex type by qualified name and returns a builder for it.
// The name may be written as "prefix:Local" using the prefixes reported by
// Prefix, in Clark notation "{namespace}Local", or bare as "Local" when exactly
// one loaded namespace defines it.
func (r *TypeRegistry) Resolve(qname string) (*RequestBuilder, error) {
	t, err := r.lookup(qname)
	if err != nil {
		return nil, err
	}
	return &RequestBuilder{typ: t, registry: r}, nil
}

func (r *TypeRegistry) lookup(qname string) (*ComplexType, error) {
	var def *typeDef

	switch {
	case strings.HasPrefix(qname, "{"):
		end := strings.IndexByte(qname, '}')
		if end < 0 {
			return nil, errors.Wrapf(ErrTypeNotFound, "malformed name %q", qname)
		}
		def = r.types[xml.Name{Space: qname[1:end], Local: qname[end+1:]}]
	case strings.Contains(qname, ":"):
		prefix, local := splitQName(qname)
		ns, ok := r.namespaces[prefix]
		if !ok {
			return nil, errors.Wrapf(ErrTypeNotFound, "unknown prefix in %q", qname)
		}
		def = r.types[xml.Name{Space: ns, Local: local}]
	default:
		var err error
		def, err = r.byLocal(qname, "")
		if err != nil {
			return nil, err
		}
	}

	if def == nil {
		return nil, errors.Wrapf(ErrTypeNotFound, "%s", qname)
	}
	return r.flatten(def, 0)
}

// byLocal finds the type called local, preferring namespace ns when several match.
func (r *TypeRegistry) byLocal(local, ns string) (*typeDef, error) {
	var matches []*typeDef
	for name, def := range r.types {
		if name.Local != local {
			continue
		}
		if name.Space == ns {
			return def, nil
		}
		matches = append(matches, def)
	}

	switch len(matches) {
	case 0:
		return nil, errors.Wrapf(ErrTypeNotFound, "%s", local)
	case 1:
		return matches[0], nil
	default:
		return nil, errors.Wrapf(ErrAmbiguousType, "%s is defined in %d namespaces", local, len(matches))
	}
}

const maxTypeDepth = 32

func (r *TypeRegistry) flatten(def *typeDef, depth int) (*ComplexType, error) {
	if def.flattened != nil {
		return def.flattened, nil
	}
	if depth > maxTypeDepth {
		return nil, errors.Errorf("wsdl: type hierarchy of %s is too deep", def.name.Local)
	}

	var fields []Field
	if def.base != "" {
		_, local := splitQName(def.base)
		base, err := r.byLocal(local, def.name.Space)
		if err != nil {
			return nil, errors.Wrapf(err, "base type of %s", def.name.Local)
		}
		parent, err := r.flatten(base, depth+1)
		if err != nil {
			return nil, err
		}
		fields = append(fields, parent.Fields...)
	}
	fields = append(fields, def.fields...)

	def.flattened = &ComplexType{Name: def.name, Fields: fields}
	return def.flattened, nil
}

// element finds a global element by its qualified name. When no schema
// declares that exact name, a local name declared by exactly one schema is
// accepted, for parts whose prefix the document does not declare.
func (r *TypeRegistry) element(name xml.Name) *elementDef {
	if def, ok := r.elements[name]; ok {
		return def
	}
	var found *elementDef
	for n, def := range r.elements {
		if n.Local != name.Local {
			continue
		}
		if found != nil {
			return nil
		}
		found = def
	}
	return found
}

// params returns the fields carried by a global element.
func (r *TypeRegistry) params(el *elementDef) []Field {
	if el.inline || el.typ == "" {
		return el.fields
	}
	_, local := splitQName(el.typ)
	def, err := r.byLocal(local, el.name.Space)
	if err != nil {
		return nil
	}
	t, err := r.flatten(def, 0)
	if err != nil {
		return nil
	}
	return t.Fields
}

// Prefix returns the short prefix assigned to namespace.
// Prefixes are numbered ns0, ns1, ... in the order the schemas were loaded.
func (r *TypeRegistry) Prefix(namespace string) (string, bool) {
	p, ok := r.prefixes[namespace]
	return p, ok
}

// Display renders a schema type reference with the registry's own prefixes.
// Built-in XML Schema types and names no loaded schema declares render as xsd:Local.
func (r *TypeRegistry) Display(typ string) string {
	if typ == "" {
		return "ANY"
	}
	prefix, local := splitQName(typ)
	if prefix == "xs" || prefix == "xsd" {
		return "xsd:" + local
	}

	def, err := r.byLocal(local, "")
	switch {
	case err == nil:
		return r.qualify(def.name)
	case errors.Is(err, ErrAmbiguousType):
		return local
	}

	var matches []xml.Name
	for name := range r.simple {
		if name.Local == local {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 0:
		return "xsd:" + local
	case 1:
		return r.qualify(matches[0])
	default:
		return local
	}
}

func (r *TypeRegistry) qualify(name xml.Name) string {
	if p, ok := r.prefixes[name.Space]; ok {
		return p + ":" + name.Local
	}
	return name.Local
}

func (r *TypeRegistry) signature(fields []Field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Name+": "+r.Display(f.Type))
	}
	return strings.Join(parts, ", ")
}

// Names lists every registered complex type as prefix:Local, sorted.
func (r *TypeRegistry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, r.qualify(name))
	}
	sort.Strings(names)
	return names
}
