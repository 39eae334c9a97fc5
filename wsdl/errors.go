package wsdl

import "github.com/pkg/errors"

var (
	// ErrServiceNotFound is returned by Bind when the WSDL declares no service with the requested name.
	ErrServiceNotFound = errors.New("wsdl: service not found")
	// ErrPortNotFound is returned by Bind when the service has no port or binding with the requested name.
	ErrPortNotFound = errors.New("wsdl: port not found")
	// ErrBindingNotFound is returned when a port references a binding the WSDL does not define.
	ErrBindingNotFound = errors.New("wsdl: binding not found")
	// ErrOperationNotFound is returned by Invoke for operations the bound port does not offer.
	ErrOperationNotFound = errors.New("wsdl: operation not found")
	// ErrTypeNotFound is returned by Resolve when no schema defines the requested type.
	ErrTypeNotFound = errors.New("wsdl: type not found")
	// ErrAmbiguousType is returned by Resolve for an unqualified name defined in several namespaces.
	ErrAmbiguousType = errors.New("wsdl: ambiguous type name")
	// ErrUnknownField is returned when a value is set on a field the type does not declare.
	ErrUnknownField = errors.New("wsdl: unknown field")
)
