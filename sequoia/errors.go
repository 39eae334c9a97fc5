package sequoia

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/cheyinl/sequoia-api/soap"
	"github.com/cheyinl/sequoia-api/wsdl"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// KindTransport covers network failures, HTTP errors and undecodable replies.
	KindTransport Kind = iota
	// KindFault means the service answered with a SOAP fault.
	KindFault
	// KindRequest means the request could not be built, so nothing was sent.
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindFault:
		return "soap fault"
	case KindRequest:
		return "invalid request"
	default:
		return "transport error"
	}
}

// ErrEmptyReference is returned by DeleteShipment for an empty shipment reference.
var ErrEmptyReference = errors.New("shipment reference is empty")

// Error is returned by every operation of Client.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sequoia: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err, and false when err did not come from a Client operation.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsFault reports whether err carries a SOAP fault returned by the service.
func IsFault(err error) bool {
	var fault *soap.SOAPFault
	return errors.As(err, &fault)
}

func classify(err error) Kind {
	switch {
	case IsFault(err):
		return KindFault
	case errors.Is(err, wsdl.ErrOperationNotFound),
		errors.Is(err, wsdl.ErrUnknownField),
		errors.Is(err, wsdl.ErrTypeNotFound),
		errors.Is(err, wsdl.ErrAmbiguousType),
		errors.Is(err, ErrEmptyReference):
		return KindRequest
	default:
		return KindTransport
	}
}
