package sequoia

import (
	"context"

	"github.com/google/uuid"

	"github.com/cheyinl/sequoia-api/soap"
	"github.com/cheyinl/sequoia-api/wsdl"
)

const (
	opGetApiVersion  = "GetApiVersion"
	opCreateShipment = "CreateShipment"
	opDeleteShipment = "DeleteShipment"
)

// Response is the decoded result of an operation.
type Response struct {
	Operation     string
	ReturnValue   string
	TransactionID string
	// Body is the raw XML inside the operation's response element.
	Body string
	Call *soap.CallResult
}

func newResponse(op string, reply *wsdl.Reply, res *soap.CallResult) *Response {
	resp := &Response{Operation: op, Call: res}
	if reply == nil {
		return resp
	}
	resp.Body = reply.Inner
	resp.ReturnValue, _ = reply.Value("ReturnValue")
	resp.TransactionID, _ = reply.Value("TransactionId")
	return resp
}

// GetApiVersion asks the service for its API version, reported as the ReturnValue.
func (c *Client) GetApiVersion(ctx context.Context) (*Response, error) {
	return c.invoke(ctx, opGetApiVersion)
}

// CreateShipment submits shipment, or DemoShipment when shipment is nil.
func (c *Client) CreateShipment(ctx context.Context, shipment *Shipment) (*Response, error) {
	if shipment == nil {
		shipment = DemoShipment()
	}

	content, err := shipment.XML()
	if err != nil {
		return nil, c.fail(opCreateShipment, err)
	}

	txID := c.cfg.TransactionID
	if txID == "" {
		txID = uuid.New().String()
	}
	values := map[string]interface{}{
		"TransactionId": txID,
		"Content":       content,
	}
	if c.cfg.ImpersonationContextID != "" {
		values["ImpersonationContextId"] = c.cfg.ImpersonationContextID
	}

	req, err := c.buildRequest(c.cfg.CreateRequestType, values)
	if err != nil {
		return nil, c.fail(opCreateShipment, err)
	}
	return c.invoke(ctx, opCreateShipment, wsdl.Arg{Name: "createRequest", Value: req})
}

// DeleteShipment deletes the shipment with the given reference. The
// transaction id is "delete" followed by the reference, so repeating a delete
// repeats the id.
func (c *Client) DeleteShipment(ctx context.Context, reference string) (*Response, error) {
	if reference == "" {
		return nil, c.fail(opDeleteShipment, ErrEmptyReference)
	}

	content, err := ShipmentIdentifierXML(reference)
	if err != nil {
		return nil, c.fail(opDeleteShipment, err)
	}

	req, err := c.buildRequest(c.cfg.DeleteRequestType, map[string]interface{}{
		"TransactionId": "delete" + reference,
		"Content":       content,
	})
	if err != nil {
		return nil, c.fail(opDeleteShipment, err)
	}
	return c.invoke(ctx, opDeleteShipment, wsdl.Arg{Name: "deleteRequest", Value: req})
}
