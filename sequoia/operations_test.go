package sequoia

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheyinl/sequoia-api/internal/logging"
	"github.com/cheyinl/sequoia-api/sequoia/mocks"
	"github.com/cheyinl/sequoia-api/wsdl"
)

func mockClient(t *testing.T) (*mocks.MockInvoker, *mocks.MockTypeResolver, *Client, *logging.Recorder) {
	ctrl := gomock.NewController(t)
	port := mocks.NewMockInvoker(ctrl)
	types := mocks.NewMockTypeResolver(ctrl)
	rec := &logging.Recorder{}
	return port, types, New(port, types, DefaultConfig(), rec), rec
}

func TestCreateShipmentUnresolvedType(t *testing.T) {
	_, types, c, rec := mockClient(t)
	types.EXPECT().Resolve("CreateRequest").Return(nil, wsdl.ErrTypeNotFound)

	_, err := c.CreateShipment(context.Background(), nil)
	require.Error(t, err)

	kind, _ := KindOf(err)
	assert.Equal(t, KindRequest, kind)
	assert.Len(t, rec.Entries("ERROR"), 1)
}

func TestDeleteShipmentUnresolvedType(t *testing.T) {
	_, types, c, _ := mockClient(t)
	types.EXPECT().Resolve("DeleteRequest").Return(nil, wsdl.ErrAmbiguousType)

	_, err := c.DeleteShipment(context.Background(), "S25/A0652")
	kind, _ := KindOf(err)
	assert.Equal(t, KindRequest, kind)
}

func TestInvokeErrorIsTransport(t *testing.T) {
	port, _, c, rec := mockClient(t)
	port.EXPECT().Invoke(gomock.Any(), "GetApiVersion").Return(nil, nil, errors.New("connection reset by peer"))

	resp, err := c.GetApiVersion(context.Background())
	assert.Nil(t, resp)

	var seqErr *Error
	require.True(t, errors.As(err, &seqErr))
	assert.Equal(t, KindTransport, seqErr.Kind)
	assert.Equal(t, "sequoia: GetApiVersion: transport error: connection reset by peer", seqErr.Error())
	assert.Len(t, rec.Entries("ERROR"), 1)
}

func TestUnknownOperationIsRequestError(t *testing.T) {
	port, _, c, _ := mockClient(t)
	port.EXPECT().Invoke(gomock.Any(), "GetApiVersion").Return(nil, nil, wsdl.ErrOperationNotFound)

	_, err := c.GetApiVersion(context.Background())
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindRequest, kind)
}

func TestInvokeReplyValues(t *testing.T) {
	port, _, c, rec := mockClient(t)
	reply := &wsdl.Reply{
		Inner: `<GetApiVersionResult xmlns:a="urn:contracts"><a:ReturnValue> 3.2.1 </a:ReturnValue><a:TransactionId>tx</a:TransactionId></GetApiVersionResult>`,
	}
	reply.XMLName.Local = "GetApiVersionResponse"
	port.EXPECT().Invoke(gomock.Any(), "GetApiVersion").Return(reply, nil, nil)

	resp, err := c.GetApiVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.2.1", resp.ReturnValue)
	assert.Equal(t, "tx", resp.TransactionID)
	assert.Empty(t, rec.Entries("ERROR"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "transport error", KindTransport.String())
	assert.Equal(t, "soap fault", KindFault.String())
	assert.Equal(t, "invalid request", KindRequest.String())

	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}
