package sequoia

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoShipmentDocument(t *testing.T) {
	out, err := DemoShipment().XML()
	require.NoError(t, err)

	assert.Contains(t, out, `<?xml version="1.0" encoding="utf-8"?>`)
	assert.Contains(t, out, `xmlns="Shipment"`)
	assert.Contains(t, out, "<!-- Origin & Destination -->")

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "shipment", root.Tag)

	for path, want := range map[string]string{
		"shipmentType":               "OI",
		"shipmentCategory":           "OM",
		"originPort/code":            "CNNBP",
		"destinationPort/code":       "GBFXT",
		"consignor/code":             "SHIPPER001",
		"consignee/name":             "Receiver Company Ltd",
		"master":                     "ABCD012345",
		"containers/containerNumber": "ABCD012345",
		"packages":                   "50",
	} {
		el := root.FindElement(path)
		if assert.NotNil(t, el, path) {
			assert.Equal(t, want, el.Text(), path)
		}
	}
}

func TestShipmentIdentifierXML(t *testing.T) {
	out, err := ShipmentIdentifierXML("S25/A0652")
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))
	assert.Equal(t, "shipmentIdentifier", doc.Root().Tag)
	assert.Equal(t, ShipmentIdentifierNamespace, doc.Root().SelectAttrValue("xmlns", ""))

	ref := doc.Root().FindElement("shipmentIdentity/shipmentReference")
	require.NotNil(t, ref)
	assert.Equal(t, "S25/A0652", ref.Text())
}

func TestShipmentIdentifierEscapes(t *testing.T) {
	out, err := ShipmentIdentifierXML("A<B&C")
	require.NoError(t, err)
	assert.Contains(t, out, "A&lt;B&amp;C")
}
