package sequoia

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Namespaces of the Sequoia content documents.
const (
	ShipmentNamespace           = "Shipment"
	ShipmentIdentifierNamespace = "asm.org.uk/Sequoia/ShipmentIdentifier"
)

var shipmentNamespaces = []struct{ prefix, uri string }{
	{"xsPort", "asm.org.uk/Sequoia/UnLocation"},
	{"xsAccount", "asm.org.uk/Sequoia/Account"},
	{"xsAirShipment", "asm.org.uk/Sequoia/AirShipment"},
	{"xsOceanShipment", "asm.org.uk/Sequoia/OceanShipment"},
	{"xsRoadShipment", "asm.org.uk/Sequoia/RoadShipment"},
	{"xsi", "http://www.w3.org/2001/XMLSchema-instance"},
}

// Location is a UN/LOCODE port.
type Location struct {
	Code    string
	Name    string
	Country string
}

// Party is a consignor or consignee account.
type Party struct {
	Code string
	Name string
}

// Shipment is the business content of a CreateShipment request.
type Shipment struct {
	Type        string
	Category    string
	Origin      Location
	Destination Location
	Consignor   Party
	Consignee   Party
	Master      string
	Containers  []string
	Packages    int
}

// DemoShipment returns the ocean import from Ningbo to Felixstowe used to
// exercise CreateShipment.
func DemoShipment() *Shipment {
	return &Shipment{
		Type:        "OI",
		Category:    "OM",
		Origin:      Location{Code: "CNNBP", Name: "Ningbo Port", Country: "CN"},
		Destination: Location{Code: "GBFXT", Name: "Felixstowe", Country: "GB"},
		Consignor:   Party{Code: "SHIPPER001", Name: "Shipper Company Ltd"},
		Consignee:   Party{Code: "RECEIVER001", Name: "Receiver Company Ltd"},
		Master:      "ABCD012345",
		Containers:  []string{"ABCD012345"},
		Packages:    50,
	}
}

// Document renders the shipment as a Sequoia shipment document.
func (s *Shipment) Document() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	root := doc.CreateElement("shipment")
	root.CreateAttr("xmlns", ShipmentNamespace)
	for _, ns := range shipmentNamespaces {
		root.CreateAttr("xmlns:"+ns.prefix, ns.uri)
	}
	root.CreateAttr("xsi:schemaLocation", "asm.org.uk/Sequoia/Shipment shipment.xsd")

	root.CreateElement("shipmentType").SetText(s.Type)
	root.CreateElement("shipmentCategory").SetText(s.Category)

	root.CreateComment(" Origin & Destination ")
	s.Origin.write(root.CreateElement("originPort"))
	s.Destination.write(root.CreateElement("destinationPort"))

	root.CreateComment(" Customer Info ")
	s.Consignor.write(root.CreateElement("consignor"))
	s.Consignee.write(root.CreateElement("consignee"))

	root.CreateComment(" Master B/L ")
	root.CreateElement("master").SetText(s.Master)

	root.CreateComment(" Container Numbers ")
	containers := root.CreateElement("containers")
	for _, c := range s.Containers {
		containers.CreateElement("containerNumber").SetText(c)
	}

	root.CreateComment(" Packages ")
	root.CreateElement("packages").SetText(strconv.Itoa(s.Packages))

	doc.Indent(4)
	return doc
}

// XML returns the shipment document as a string.
func (s *Shipment) XML() (string, error) {
	out, err := s.Document().WriteToString()
	if err != nil {
		return "", errors.Wrap(err, "render shipment")
	}
	return out, nil
}

func (l Location) write(el *etree.Element) {
	el.CreateElement("code").SetText(l.Code)
	el.CreateElement("name").SetText(l.Name)
	el.CreateElement("country").SetText(l.Country)
}

func (p Party) write(el *etree.Element) {
	el.CreateElement("code").SetText(p.Code)
	el.CreateElement("name").SetText(p.Name)
}

// ShipmentIdentifierXML renders the shipmentIdentifier document that selects
// the shipment with the given reference.
func ShipmentIdentifierXML(reference string) (string, error) {
	doc := etree.NewDocument()
	root := doc.CreateElement("shipmentIdentifier")
	root.CreateAttr("xmlns", ShipmentIdentifierNamespace)
	root.CreateElement("shipmentIdentity").CreateElement("shipmentReference").SetText(reference)
	doc.Indent(4)

	out, err := doc.WriteToString()
	if err != nil {
		return "", errors.Wrap(err, "render shipment identifier")
	}
	return out, nil
}
