package soap

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"

	"github.com/ucarion/c14n"
)

const (
	algExcC14N      = "http://www.w3.org/2001/10/xml-exc-c14n#"
	algRSASHA256    = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	algDigestSHA256 = "http://www.w3.org/2001/04/xmlenc#sha256"
)

type binarySecurityToken struct {
	XMLName xml.Name `xml:"wsse:BinarySecurityToken"`
	XMLNS   string   `xml:"xmlns:wsu,attr"`

	WsuID string `xml:"wsu:Id,attr"`

	EncodingType string `xml:"EncodingType,attr"`
	ValueType    string `xml:"ValueType,attr"`

	Value string `xml:",chardata"`
}

type inclusiveNamespaces struct {
	XMLName    xml.Name `xml:"http://www.w3.org/2001/10/xml-exc-c14n# InclusiveNamespaces"`
	PrefixList string   `xml:"PrefixList,attr"`
}

type algorithm struct {
	Algorithm string `xml:"Algorithm,attr"`
}

type canonicalizationMethod struct {
	XMLName xml.Name `xml:"CanonicalizationMethod"`
	algorithm
	InclusiveNamespaces inclusiveNamespaces
}

type signatureMethod struct {
	XMLName xml.Name `xml:"SignatureMethod"`
	algorithm
}

type digestMethod struct {
	XMLName xml.Name `xml:"DigestMethod"`
	algorithm
}

type transform struct {
	XMLName xml.Name `xml:"Transform"`
	algorithm
}

type signatureReference struct {
	XMLName xml.Name `xml:"Reference"`
	URI     string   `xml:"URI,attr"`

	Transforms   []transform `xml:"Transforms>Transform"`
	DigestMethod digestMethod
	DigestValue  string `xml:"DigestValue"`
}

type signedInfo struct {
	XMLName xml.Name `xml:"SignedInfo"`
	XMLNS   string   `xml:"xmlns,attr"`

	CanonicalizationMethod canonicalizationMethod
	SignatureMethod        signatureMethod
	Reference              signatureReference
}

type strReference struct {
	XMLName   xml.Name `xml:"wsse:Reference"`
	ValueType string   `xml:"ValueType,attr"`
	URI       string   `xml:"URI,attr"`
}

type securityTokenReference struct {
	XMLName xml.Name `xml:"wsse:SecurityTokenReference"`
	XMLNS   string   `xml:"xmlns:wsu,attr"`

	StrID string `xml:"wsu:Id,attr"`

	Reference strReference
}

type keyInfo struct {
	XMLName xml.Name `xml:"KeyInfo"`

	KeyInfoID string `xml:"Id,attr"`

	SecurityTokenReference securityTokenReference
}

type signature struct {
	XMLName xml.Name `xml:"Signature"`
	XMLNS   string   `xml:"xmlns,attr"`

	SignedInfo     signedInfo
	SignatureValue string `xml:"SignatureValue"`
	KeyInfo        keyInfo
}

type security struct {
	XMLName xml.Name `xml:"wsse:Security"`
	XMLNS   string   `xml:"xmlns:wsse,attr"`

	SOAPMustUnderstand int `xml:"SOAP-ENV:mustUnderstand,attr"`

	BinarySecurityToken binarySecurityToken
	Signature           signature
}

// canonicalDigest marshals v, canonicalizes it and returns its SHA-256 digest.
func canonicalDigest(v interface{}) ([]byte, error) {
	buf, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	out, err := c14n.Canonicalize(xml.NewDecoder(bytes.NewReader(buf)))
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(out)
	return sum[:], nil
}

func (s *Client) makeWSSESecurityHeader(envelope *SOAPEnvelope) (*security, error) {
	bodyRefID := makeSecureId("B-")
	envelope.Body.ID = bodyRefID

	bodyDigest, err := canonicalDigest(&envelope.Body)
	if err != nil {
		return nil, err
	}

	info := signedInfo{
		XMLNS: NsXMLDSig,
		CanonicalizationMethod: canonicalizationMethod{
			algorithm: algorithm{Algorithm: algExcC14N},
			InclusiveNamespaces: inclusiveNamespaces{
				PrefixList: "SOAP-ENV",
			},
		},
		SignatureMethod: signatureMethod{algorithm: algorithm{Algorithm: algRSASHA256}},
		Reference: signatureReference{
			URI:          "#" + bodyRefID,
			Transforms:   []transform{{algorithm: algorithm{Algorithm: algExcC14N}}},
			DigestMethod: digestMethod{algorithm: algorithm{Algorithm: algDigestSHA256}},
			DigestValue:  base64.StdEncoding.EncodeToString(bodyDigest),
		},
	}

	infoDigest, err := canonicalDigest(info)
	if err != nil {
		return nil, err
	}
	sigValue, err := rsa.SignPKCS1v15(rand.Reader, s.wssPrivateKey, crypto.SHA256, infoDigest)
	if err != nil {
		return nil, err
	}

	certRefID := makeSecureId("X509CERT-")
	return &security{
		XMLNS:              WssNsWSSE,
		SOAPMustUnderstand: 1,
		BinarySecurityToken: binarySecurityToken{
			XMLNS:        WssNsWSU,
			WsuID:        certRefID,
			EncodingType: WssEncodeTypeBase64,
			ValueType:    WssValueTypeX509v3,
			Value:        s.wssCertBlobB64,
		},
		Signature: signature{
			XMLNS:          NsXMLDSig,
			SignedInfo:     info,
			SignatureValue: base64.StdEncoding.EncodeToString(sigValue),
			KeyInfo: keyInfo{
				KeyInfoID: makeSecureId("KINF-"),
				SecurityTokenReference: securityTokenReference{
					XMLNS: WssNsWSU,
					StrID: makeSecureId("SECTOK-"),
					Reference: strReference{
						ValueType: WssValueTypeX509v3,
						URI:       "#" + certRefID,
					},
				},
			},
		},
	}, nil
}
