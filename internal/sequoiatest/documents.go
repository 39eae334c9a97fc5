package sequoiatest

// Namespaces used by the fake service documents.
const (
	ServiceNamespace  = "http://tempuri.org/"
	ContractNamespace = "http://schemas.datacontract.org/2004/07/Asm.Sequoia.Api.Contracts"
	RootNamespace     = "asm.org.uk/Sequoia"
)

// ServicePath is the path the fake service answers on.
const ServicePath = "/Asm/Sequoia/SequoiaApiSoapService"

// SOAP actions of the fake service.
const (
	ActionGetApiVersion  = "http://tempuri.org/ISequoiaApiSoapService/GetApiVersion"
	ActionCreateShipment = "http://tempuri.org/ISequoiaApiSoapService/CreateShipment"
	ActionDeleteShipment = "http://tempuri.org/ISequoiaApiSoapService/DeleteShipment"
)

// rootWSDL declares the binding and service and imports the contract WSDL,
// the way WCF splits documents when the service namespace differs from the contract's.
const rootWSDL = `<?xml version="1.0" encoding="utf-8"?>
<wsdl:definitions name="SequoiaApiSoapService" targetNamespace="asm.org.uk/Sequoia"
    xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/"
    xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
    xmlns:tns="asm.org.uk/Sequoia"
    xmlns:i0="http://tempuri.org/">
  <wsdl:import namespace="http://tempuri.org/" location="http://{{HOST}}/Asm/Sequoia/SequoiaApiSoapService?wsdl=wsdl0"/>
  <wsdl:types/>
  <wsdl:binding name="BasicHttpBinding_ISequoiaApiSoapService" type="i0:ISequoiaApiSoapService">
    <soap:binding transport="http://schemas.xmlsoap.org/soap/http"/>
    <wsdl:operation name="GetApiVersion">
      <soap:operation soapAction="http://tempuri.org/ISequoiaApiSoapService/GetApiVersion" style="document"/>
      <wsdl:input><soap:body use="literal"/></wsdl:input>
      <wsdl:output><soap:body use="literal"/></wsdl:output>
    </wsdl:operation>
    <wsdl:operation name="CreateShipment">
      <soap:operation soapAction="http://tempuri.org/ISequoiaApiSoapService/CreateShipment" style="document"/>
      <wsdl:input><soap:body use="literal"/></wsdl:input>
      <wsdl:output><soap:body use="literal"/></wsdl:output>
    </wsdl:operation>
    <wsdl:operation name="DeleteShipment">
      <soap:operation soapAction="http://tempuri.org/ISequoiaApiSoapService/DeleteShipment" style="document"/>
      <wsdl:input><soap:body use="literal"/></wsdl:input>
      <wsdl:output><soap:body use="literal"/></wsdl:output>
    </wsdl:operation>
  </wsdl:binding>
  <wsdl:service name="SequoiaApiSoapService">
    <wsdl:port name="BasicHttpBinding_ISequoiaApiSoapService" binding="tns:BasicHttpBinding_ISequoiaApiSoapService">
      <soap:address location="http://{{HOST}}/Asm/Sequoia/SequoiaApiSoapService"/>
    </wsdl:port>
  </wsdl:service>
</wsdl:definitions>`

const contractWSDL = `<?xml version="1.0" encoding="utf-8"?>
<wsdl:definitions targetNamespace="http://tempuri.org/"
    xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/"
    xmlns:xsd="http://www.w3.org/2001/XMLSchema"
    xmlns:tns="http://tempuri.org/">
  <wsdl:types>
    <xsd:schema targetNamespace="http://tempuri.org/Imports">
      <xsd:import schemaLocation="http://{{HOST}}/Asm/Sequoia/SequoiaApiSoapService?xsd=xsd0" namespace="http://tempuri.org/"/>
      <xsd:import schemaLocation="http://{{HOST}}/Asm/Sequoia/SequoiaApiSoapService?xsd=xsd2" namespace="http://schemas.datacontract.org/2004/07/Asm.Sequoia.Api.Contracts"/>
    </xsd:schema>
  </wsdl:types>
  <wsdl:message name="ISequoiaApiSoapService_GetApiVersion_InputMessage">
    <wsdl:part name="parameters" element="tns:GetApiVersion"/>
  </wsdl:message>
  <wsdl:message name="ISequoiaApiSoapService_GetApiVersion_OutputMessage">
    <wsdl:part name="parameters" element="tns:GetApiVersionResponse"/>
  </wsdl:message>
  <wsdl:message name="ISequoiaApiSoapService_CreateShipment_InputMessage">
    <wsdl:part name="parameters" element="tns:CreateShipment"/>
  </wsdl:message>
  <wsdl:message name="ISequoiaApiSoapService_CreateShipment_OutputMessage">
    <wsdl:part name="parameters" element="tns:CreateShipmentResponse"/>
  </wsdl:message>
  <wsdl:message name="ISequoiaApiSoapService_DeleteShipment_InputMessage">
    <wsdl:part name="parameters" element="tns:DeleteShipment"/>
  </wsdl:message>
  <wsdl:message name="ISequoiaApiSoapService_DeleteShipment_OutputMessage">
    <wsdl:part name="parameters" element="tns:DeleteShipmentResponse"/>
  </wsdl:message>
  <wsdl:portType name="ISequoiaApiSoapService">
    <wsdl:operation name="GetApiVersion">
      <wsdl:input message="tns:ISequoiaApiSoapService_GetApiVersion_InputMessage"/>
      <wsdl:output message="tns:ISequoiaApiSoapService_GetApiVersion_OutputMessage"/>
    </wsdl:operation>
    <wsdl:operation name="CreateShipment">
      <wsdl:input message="tns:ISequoiaApiSoapService_CreateShipment_InputMessage"/>
      <wsdl:output message="tns:ISequoiaApiSoapService_CreateShipment_OutputMessage"/>
    </wsdl:operation>
    <wsdl:operation name="DeleteShipment">
      <wsdl:input message="tns:ISequoiaApiSoapService_DeleteShipment_InputMessage"/>
      <wsdl:output message="tns:ISequoiaApiSoapService_DeleteShipment_OutputMessage"/>
    </wsdl:operation>
  </wsdl:portType>
</wsdl:definitions>`

// serviceXSD declares the wrapper elements and imports the data contracts.
const serviceXSD = `<?xml version="1.0" encoding="utf-8"?>
<xs:schema elementFormDefault="qualified" targetNamespace="http://tempuri.org/" xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:import schemaLocation="http://{{HOST}}/Asm/Sequoia/SequoiaApiSoapService?xsd=xsd2" namespace="http://schemas.datacontract.org/2004/07/Asm.Sequoia.Api.Contracts"/>
  <xs:element name="GetApiVersion">
    <xs:complexType><xs:sequence/></xs:complexType>
  </xs:element>
  <xs:element name="GetApiVersionResponse">
    <xs:complexType>
      <xs:sequence>
        <xs:element minOccurs="0" name="GetApiVersionResult" nillable="true" type="q1:ApiResponse" xmlns:q1="http://schemas.datacontract.org/2004/07/Asm.Sequoia.Api.Contracts"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
  <xs:element name="CreateShipment">
    <xs:complexType>
      <xs:sequence>
        <xs:element minOccurs="0" name="createRequest" nillable="true" type="q2:CreateRequest" xmlns:q2="http://schemas.datacontract.org/2004/07/Asm.Sequoia.Api.Contracts"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
  <xs:element name="CreateShipmentResponse">
    <xs:complexType>
      <xs:sequence>
        <xs:element minOccurs="0" name="CreateShipmentResult" nillable="true" type="q3:ApiResponse" xmlns:q3="http://schemas.datacontract.org/2004/07/Asm.Sequoia.Api.Contracts"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
  <xs:element name="DeleteShipment">
    <xs:complexType>
      <xs:sequence>
        <xs:element minOccurs="0" name="deleteRequest" nillable="true" type="q4:DeleteRequest" xmlns:q4="http://schemas.datacontract.org/2004/07/Asm.Sequoia.Api.Contracts"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
  <xs:element name="DeleteShipmentResponse">
    <xs:complexType>
      <xs:sequence>
        <xs:element minOccurs="0" name="DeleteShipmentResult" nillable="true" type="q5:ApiResponse" xmlns:q5="http://schemas.datacontract.org/2004/07/Asm.Sequoia.Api.Contracts"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

// contractXSD declares the request data contracts. Both requests extend
// RequestBase, so their common fields come from the base type.
const contractXSD = `<?xml version="1.0" encoding="utf-8"?>
<xs:schema elementFormDefault="qualified" targetNamespace="http://schemas.datacontract.org/2004/07/Asm.Sequoia.Api.Contracts"
    xmlns:xs="http://www.w3.org/2001/XMLSchema" xmlns:tns="http://schemas.datacontract.org/2004/07/Asm.Sequoia.Api.Contracts">
  <xs:complexType name="RequestBase">
    <xs:sequence>
      <xs:element minOccurs="0" name="ImpersonationContextId" nillable="true" type="xs:string"/>
      <xs:element minOccurs="0" name="TransactionId" nillable="true" type="xs:string"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="CreateRequest">
    <xs:complexContent mixed="false">
      <xs:extension base="tns:RequestBase">
        <xs:sequence>
          <xs:element minOccurs="0" name="Content" nillable="true" type="xs:string"/>
        </xs:sequence>
      </xs:extension>
    </xs:complexContent>
  </xs:complexType>
  <xs:complexType name="DeleteRequest">
    <xs:complexContent mixed="false">
      <xs:extension base="tns:RequestBase">
        <xs:sequence>
          <xs:element minOccurs="0" name="Content" nillable="true" type="xs:string"/>
        </xs:sequence>
      </xs:extension>
    </xs:complexContent>
  </xs:complexType>
  <xs:complexType name="ApiResponse">
    <xs:sequence>
      <xs:element minOccurs="0" name="ReturnValue" nillable="true" type="xs:string"/>
      <xs:element minOccurs="0" name="Success" type="xs:boolean"/>
      <xs:element minOccurs="0" name="TransactionId" nillable="true" type="xs:string"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>`

const responseEnvelope = `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>` +
	`<{{OP}}Response xmlns="http://tempuri.org/">` +
	`<{{OP}}Result xmlns:a="http://schemas.datacontract.org/2004/07/Asm.Sequoia.Api.Contracts" xmlns:i="http://www.w3.org/2001/XMLSchema-instance">` +
	`<a:ReturnValue>{{VALUE}}</a:ReturnValue><a:Success>true</a:Success><a:TransactionId>{{TX}}</a:TransactionId>` +
	`</{{OP}}Result></{{OP}}Response></s:Body></s:Envelope>`

const faultEnvelope = `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>` +
	`<s:Fault><faultcode>s:Client</faultcode><faultstring xml:lang="en-GB">{{REASON}}</faultstring></s:Fault>` +
	`</s:Body></s:Envelope>`
