// Package sequoiatest runs a fake Sequoia SOAP service for tests.
//
// The service publishes a WCF-style WSDL split over wsdl:import and
// xsd:import documents. Every address inside those documents uses the
// placeholder host, so clients only reach the server through a host rewrite.
package sequoiatest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"github.com/gorilla/mux"
)

// PlaceholderHost is the host:port written into the published documents.
const PlaceholderHost = "localhost:9010"

// Request is a SOAP call received by the server.
type Request struct {
	Action string
	Header http.Header
	Body   string
}

// Server is a fake Sequoia service.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	fetches  []string
	faults   map[string]string
	values   map[string]string
}

// NewServer starts a fake service. Close it when done.
func NewServer() *Server {
	s := &Server{
		faults: make(map[string]string),
		values: map[string]string{
			ActionGetApiVersion:  "3.2.1",
			ActionCreateShipment: "S25/A0700",
			ActionDeleteShipment: "Deleted",
		},
	}

	r := mux.NewRouter()
	r.HandleFunc(ServicePath, s.handleWSDL).Methods(http.MethodGet).MatcherFunc(hasQuery("wsdl"))
	r.HandleFunc(ServicePath, s.handleXSD).Methods(http.MethodGet).Queries("xsd", "{name}")
	r.HandleFunc(ServicePath, s.handleCall).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	return s
}

func hasQuery(key string) mux.MatcherFunc {
	return func(r *http.Request, _ *mux.RouteMatch) bool {
		_, ok := r.URL.Query()[key]
		return ok
	}
}

// Host returns the real host:port the server listens on.
func (s *Server) Host() string {
	u, _ := url.Parse(s.URL)
	return u.Host
}

// WSDLURL returns the WSDL address as published, using the placeholder host.
func (s *Server) WSDLURL() string {
	return "http://" + PlaceholderHost + ServicePath + "?wsdl"
}

// Fail makes every call with the given SOAP action answer with a fault.
func (s *Server) Fail(action, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[action] = reason
}

// SetReturnValue changes the ReturnValue answered for action.
func (s *Server) SetReturnValue(action, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[action] = value
}

// Requests returns the SOAP calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Fetches returns the request URIs of every document served so far.
func (s *Server) Fetches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetches...)
}

func (s *Server) serveDocument(w http.ResponseWriter, r *http.Request, doc string) {
	s.mu.Lock()
	s.fetches = append(s.fetches, r.URL.RequestURI())
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/xml; charset=UTF-8")
	_, _ = io.WriteString(w, strings.ReplaceAll(doc, "{{HOST}}", PlaceholderHost))
}

func (s *Server) handleWSDL(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("wsdl") {
	case "":
		s.serveDocument(w, r, rootWSDL)
	case "wsdl0":
		s.serveDocument(w, r, contractWSDL)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleXSD(w http.ResponseWriter, r *http.Request) {
	switch mux.Vars(r)["name"] {
	case "xsd0":
		s.serveDocument(w, r, serviceXSD)
	case "xsd2":
		s.serveDocument(w, r, contractXSD)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	action := strings.Trim(r.Header.Get("SOAPAction"), `"`)

	s.mu.Lock()
	s.requests = append(s.requests, Request{Action: action, Header: r.Header.Clone(), Body: string(data)})
	reason, failing := s.faults[action]
	value, known := s.values[action]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	if !known {
		reason, failing = "The message with Action '"+action+"' cannot be processed at the receiver", true
	}
	if failing {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, strings.ReplaceAll(faultEnvelope, "{{REASON}}", reason))
		return
	}

	op := action[strings.LastIndexByte(action, '/')+1:]
	resp := strings.NewReplacer(
		"{{OP}}", op,
		"{{VALUE}}", value,
		"{{TX}}", transactionID(data),
	).Replace(responseEnvelope)
	_, _ = io.WriteString(w, resp)
}

// transactionID echoes the TransactionId sent in a request, if any.
func transactionID(envelope []byte) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(envelope); err != nil {
		return ""
	}
	if el := doc.FindElement("//TransactionId"); el != nil {
		return el.Text()
	}
	return ""
}

// Envelope parses a captured request body.
func (r Request) Envelope() (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(r.Body); err != nil {
		return nil, err
	}
	return doc, nil
}
