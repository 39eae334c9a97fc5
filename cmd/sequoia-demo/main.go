// Command sequoia-demo calls the Sequoia logistics API once and prints the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/cheyinl/sequoia-api/internal/logging"
	"github.com/cheyinl/sequoia-api/sequoia"
	"github.com/cheyinl/sequoia-api/wsdl"
)

const defaultReference = "S25/A0652"

var operations = map[string]bool{
	"delete":   true,
	"create":   true,
	"version":  true,
	"list":     true,
	"describe": true,
}

type args struct {
	op        string
	reference string
	typeName  string
	verbose   bool
	cfg       sequoia.Config
}

func parseArgs(fs *flag.FlagSet, argv []string) (args, error) {
	a := args{cfg: sequoia.DefaultConfig()}
	var keyFile, certFile string
	fs.StringVar(&a.op, "op", "delete", "operation: delete, version, create, list or describe")
	fs.StringVar(&a.reference, "ref", defaultReference, "shipment reference to delete")
	fs.StringVar(&a.typeName, "type", a.cfg.CreateRequestType, "type name to describe")
	fs.BoolVar(&a.verbose, "verbose", false, "log SOAP traffic")
	fs.StringVar(&a.cfg.WSDLURL, "wsdl", a.cfg.WSDLURL, "WSDL URL")
	fs.StringVar(&a.cfg.PlaceholderHost, "placeholder-host", a.cfg.PlaceholderHost, "host advertised by the WSDL, empty to disable the rewrite")
	fs.StringVar(&a.cfg.RealHost, "real-host", a.cfg.RealHost, "host the placeholder is rewritten to")
	fs.StringVar(&a.cfg.Username, "user", "", "WS-Security username")
	fs.StringVar(&a.cfg.Password, "password", "", "WS-Security password")
	fs.StringVar(&keyFile, "wss-key", "", "PEM RSA key used to sign the SOAP body")
	fs.StringVar(&certFile, "wss-cert", "", "PEM certificate matching -wss-key")
	fs.StringVar(&a.cfg.UserAgent, "user-agent", "", "User-Agent of SOAP calls")
	fs.DurationVar(&a.cfg.Timeout, "timeout", 30*time.Second, "HTTP request timeout")
	fs.DurationVar(&a.cfg.DialTimeout, "dial-timeout", 0, "TCP connect timeout")
	if err := fs.Parse(argv); err != nil {
		return a, err
	}

	if !operations[a.op] {
		return a, errors.Errorf("unknown operation %q", a.op)
	}
	if keyFile != "" || certFile != "" {
		if keyFile == "" || certFile == "" {
			return a, errors.New("-wss-key and -wss-cert must be given together")
		}
		if err := loadSigningKey(&a.cfg, keyFile, certFile); err != nil {
			return a, err
		}
	}
	return a, nil
}

func loadSigningKey(cfg *sequoia.Config, keyFile, certFile string) error {
	keyPEM, err := os.ReadFile(keyFile)
	if err != nil {
		return errors.Wrap(err, "read signing key")
	}
	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		return errors.Wrap(err, "read signing certificate")
	}
	cfg.SigningKey, cfg.SigningCert, err = sequoia.ParseSigningKeyPair(keyPEM, certPEM)
	return errors.Wrapf(err, "load %s", keyFile)
}

func main() {
	a, err := parseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.New(a.verbose)
	if err := run(context.Background(), a, logger, os.Stdout); err != nil {
		// operation errors were logged by the client
		if _, ok := sequoia.KindOf(err); !ok {
			logger.Error("sequoia-demo", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, a args, logger logging.Logger, out io.Writer) error {
	if !operations[a.op] {
		return fmt.Errorf("unknown operation %q", a.op)
	}
	client, err := sequoia.NewClient(ctx, a.cfg, logger)
	if err != nil {
		return err
	}

	var resp *sequoia.Response
	switch a.op {
	case "delete":
		resp, err = client.DeleteShipment(ctx, a.reference)
	case "create":
		resp, err = client.CreateShipment(ctx, nil)
	case "version":
		resp, err = client.GetApiVersion(ctx)
	case "list":
		printCatalog(out, client.Operations())
		return nil
	case "describe":
		sig, err := client.DescribeType(a.typeName)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, sig)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %s\n", resp.Operation, resp.ReturnValue)
	if resp.TransactionID != "" {
		fmt.Fprintf(out, "transaction: %s\n", resp.TransactionID)
	}
	return nil
}

func printCatalog(out io.Writer, catalog []wsdl.Endpoint) {
	for _, ep := range catalog {
		fmt.Fprintf(out, "Service: %s\n", ep.Service)
		fmt.Fprintf(out, "  Port: %s (%s)\n", ep.Port, ep.Address)
		for _, op := range ep.Operations {
			fmt.Fprintf(out, "    %s(%s) -> %s\n", op.Name, op.Input.Signature(), op.Output.Signature())
		}
	}
}
