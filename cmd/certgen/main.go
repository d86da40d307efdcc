// Package main bootstraps the mutual-TLS material for keeperpass: a CA,
// a server certificate and, optionally, a client certificate.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/atinyakov/keeperpass/internal/certgen"
)

// options controls which files are generated.
type options struct {
	dir    string
	hosts  string
	client string
}

func main() {
	var opts options
	flag.StringVar(&opts.dir, "dir", "certs", "output directory")
	flag.StringVar(&opts.hosts, "hosts", "localhost,127.0.0.1", "comma-separated server hosts")
	flag.StringVar(&opts.client, "client", "", "also issue a client certificate for this login")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Certificates generated into %s\n", opts.dir)
}

func run(opts options) error {
	ca, err := certgen.NewSelfSignedCA("keeperpass CA")
	if err != nil {
		return err
	}
	caKey, err := ca.KeyPEM()
	if err != nil {
		return err
	}
	if err := certgen.WritePair(
		filepath.Join(opts.dir, "ca.crt"), filepath.Join(opts.dir, "ca.key"),
		ca.CertPEM(), caKey,
	); err != nil {
		return err
	}

	var hosts []string
	for _, h := range strings.Split(opts.hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	serverCert, serverKey, err := ca.IssueServer(hosts...)
	if err != nil {
		return fmt.Errorf("server cert: %w", err)
	}
	if err := certgen.WritePair(
		filepath.Join(opts.dir, "server.crt"), filepath.Join(opts.dir, "server.key"),
		serverCert, serverKey,
	); err != nil {
		return err
	}

	if opts.client == "" {
		return nil
	}
	clientCert, clientKey, err := ca.IssueClient(opts.client)
	if err != nil {
		return fmt.Errorf("client cert: %w", err)
	}
	return certgen.WritePair(
		filepath.Join(opts.dir, "client.crt"), filepath.Join(opts.dir, "client.key"),
		clientCert, clientKey,
	)
}
