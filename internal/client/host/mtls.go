// Package host connects the settings client to the passphrase service.
package host

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	apiRegister         = "/api/register"
	apiLogin            = "/api/login"
	apiPassphrase       = "/api/passphrase"
	apiPassphraseVerify = "/api/passphrase/verify"
)

func loadCAPool(caPath string) (*x509.CertPool, error) {
	caCert, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("failed to parse CA cert")
	}
	return caPool, nil
}

// Register asks the service to enroll login and writes the issued
// certificate and key into dir as client.crt and client.key.
func Register(baseURL, login, caPath, dir string) error {
	caPool, err := loadCAPool(caPath)
	if err != nil {
		return err
	}
	client := &http.Client{
		Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: caPool, MinVersion: tls.VersionTLS12}},
		Timeout:   10 * time.Second,
	}

	b, _ := json.Marshal(map[string]string{"login": login})
	resp, err := client.Post(baseURL+apiRegister, "application/json", bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("register failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error: %s", bytes.TrimSpace(data))
	}

	var certData struct {
		Cert string `json:"cert"`
		Key  string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&certData); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "client.crt"), []byte(certData.Cert), 0600); err != nil {
		return fmt.Errorf("failed to save client.crt: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "client.key"), []byte(certData.Key), 0600); err != nil {
		return fmt.Errorf("failed to save client.key: %w", err)
	}
	return nil
}

// LoadClientCertificate builds an HTTP client presenting the given client
// certificate and trusting the given CA.
func LoadClientCertificate(certFile, keyFile, caFile string) (*http.Client, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client cert/key: %w", err)
	}
	caPool, err := loadCAPool(caFile)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			Certificates: []tls.Certificate{cert},
			RootCAs:      caPool,
			MinVersion:   tls.VersionTLS12,
		},
	}
	return &http.Client{Transport: transport, Timeout: 10 * time.Second}, nil
}
