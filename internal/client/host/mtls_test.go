package host

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// generateCACert creates a self-signed CA certificate and key.
func generateCACert(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Test CA"},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	return certPEM, keyPEM
}

func writeCA(t *testing.T) string {
	t.Helper()
	caPEM, _ := generateCACert(t)
	caPath := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(caPath, caPEM, 0600); err != nil {
		t.Fatalf("failed to write CA file: %v", err)
	}
	return caPath
}

func TestRegister_ReadCAError(t *testing.T) {
	err := Register("http://example.com", "user", "nonexistent.pem", t.TempDir())
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected file not exist error, got %v", err)
	}
}

func TestRegister_InvalidCA(t *testing.T) {
	caPath := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(caPath, []byte("invalid pem"), 0600); err != nil {
		t.Fatalf("failed to write CA file: %v", err)
	}
	err := Register("http://example.com", "user", caPath, t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "failed to parse CA cert") {
		t.Errorf("expected parse CA error, got %v", err)
	}
}

func TestRegister_ServerError(t *testing.T) {
	caPath := writeCA(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "user already exists", http.StatusConflict)
	}))
	defer ts.Close()

	err := Register(ts.URL, "user", caPath, t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "server error: user already exists") {
		t.Errorf("expected server error message, got %v", err)
	}
}

func TestRegister_Success(t *testing.T) {
	caPath := writeCA(t)
	var gotPath, gotLogin string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req struct {
			Login string `json:"login"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotLogin = req.Login
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"cert": "certdata", "key": "keydata"})
	}))
	defer ts.Close()

	dir := t.TempDir()
	if err := Register(ts.URL, "alice", caPath, dir); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if gotPath != apiRegister || gotLogin != "alice" {
		t.Errorf("request = %s %q; want %s %q", gotPath, gotLogin, apiRegister, "alice")
	}
	crt, err := os.ReadFile(filepath.Join(dir, "client.crt"))
	if err != nil || string(crt) != "certdata" {
		t.Errorf("unexpected cert file content: %s, err: %v", crt, err)
	}
	key, err := os.ReadFile(filepath.Join(dir, "client.key"))
	if err != nil || string(key) != "keydata" {
		t.Errorf("unexpected key file content: %s, err: %v", key, err)
	}
}

func TestLoadClientCertificate(t *testing.T) {
	certPEM, keyPEM := generateCACert(t)

	tmp := t.TempDir()
	certPath := filepath.Join(tmp, "client.crt")
	keyPath := filepath.Join(tmp, "client.key")
	caPath := filepath.Join(tmp, "ca.pem")
	for path, data := range map[string][]byte{certPath: certPEM, keyPath: keyPEM, caPath: certPEM} {
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	client, err := LoadClientCertificate(certPath, keyPath, caPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	tcfg := client.Transport.(*http.Transport).TLSClientConfig
	if len(tcfg.Certificates) != 1 {
		t.Errorf("expected 1 client certificate, got %d", len(tcfg.Certificates))
	}
	found := false
	for _, subj := range tcfg.RootCAs.Subjects() {
		if bytes.Contains(subj, []byte("Test CA")) {
			found = true
			break
		}
	}
	if !found {
		t.Error("CA certificate not found in RootCAs")
	}
}

func TestLoadClientCertificate_MissingKey(t *testing.T) {
	_, err := LoadClientCertificate("missing.crt", "missing.key", "missing.pem")
	if err == nil || !strings.Contains(err.Error(), "failed to load client cert/key") {
		t.Errorf("expected load error, got %v", err)
	}
}
