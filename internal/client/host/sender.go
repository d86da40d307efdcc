package host

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultSendTimeout = 10 * time.Second

// Sender delivers accepted passphrases to the service. SetPassphrase
// returns immediately; the request runs in its own goroutine and its
// outcome is only logged.
type Sender struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	log     *zap.Logger

	wg sync.WaitGroup
}

// NewSender creates a Sender. A nil logger discards output.
func NewSender(client *http.Client, baseURL string, log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{client: client, baseURL: baseURL, timeout: defaultSendTimeout, log: log}
}

// SetPassphrase sends passphrase to the service without waiting.
func (s *Sender) SetPassphrase(passphrase string) {
	body, err := json.Marshal(map[string]string{"passphrase": passphrase})
	if err != nil {
		s.log.Error("encode passphrase request", zap.Error(err))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.send(ctx, body)
	}()
}

func (s *Sender) send(ctx context.Context, body []byte) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+apiPassphrase, bytes.NewReader(body))
	if err != nil {
		s.log.Error("build passphrase request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("set passphrase failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		s.log.Error("set passphrase rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", bytes.TrimSpace(data)))
		return
	}
	s.log.Info("passphrase stored")
}

// Wait blocks until every request issued so far has finished. It is used
// on shutdown so that a passphrase saved right before quitting is not lost.
func (s *Sender) Wait() {
	s.wg.Wait()
}
