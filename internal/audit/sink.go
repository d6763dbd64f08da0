// Package audit posts completed intake records to a spreadsheet-style
// webhook. The sink is best-effort: failures are logged, never surfaced.
package audit

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/remedytax/intake-engine/internal/model"
)

// Sink posts form snapshots to a fixed webhook URL. A Sink with an empty URL
// is a no-op.
type Sink struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

// New builds a sink. The webhook is non-critical, so the timeout is short.
func New(url string, log *zap.Logger) *Sink {
	return &Sink{
		url: url,
		log: log,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Record posts the form snapshot without blocking the caller. The response is
// discarded; only transport problems are logged.
func (s *Sink) Record(sessionID string, f *model.FormState) {
	if s.url == "" {
		return
	}
	payload, err := json.Marshal(struct {
		SessionID string           `json:"sessionId"`
		Form      *model.FormState `json:"form"`
	}{sessionID, f})
	if err != nil {
		s.log.Warn("audit record marshal failed", zap.Error(err), zap.String("session", sessionID))
		return
	}
	go s.post(sessionID, payload)
}

func (s *Sink) post(sessionID string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), s.client.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		s.log.Warn("audit webhook request failed", zap.Error(err), zap.String("session", sessionID))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("audit webhook unreachable", zap.Error(err), zap.String("session", sessionID))
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		s.log.Warn("audit webhook rejected record",
			zap.Int("status", resp.StatusCode), zap.String("session", sessionID))
	}
}
