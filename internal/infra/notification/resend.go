package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"venue-reservation/internal/pkg/config"
	"venue-reservation/internal/pkg/errs"
)

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
}

func NewResendMailer(cfg config.NotifyConfig) *ResendMailer {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ResendMailer{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.ResendBaseURL, "/"),
		apiKey:     cfg.ResendAPIKey,
		from:       cfg.ResendFrom,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *ResendMailer) Send(ctx context.Context, to, subject, html string) error {
	body, err := json.Marshal(resendRequest{From: m.from, To: []string{to}, Subject: subject, HTML: html})
	if err != nil {
		return errs.Wrap(err, "encode email")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "build email request")
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return errs.Wrap(err, "send email")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errs.Newf("mail provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
