// Package paystack talks to a Paystack-compatible payment gateway.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"venue-reservation/internal/domain/reservation"
	"venue-reservation/internal/pkg/config"
	"venue-reservation/internal/pkg/errs"
	"venue-reservation/internal/usecase/commands"
)

const (
	initializePath  = "/transaction/initialize"
	maxResponseSize = 1 << 20
	SignatureHeader = "X-Paystack-Signature"
)

var ErrMalformedEvent = errs.Wrap(errs.ErrValidation, "malformed gateway event")

type Client struct {
	httpClient  *http.Client
	baseURL     string
	secretKey   string
	callbackURL string
}

func NewClient(cfg config.PaystackConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		secretKey:   cfg.SecretKey,
		callbackURL: cfg.CallbackURL,
	}
}

type initializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency,omitempty"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

func (c *Client) OpenSession(ctx context.Context, req commands.PaymentSessionRequest) (*reservation.GatewaySession, error) {
	callback := req.CallbackURL
	if callback == "" {
		callback = c.callbackURL
	}
	body, err := json.Marshal(initializeRequest{
		Email:       req.Email,
		Amount:      req.AmountMinor,
		Currency:    req.Currency,
		Reference:   req.Reference,
		CallbackURL: callback,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return nil, errs.Wrap(err, "encode initialize request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+initializePath, bytes.NewReader(body))
	if err != nil {
		return nil, gatewayErr(err, "build initialize request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, gatewayErr(err, "initialize transaction")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, gatewayErr(err, "read initialize response")
	}

	var out initializeResponse
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := out.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, errs.Mark(errs.Newf("gateway returned %d: %s", resp.StatusCode, msg), errs.ErrGateway)
	}
	if decodeErr != nil {
		return nil, gatewayErr(decodeErr, "decode initialize response")
	}
	if !out.Status {
		return nil, errs.Mark(errs.Newf("gateway declined session: %s", out.Message), errs.ErrGateway)
	}

	ref := out.Data.Reference
	if ref == "" {
		ref = req.Reference
	}
	slog.Debug("payment session opened", "gateway_reference", ref)
	return &reservation.GatewaySession{
		Reference:        ref,
		AuthorizationURL: out.Data.AuthorizationURL,
		AccessCode:       out.Data.AccessCode,
		AmountMinor:      req.AmountMinor,
	}, nil
}

// VerifyCallback checks the hex HMAC-SHA512 of the raw body keyed with the secret key.
func (c *Client) VerifyCallback(payload []byte, signature string) bool {
	// An empty key signs anything anyone can compute.
	if c.secretKey == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return false
	}
	return hmac.Equal(got, Sign(c.secretKey, payload))
}

type callbackEnvelope struct {
	Event string `json:"event"`
	Data  struct {
		Reference string          `json:"reference"`
		Amount    json.Number     `json:"amount"`
		Status    string          `json:"status"`
		Metadata  json.RawMessage `json:"metadata,omitempty"`
	} `json:"data"`
}

func (c *Client) ParseCallback(payload []byte) (*commands.PaymentEvent, error) {
	var env callbackEnvelope
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return nil, errs.Wrap(ErrMalformedEvent, err.Error())
	}
	if env.Event == "" {
		return nil, errs.Wrap(ErrMalformedEvent, "missing event")
	}

	evt := &commands.PaymentEvent{Type: env.Event, Reference: env.Data.Reference}
	if env.Event != commands.EventChargeSuccess {
		return evt, nil
	}
	if evt.Reference == "" {
		return nil, errs.Wrap(ErrMalformedEvent, "missing data.reference")
	}
	amount, err := env.Data.Amount.Int64()
	if err != nil {
		return nil, errs.Wrap(ErrMalformedEvent, "data.amount is not an integer")
	}
	evt.AmountMinor = amount
	return evt, nil
}

// Sign is exported for tests and local tooling that need to forge valid callbacks.
func Sign(secret string, payload []byte) []byte {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return mac.Sum(nil)
}

func SignHex(secret string, payload []byte) string {
	return hex.EncodeToString(Sign(secret, payload))
}

func gatewayErr(err error, msg string) error {
	return errs.Mark(errs.Wrap(err, msg), errs.ErrGateway)
}
