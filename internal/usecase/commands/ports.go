package commands

import (
	"context"

	"venue-reservation/internal/domain/reservation"
)

// PaymentSessionRequest asks the gateway to open a checkout for one reservation.
type PaymentSessionRequest struct {
	Reference   string
	Email       string
	AmountMinor int64
	Currency    string
	CallbackURL string
	Metadata    map[string]string
}

const EventChargeSuccess = "charge.success"

// PaymentEvent is a verified, decoded gateway callback.
type PaymentEvent struct {
	Type        string
	Reference   string
	AmountMinor int64
}

type PaymentGateway interface {
	OpenSession(ctx context.Context, req PaymentSessionRequest) (*reservation.GatewaySession, error)
	VerifyCallback(payload []byte, signature string) bool
	ParseCallback(payload []byte) (*PaymentEvent, error)
}

// Notifier delivery is best effort; callers log and drop its errors.
type Notifier interface {
	Send(ctx context.Context, to, subject, html string) error
}
