// Package notification delivers rendered notices to requesters.
package notification

import (
	"time"
)

// Envelope is the queued form of one email.
type Envelope struct {
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	HTML     string    `json:"html"`
	QueuedAt time.Time `json:"queued_at"`
}
