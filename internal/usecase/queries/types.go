package queries

import (
	"time"

	"github.com/google/uuid"
)

// ReservationView is the full operator-facing record.
type ReservationView struct {
	ID                 uuid.UUID  `json:"id"`
	ReferenceID        string     `json:"referenceId"`
	FullName           string     `json:"fullName"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	OrganizationName   string     `json:"organizationName"`
	EventTitle         string     `json:"eventTitle"`
	EventDate          time.Time  `json:"eventDate"`
	Description        string     `json:"description"`
	Link               *string    `json:"link,omitempty"`
	Status             string     `json:"status"`
	StatusLabel        string     `json:"statusLabel"`
	PaymentStatus      string     `json:"paymentStatus"`
	PaymentDeadline    *time.Time `json:"paymentDeadline,omitempty"`
	PaymentAmountMinor *int64     `json:"paymentAmountMinor,omitempty"`
	PaymentReference   *string    `json:"paymentReference,omitempty"`
	PaymentURL         *string    `json:"paymentUrl,omitempty"`
	RejectionReason    *string    `json:"rejectionReason,omitempty"`
	PaidAt             *time.Time `json:"paidAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// TrackingView is what an anonymous caller holding a reference may see.
type TrackingView struct {
	ReferenceID      string    `json:"referenceId"`
	EventTitle       string    `json:"eventTitle"`
	OrganizationName string    `json:"organizationName"`
	Status           string    `json:"status"`
	StatusLabel      string    `json:"statusLabel"`
	PaymentStatus    string    `json:"paymentStatus"`
	EventDate        time.Time `json:"eventDate"`
}

type ListFilter struct {
	Status    *string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

type ListResult struct {
	Items []*ReservationView `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Pages int                `json:"pages"`
	Limit int                `json:"limit"`
}

type DashboardCounts struct {
	Total             int64
	EventsToday       int64
	UpcomingConfirmed int64
	UpcomingAwaiting  int64
	OverdueAwaiting   int64
}

type StatusCount struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
}

type DashboardView struct {
	Total             int64              `json:"total"`
	ByStatus          []StatusCount      `json:"byStatus"`
	EventsToday       int64              `json:"eventsToday"`
	UpcomingConfirmed int64              `json:"upcomingConfirmed"`
	UpcomingAwaiting  int64              `json:"upcomingAwaiting"`
	OverdueAwaiting   int64              `json:"overdueAwaiting"`
	LatestPending     []*ReservationView `json:"latestPending"`
	GeneratedAt       time.Time          `json:"generatedAt"`
}
