package response

import (
	"time"

	"venue-reservation/internal/pkg/clock"
	"venue-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ReferenceID        string     `json:"referenceId"`
	FullName           string     `json:"fullName"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	OrganizationName   string     `json:"organizationName"`
	EventTitle         string     `json:"eventTitle"`
	EventDate          string     `json:"eventDate"`
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

// SubmittedResponse is what the applicant gets back; the reference is their only handle.
type SubmittedResponse struct {
	ID          uuid.UUID `json:"id"`
	ReferenceID string    `json:"referenceId"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"statusLabel"`
	EventDate   string    `json:"eventDate"`
}

type TrackingResponse struct {
	ReferenceID      string `json:"referenceId"`
	EventTitle       string `json:"eventTitle"`
	OrganizationName string `json:"organizationName"`
	EventDate        string `json:"eventDate"`
	Status           string `json:"status"`
	StatusLabel      string `json:"statusLabel"`
	PaymentStatus    string `json:"paymentStatus"`
}

type ReservationListResponse struct {
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Pages int                    `json:"pages"`
	Limit int                    `json:"limit"`
	Items []*ReservationResponse `json:"items"`
}

type DashboardResponse struct {
	Total             int64                  `json:"total"`
	ByStatus          []queries.StatusCount  `json:"byStatus"`
	EventsToday       int64                  `json:"eventsToday"`
	UpcomingConfirmed int64                  `json:"upcomingConfirmed"`
	UpcomingAwaiting  int64                  `json:"upcomingAwaiting"`
	OverdueAwaiting   int64                  `json:"overdueAwaiting"`
	LatestPending     []*ReservationResponse `json:"latestPending"`
	GeneratedAt       time.Time              `json:"generatedAt"`
}

type SweepResponse struct {
	Expired int `json:"expired"`
}

type WebhookAckResponse struct {
	Received bool `json:"received"`
}

func FromReservationView(rm *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:                 rm.ID,
		ReferenceID:        rm.ReferenceID,
		FullName:           rm.FullName,
		Email:              rm.Email,
		Phone:              rm.Phone,
		OrganizationName:   rm.OrganizationName,
		EventTitle:         rm.EventTitle,
		EventDate:          clock.FormatDay(rm.EventDate),
		Description:        rm.Description,
		Link:               rm.Link,
		Status:             rm.Status,
		StatusLabel:        rm.StatusLabel,
		PaymentStatus:      rm.PaymentStatus,
		PaymentDeadline:    rm.PaymentDeadline,
		PaymentAmountMinor: rm.PaymentAmountMinor,
		PaymentReference:   rm.PaymentReference,
		PaymentURL:         rm.PaymentURL,
		RejectionReason:    rm.RejectionReason,
		PaidAt:             rm.PaidAt,
		CreatedAt:          rm.CreatedAt,
		UpdatedAt:          rm.UpdatedAt,
	}
}

func FromReservationViews(views []*queries.ReservationView) []*ReservationResponse {
	out := make([]*ReservationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromReservationView(v))
	}
	return out
}

func SubmittedFromView(rm *queries.ReservationView) *SubmittedResponse {
	return &SubmittedResponse{
		ID:          rm.ID,
		ReferenceID: rm.ReferenceID,
		Status:      rm.Status,
		StatusLabel: rm.StatusLabel,
		EventDate:   clock.FormatDay(rm.EventDate),
	}
}

func FromTrackingView(v *queries.TrackingView) *TrackingResponse {
	return &TrackingResponse{
		ReferenceID:      v.ReferenceID,
		EventTitle:       v.EventTitle,
		OrganizationName: v.OrganizationName,
		EventDate:        clock.FormatDay(v.EventDate),
		Status:           v.Status,
		StatusLabel:      v.StatusLabel,
		PaymentStatus:    v.PaymentStatus,
	}
}

func FromListResult(r *queries.ListResult) *ReservationListResponse {
	return &ReservationListResponse{
		Total: r.Total,
		Page:  r.Page,
		Pages: r.Pages,
		Limit: r.Limit,
		Items: FromReservationViews(r.Items),
	}
}

func FromDashboardView(v *queries.DashboardView) *DashboardResponse {
	return &DashboardResponse{
		Total:             v.Total,
		ByStatus:          v.ByStatus,
		EventsToday:       v.EventsToday,
		UpcomingConfirmed: v.UpcomingConfirmed,
		UpcomingAwaiting:  v.UpcomingAwaiting,
		OverdueAwaiting:   v.OverdueAwaiting,
		LatestPending:     FromReservationViews(v.LatestPending),
		GeneratedAt:       v.GeneratedAt,
	}
}
