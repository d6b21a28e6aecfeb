//go:build unit || e2e

package builder

import (
	"fmt"
	"time"

	"venue-reservation/internal/domain/reservation"
	reqdto "venue-reservation/internal/handler/dto/request"
	"venue-reservation/internal/pkg/clock"
	"venue-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

const (
	DefaultAmountMinor = int64(100000)
	DefaultPrefix      = "TECHHUB"
)

type ReservationBuilder struct {
	ID               uuid.UUID
	Prefix           string
	Year             int
	Sequence         int
	FullName         string
	Email            string
	Phone            string
	OrganizationName string
	EventTitle       string
	EventDate        time.Time
	Description      string
	Link             string
	Status           reservation.Status
	PaymentStatus    reservation.PaymentStatus
	PaymentDeadline  *time.Time
	Session          *reservation.GatewaySession
	RejectionReason  reservation.RejectionReason
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		ID:               uuid.New(),
		Prefix:           DefaultPrefix,
		Year:             2025,
		Sequence:         1,
		FullName:         "Ada Obi",
		Email:            "ada@example.com",
		Phone:            "+234 801 234 5678",
		OrganizationName: "Lagos Dev Circle",
		EventTitle:       "Go Meetup",
		EventDate:        time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC),
		Description:      "Monthly community meetup with two talks.",
		Status:           reservation.StatusPending,
		PaymentStatus:    reservation.PaymentPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithEmail(email string) *ReservationBuilder {
	b.Email = email
	return b
}

func (b *ReservationBuilder) WithEventDate(day time.Time) *ReservationBuilder {
	b.EventDate = clock.StartOfDay(day)
	return b
}

func (b *ReservationBuilder) WithSequence(seq int) *ReservationBuilder {
	b.Sequence = seq
	return b
}

// AwaitingPayment puts the record in the state an approval leaves it in.
func (b *ReservationBuilder) AwaitingPayment(deadline time.Time) *ReservationBuilder {
	b.Status = reservation.StatusAwaitingPayment
	b.PaymentDeadline = &deadline
	b.Session = b.session()
	b.RejectionReason = reservation.RejectionNone
	return b
}

// Lapsed is what the sweeper leaves behind: rejected, deadline cleared, session kept.
func (b *ReservationBuilder) Lapsed() *ReservationBuilder {
	b.Status = reservation.StatusRejected
	b.PaymentDeadline = nil
	b.Session = b.session()
	b.RejectionReason = reservation.RejectionDeadlineLapsed
	return b
}

func (b *ReservationBuilder) Confirmed(paidAt time.Time) *ReservationBuilder {
	b.Status = reservation.StatusPaymentConfirmed
	b.PaymentStatus = reservation.PaymentPaid
	b.PaymentDeadline = nil
	b.Session = b.session()
	b.PaidAt = &paidAt
	return b
}

func (b *ReservationBuilder) Rejected() *ReservationBuilder {
	b.Status = reservation.StatusRejected
	b.PaymentDeadline = nil
	b.RejectionReason = reservation.RejectionByOperator
	return b
}

func (b *ReservationBuilder) Cancelled() *ReservationBuilder {
	b.Status = reservation.StatusCancelled
	b.PaymentDeadline = nil
	return b
}

func (b *ReservationBuilder) GatewayReference() string {
	return fmt.Sprintf("RES-%s-%d", b.referenceString(), b.CreatedAt.UnixMilli())
}

func (b *ReservationBuilder) ReferenceID() reservation.ReferenceID {
	ref, err := reservation.NewReferenceID(b.Prefix, b.Year, b.Sequence)
	if err != nil {
		panic(err)
	}
	return ref
}

func (b *ReservationBuilder) Applicant() reservation.Applicant {
	return reservation.Applicant{
		FullName:         b.FullName,
		Email:            b.Email,
		Phone:            b.Phone,
		OrganizationName: b.OrganizationName,
		EventTitle:       b.EventTitle,
		EventDate:        b.EventDate,
		Description:      b.Description,
		Link:             b.Link,
	}
}

// Build methods
func (b *ReservationBuilder) BuildDomain() *reservation.Reservation {
	return reservation.ReconstructReservation(reservation.ReconstructParams{
		ID:              b.ID,
		ReferenceID:     b.ReferenceID(),
		Applicant:       b.Applicant(),
		Status:          b.Status,
		PaymentStatus:   b.PaymentStatus,
		PaymentDeadline: b.PaymentDeadline,
		Session:         b.Session,
		RejectionReason: b.RejectionReason,
		PaidAt:          b.PaidAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	})
}

func (b *ReservationBuilder) BuildSubmitRequest() reqdto.SubmitReservationRequest {
	return reqdto.SubmitReservationRequest{
		FullName:         b.FullName,
		Email:            b.Email,
		Phone:            b.Phone,
		OrganizationName: b.OrganizationName,
		EventTitle:       b.EventTitle,
		EventDate:        clock.FormatDay(b.EventDate),
		Description:      b.Description,
		Link:             b.Link,
	}
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	v := &queries.ReservationView{
		ID:               b.ID,
		ReferenceID:      b.referenceString(),
		FullName:         b.FullName,
		Email:            b.Email,
		Phone:            b.Phone,
		OrganizationName: b.OrganizationName,
		EventTitle:       b.EventTitle,
		EventDate:        b.EventDate,
		Description:      b.Description,
		Status:           b.Status.String(),
		StatusLabel:      b.Status.Label(),
		PaymentStatus:    b.PaymentStatus.String(),
		PaymentDeadline:  b.PaymentDeadline,
		PaidAt:           b.PaidAt,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if b.Link != "" {
		link := b.Link
		v.Link = &link
	}
	if b.Session != nil {
		amount, ref, url := b.Session.AmountMinor, b.Session.Reference, b.Session.AuthorizationURL
		v.PaymentAmountMinor, v.PaymentReference, v.PaymentURL = &amount, &ref, &url
	}
	if b.RejectionReason != reservation.RejectionNone {
		reason := b.RejectionReason.String()
		v.RejectionReason = &reason
	}
	return v
}

func (b *ReservationBuilder) BuildTracking() *queries.TrackingView {
	return &queries.TrackingView{
		ReferenceID:      b.referenceString(),
		EventTitle:       b.EventTitle,
		OrganizationName: b.OrganizationName,
		Status:           b.Status.String(),
		StatusLabel:      b.Status.Label(),
		PaymentStatus:    b.PaymentStatus.String(),
		EventDate:        b.EventDate,
	}
}

func (b *ReservationBuilder) session() *reservation.GatewaySession {
	if b.Session != nil {
		return b.Session
	}
	return &reservation.GatewaySession{
		Reference:        b.GatewayReference(),
		AuthorizationURL: "https://checkout.paystack.com/" + b.referenceString(),
		AccessCode:       "ac_" + b.referenceString(),
		AmountMinor:      DefaultAmountMinor,
	}
}

func (b *ReservationBuilder) referenceString() string {
	return fmt.Sprintf("%s-%04d-%03d", b.Prefix, b.Year, b.Sequence)
}
