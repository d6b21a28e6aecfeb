package reservation

import (
	"time"

	"github.com/google/uuid"
)

// Reservation is a request for exclusive use of the venue on one calendar day.
//
// Lifecycle:
//
//	pending -> awaiting_payment -> payment_confirmed
//	pending | awaiting_payment -> rejected | cancelled
//	rejected | cancelled -> pending (resubmit)
//	rejected(payment_deadline_lapsed) -> payment_confirmed (late payment, day still free)
type Reservation struct {
	id              uuid.UUID
	referenceID     ReferenceID
	applicant       Applicant
	status          Status
	paymentStatus   PaymentStatus
	paymentDeadline *time.Time
	session         *GatewaySession
	rejectionReason RejectionReason
	paidAt          *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

func NewReservation(ref ReferenceID, applicant Applicant, now time.Time) *Reservation {
	return &Reservation{
		id:            uuid.New(),
		referenceID:   ref,
		applicant:     applicant,
		status:        StatusPending,
		paymentStatus: PaymentPending,
		createdAt:     now,
		updatedAt:     now,
	}
}

type ReconstructParams struct {
	ID              uuid.UUID
	ReferenceID     ReferenceID
	Applicant       Applicant
	Status          Status
	PaymentStatus   PaymentStatus
	PaymentDeadline *time.Time
	Session         *GatewaySession
	RejectionReason RejectionReason
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func ReconstructReservation(p ReconstructParams) *Reservation {
	return &Reservation{
		id:              p.ID,
		referenceID:     p.ReferenceID,
		applicant:       p.Applicant,
		status:          p.Status,
		paymentStatus:   p.PaymentStatus,
		paymentDeadline: p.PaymentDeadline,
		session:         p.Session,
		rejectionReason: p.RejectionReason,
		paidAt:          p.PaidAt,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}
}

// CanApprove is checked before a gateway session is opened for the record.
func (r *Reservation) CanApprove() error {
	if r.status != StatusPending {
		return invalidState("approve", r.status)
	}
	return nil
}

func (r *Reservation) Approve(session GatewaySession, deadline, now time.Time) error {
	if err := r.CanApprove(); err != nil {
		return err
	}
	if err := session.Validate(); err != nil {
		return err
	}
	r.status = StatusAwaitingPayment
	r.paymentDeadline = &deadline
	r.session = &session
	r.rejectionReason = RejectionNone
	r.touch(now)
	return nil
}

// Reject is refused once payment has been received: a paid record must stay confirmed.
func (r *Reservation) Reject(reason RejectionReason, now time.Time) error {
	if r.status != StatusPending && r.status != StatusAwaitingPayment {
		return invalidState("reject", r.status)
	}
	r.status = StatusRejected
	r.paymentDeadline = nil
	r.rejectionReason = reason
	r.touch(now)
	return nil
}

func (r *Reservation) CanRequestModifications() error {
	if r.status != StatusPending {
		return invalidState("request modifications for", r.status)
	}
	return nil
}

func (r *Reservation) Cancel(now time.Time) error {
	if (r.status != StatusPending && r.status != StatusAwaitingPayment) || r.paymentStatus == PaymentPaid {
		return invalidState("cancel", r.status)
	}
	r.status = StatusCancelled
	r.paymentDeadline = nil
	r.touch(now)
	return nil
}

// Resubmit re-opens a rejected or cancelled request with the given details.
// The gateway session is dropped so callbacks for it no longer match.
func (r *Reservation) Resubmit(applicant Applicant, now time.Time) error {
	if !r.status.IsTerminal() {
		return invalidState("resubmit", r.status)
	}
	r.applicant = applicant
	r.status = StatusPending
	r.paymentStatus = PaymentPending
	r.paymentDeadline = nil
	r.session = nil
	r.rejectionReason = RejectionNone
	r.paidAt = nil
	r.touch(now)
	return nil
}

// ClassifySettlement decides how a successful payment for this record must be handled.
func (r *Reservation) ClassifySettlement(now time.Time) (Settlement, error) {
	switch {
	case r.status == StatusPaymentConfirmed:
		return SettlementAlreadyPaid, nil
	case r.status == StatusAwaitingPayment && !r.IsOverdue(now):
		return SettlementOnTime, nil
	case r.status == StatusAwaitingPayment:
		return SettlementLate, nil
	case r.status == StatusRejected && r.rejectionReason == RejectionDeadlineLapsed && r.session != nil:
		return SettlementLate, nil
	default:
		return 0, invalidState("settle payment for", r.status)
	}
}

func (r *Reservation) MarkPaid(amountPaid int64, now time.Time) error {
	if _, err := r.ClassifySettlement(now); err != nil {
		return err
	}
	if r.status == StatusPaymentConfirmed {
		return invalidState("settle payment for", r.status)
	}
	if r.session == nil {
		return ErrMissingSession
	}
	if amountPaid < r.session.AmountMinor {
		return ErrInsufficientPayment
	}
	r.status = StatusPaymentConfirmed
	r.paymentStatus = PaymentPaid
	r.paymentDeadline = nil
	r.rejectionReason = RejectionNone
	r.paidAt = &now
	r.touch(now)
	return nil
}

// Expire auto-rejects an awaiting record whose deadline has passed.
func (r *Reservation) Expire(now time.Time) error {
	if r.status != StatusAwaitingPayment || !r.IsOverdue(now) {
		return invalidState("expire", r.status)
	}
	return r.Reject(RejectionDeadlineLapsed, now)
}

// IsOverdue is true strictly after the deadline.
func (r *Reservation) IsOverdue(now time.Time) bool {
	return r.status == StatusAwaitingPayment && r.paymentDeadline != nil && r.paymentDeadline.Before(now)
}

// HoldsDate reports whether the record currently blocks its event date for everyone else.
func (r *Reservation) HoldsDate(now time.Time) bool {
	switch r.status {
	case StatusPaymentConfirmed:
		return true
	case StatusAwaitingPayment:
		return r.paymentDeadline == nil || !r.paymentDeadline.Before(now)
	default:
		return false
	}
}

func (r *Reservation) touch(now time.Time) {
	if now.After(r.updatedAt) {
		r.updatedAt = now
	}
}

func (r *Reservation) ID() uuid.UUID                    { return r.id }
func (r *Reservation) ReferenceID() ReferenceID         { return r.referenceID }
func (r *Reservation) Applicant() Applicant             { return r.applicant }
func (r *Reservation) EventDate() time.Time             { return r.applicant.EventDate }
func (r *Reservation) Email() string                    { return r.applicant.Email }
func (r *Reservation) Status() Status                   { return r.status }
func (r *Reservation) PaymentStatus() PaymentStatus     { return r.paymentStatus }
func (r *Reservation) PaymentDeadline() *time.Time      { return r.paymentDeadline }
func (r *Reservation) Session() *GatewaySession         { return r.session }
func (r *Reservation) RejectionReason() RejectionReason { return r.rejectionReason }
func (r *Reservation) PaidAt() *time.Time               { return r.paidAt }
func (r *Reservation) CreatedAt() time.Time             { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time             { return r.updatedAt }
