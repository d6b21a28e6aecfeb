package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"venue-reservation/internal/domain/reservation"
	"venue-reservation/internal/pkg/clock"
	"venue-reservation/internal/pkg/errs"
	"venue-reservation/internal/usecase/notice"
	"venue-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = errs.Wrap(errs.ErrAuth, "invalid webhook signature")
	ErrNoteRequired     = errs.Wrap(errs.ErrValidation, "note is required")
)

type Settings struct {
	PaymentDeadline time.Duration
	AmountMinor     int64
	Currency        string
	GatewayTimeout  time.Duration
	CallbackURL     string
	// PublicPayURL is sent when the gateway returns no authorization URL.
	PublicPayURL string
}

type SubmitInput struct {
	FullName         string
	Email            string
	Phone            string
	OrganizationName string
	EventTitle       string
	EventDate        time.Time
	Description      string
	Link             string
}

type CancelInput struct {
	ReferenceID string
	Email       string
}

type ResubmitInput struct {
	ReferenceID string
	Email       string
	Overrides   reservation.ApplicantOverrides
}

type ReservationResult struct {
	ID          uuid.UUID
	ReferenceID string
}

type SettlementResult struct {
	ID uuid.UUID
	// Replayed is true when the record was already paid and nothing was written.
	Replayed bool
	Late     bool
}

type ReservationCommands interface {
	Submit(ctx context.Context, in SubmitInput) (*ReservationResult, error)
	Approve(ctx context.Context, id uuid.UUID) (*ReservationResult, error)
	Reject(ctx context.Context, id uuid.UUID, note string) (*ReservationResult, error)
	RequestModifications(ctx context.Context, id uuid.UUID, note string) (*ReservationResult, error)
	SettlePayment(ctx context.Context, gatewayReference string, amountPaid int64) (*SettlementResult, error)
	HandleGatewayCallback(ctx context.Context, payload []byte, signature string) error
	Cancel(ctx context.Context, in CancelInput) (*ReservationResult, error)
	Resubmit(ctx context.Context, in ResubmitInput) (*ReservationResult, error)
	ExpireOverdue(ctx context.Context, limit int) (int, error)
}

type reservationUseCaseImpl struct {
	uow       shared.UnitOfWork
	gateway   PaymentGateway
	notifier  Notifier
	refs      *ReferenceGenerator
	conflicts *ConflictChecker
	clock     clock.Clock
	settings  Settings
}

func NewReservationUseCase(
	uow shared.UnitOfWork,
	gateway PaymentGateway,
	notifier Notifier,
	refs *ReferenceGenerator,
	conflicts *ConflictChecker,
	clk clock.Clock,
	settings Settings,
) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:       uow,
		gateway:   gateway,
		notifier:  notifier,
		refs:      refs,
		conflicts: conflicts,
		clock:     clk,
		settings:  settings,
	}
}

func (uc *reservationUseCaseImpl) Submit(ctx context.Context, in SubmitInput) (*ReservationResult, error) {
	applicant, err := reservation.NewApplicant(reservation.Applicant{
		FullName:         in.FullName,
		Email:            in.Email,
		Phone:            in.Phone,
		OrganizationName: in.OrganizationName,
		EventTitle:       in.EventTitle,
		EventDate:        in.EventDate,
		Description:      in.Description,
		Link:             in.Link,
	})
	if err != nil {
		return nil, err
	}

	var created *reservation.Reservation
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ref, derr := uc.refs.Next(ctx, tx)
		if derr != nil {
			return derr
		}
		created = reservation.NewReservation(ref, applicant, uc.clock.Now())
		return tx.Reservations().Create(ctx, tx.DB(), created)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("reservation submitted",
		"reservation_id", created.ID(),
		"reference_id", created.ReferenceID().String(),
		"event_date", clock.FormatDay(created.EventDate()))
	uc.notify(ctx, notice.KindReceived, created, "")
	return resultOf(created), nil
}

// Approve opens the gateway session outside any transaction, then claims the day and
// moves the record to awaiting payment in one transaction. A session opened for an
// approval that loses the day is abandoned at the gateway.
func (uc *reservationUseCaseImpl) Approve(ctx context.Context, id uuid.UUID) (*ReservationResult, error) {
	current, err := uc.uow.CommandReads().ReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.CanApprove(); err != nil {
		return nil, err
	}
	if err := uc.conflicts.Check(ctx, current.EventDate(), current.ID(), uc.clock.Now()); err != nil {
		return nil, err
	}

	session, err := uc.openSession(ctx, current)
	if err != nil {
		return nil, err
	}

	var approved *reservation.Reservation
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, derr := tx.Reservations().FindByIDForUpdate(ctx, tx.DB(), id)
		if derr != nil {
			return derr
		}
		if derr = res.CanApprove(); derr != nil {
			return derr
		}
		now := uc.clock.Now()
		if derr = uc.conflicts.Claim(ctx, tx, res.EventDate(), res.ID(), now); derr != nil {
			return derr
		}
		if derr = res.Approve(*session, now.Add(uc.settings.PaymentDeadline), now); derr != nil {
			return derr
		}
		if derr = uc.save(ctx, tx, res, reservation.StatusPending); derr != nil {
			return derr
		}
		approved = res
		return nil
	})
	if err != nil {
		if errs.Is(err, errs.ErrConflict) {
			slog.Warn("approval lost the event date after the payment session was opened",
				"reservation_id", id,
				"gateway_reference", session.Reference)
		}
		return nil, err
	}

	slog.Info("reservation approved",
		"reservation_id", approved.ID(),
		"gateway_reference", session.Reference,
		"payment_deadline", approved.PaymentDeadline())
	uc.notify(ctx, notice.KindApproved, approved, "")
	return resultOf(approved), nil
}

func (uc *reservationUseCaseImpl) openSession(ctx context.Context, res *reservation.Reservation) (*reservation.GatewaySession, error) {
	if uc.settings.GatewayTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.settings.GatewayTimeout)
		defer cancel()
	}

	session, err := uc.gateway.OpenSession(ctx, PaymentSessionRequest{
		Reference:   gatewayReference(res.ReferenceID(), uc.clock.Now()),
		Email:       res.Email(),
		AmountMinor: uc.settings.AmountMinor,
		Currency:    uc.settings.Currency,
		CallbackURL: uc.settings.CallbackURL,
		Metadata: map[string]string{
			"reservation_id": res.ID().String(),
			"reference_id":   res.ReferenceID().String(),
		},
	})
	if err != nil {
		slog.Error("failed to open payment session",
			"reservation_id", res.ID(),
			"error", err.Error())
		if errs.Is(err, errs.ErrGateway) {
			return nil, err
		}
		return nil, errs.Mark(errs.Wrap(err, "open payment session"), errs.ErrGateway)
	}
	if session.AuthorizationURL == "" {
		session.AuthorizationURL = uc.settings.PublicPayURL
	}
	if session.AmountMinor == 0 {
		session.AmountMinor = uc.settings.AmountMinor
	}
	if err := session.Validate(); err != nil {
		return nil, errs.Mark(err, errs.ErrGateway)
	}
	return session, nil
}

func (uc *reservationUseCaseImpl) Reject(ctx context.Context, id uuid.UUID, note string) (*ReservationResult, error) {
	var rejected *reservation.Reservation
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, derr := tx.Reservations().FindByIDForUpdate(ctx, tx.DB(), id)
		if derr != nil {
			return derr
		}
		expected := res.Status()
		if derr = res.Reject(reservation.RejectionByOperator, uc.clock.Now()); derr != nil {
			return derr
		}
		if derr = uc.save(ctx, tx, res, expected); derr != nil {
			return derr
		}
		rejected = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("reservation rejected", "reservation_id", rejected.ID())
	uc.notify(ctx, notice.KindRejected, rejected, strings.TrimSpace(note))
	return resultOf(rejected), nil
}

func (uc *reservationUseCaseImpl) RequestModifications(ctx context.Context, id uuid.UUID, note string) (*ReservationResult, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrNoteRequired
	}
	res, err := uc.uow.CommandReads().ReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := res.CanRequestModifications(); err != nil {
		return nil, err
	}

	slog.Info("modifications requested", "reservation_id", res.ID())
	uc.notify(ctx, notice.KindNeedsChanges, res, note)
	return resultOf(res), nil
}

func (uc *reservationUseCaseImpl) SettlePayment(ctx context.Context, gatewayReference string, amountPaid int64) (*SettlementResult, error) {
	if strings.TrimSpace(gatewayReference) == "" {
		return nil, errs.Wrap(errs.ErrValidation, "gateway reference is required")
	}

	result := &SettlementResult{}
	var settled *reservation.Reservation
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		*result = SettlementResult{}
		settled = nil

		res, derr := tx.Reservations().FindByGatewayReferenceForUpdate(ctx, tx.DB(), gatewayReference)
		if derr != nil {
			return derr
		}
		result.ID = res.ID()

		now := uc.clock.Now()
		kind, derr := res.ClassifySettlement(now)
		if derr != nil {
			return derr
		}
		switch kind {
		case reservation.SettlementAlreadyPaid:
			result.Replayed = true
			return nil
		case reservation.SettlementLate:
			result.Late = true
			if derr = uc.conflicts.Claim(ctx, tx, res.EventDate(), res.ID(), now); derr != nil {
				return derr
			}
		}

		expected := res.Status()
		if derr = res.MarkPaid(amountPaid, now); derr != nil {
			return derr
		}
		if derr = uc.save(ctx, tx, res, expected); derr != nil {
			return derr
		}
		settled = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Replayed {
		slog.Info("duplicate payment callback ignored",
			"reservation_id", result.ID,
			"gateway_reference", gatewayReference)
		return result, nil
	}

	slog.Info("payment settled",
		"reservation_id", settled.ID(),
		"gateway_reference", gatewayReference,
		"amount_minor", amountPaid,
		"late", result.Late)
	uc.notify(ctx, notice.KindConfirmed, settled, "")
	return result, nil
}

// HandleGatewayCallback only fails for a bad signature. Anything else is acknowledged so
// the gateway stops retrying; outcomes that need a person are logged at error level.
func (uc *reservationUseCaseImpl) HandleGatewayCallback(ctx context.Context, payload []byte, signature string) error {
	if !uc.gateway.VerifyCallback(payload, signature) {
		slog.Warn("rejected webhook with invalid signature")
		return ErrInvalidSignature
	}

	event, err := uc.gateway.ParseCallback(payload)
	if err != nil {
		slog.Warn("ignoring undecodable webhook", "error", err.Error())
		return nil
	}
	if event.Type != EventChargeSuccess {
		slog.Debug("ignoring webhook event", "event", event.Type)
		return nil
	}

	_, err = uc.SettlePayment(ctx, event.Reference, event.AmountMinor)
	switch {
	case err == nil:
	case errs.Is(err, errs.ErrConflict):
		slog.Error("late payment received for a date held by another reservation; refund required",
			"gateway_reference", event.Reference,
			"amount_minor", event.AmountMinor)
	case errs.Is(err, errs.ErrNotFound):
		slog.Warn("payment for unknown gateway reference", "gateway_reference", event.Reference)
	case errs.Is(err, errs.ErrInvalidState), errs.Is(err, errs.ErrValidation):
		slog.Error("payment could not be applied; manual review required",
			"gateway_reference", event.Reference,
			"amount_minor", event.AmountMinor,
			"error", err.Error())
	default:
		slog.Error("failed to settle payment",
			"gateway_reference", event.Reference,
			"error", err.Error())
	}
	return nil
}

func (uc *reservationUseCaseImpl) Cancel(ctx context.Context, in CancelInput) (*ReservationResult, error) {
	ref, err := reservation.ParseReferenceID(in.ReferenceID)
	if err != nil {
		return nil, err
	}

	var cancelled *reservation.Reservation
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, derr := tx.Reservations().FindByReferenceForUpdate(ctx, tx.DB(), ref, in.Email)
		if derr != nil {
			return derr
		}
		expected := res.Status()
		if derr = res.Cancel(uc.clock.Now()); derr != nil {
			return derr
		}
		if derr = uc.save(ctx, tx, res, expected); derr != nil {
			return derr
		}
		cancelled = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("reservation cancelled", "reservation_id", cancelled.ID())
	uc.notify(ctx, notice.KindCancelled, cancelled, "")
	return resultOf(cancelled), nil
}

func (uc *reservationUseCaseImpl) Resubmit(ctx context.Context, in ResubmitInput) (*ReservationResult, error) {
	ref, err := reservation.ParseReferenceID(in.ReferenceID)
	if err != nil {
		return nil, err
	}

	var resubmitted *reservation.Reservation
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, derr := tx.Reservations().FindByReferenceForUpdate(ctx, tx.DB(), ref, in.Email)
		if derr != nil {
			return derr
		}
		expected := res.Status()
		if !expected.IsTerminal() {
			return &reservation.InvalidStateError{Action: "resubmit", Current: expected}
		}
		applicant, derr := res.Applicant().Apply(in.Overrides)
		if derr != nil {
			return derr
		}
		if derr = res.Resubmit(applicant, uc.clock.Now()); derr != nil {
			return derr
		}
		if derr = uc.save(ctx, tx, res, expected); derr != nil {
			return derr
		}
		resubmitted = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("reservation resubmitted", "reservation_id", resubmitted.ID())
	uc.notify(ctx, notice.KindResubmitted, resubmitted, "")
	return resultOf(resubmitted), nil
}

// ExpireOverdue rejects at most limit awaiting reservations whose deadline has passed.
// Rows locked by a concurrent settlement are skipped and picked up next time.
func (uc *reservationUseCaseImpl) ExpireOverdue(ctx context.Context, limit int) (int, error) {
	if limit < 1 {
		return 0, errs.Wrap(errs.ErrValidation, "limit must be positive")
	}

	var expired []*reservation.Reservation
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rows, derr := tx.Reservations().ExpireOverdue(ctx, tx.DB(), uc.clock.Now(), limit)
		if derr != nil {
			return derr
		}
		expired = rows
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, res := range expired {
		uc.notify(ctx, notice.KindExpired, res, "")
	}
	return len(expired), nil
}

func (uc *reservationUseCaseImpl) save(ctx context.Context, tx shared.Tx, res *reservation.Reservation, expected reservation.Status) error {
	ok, err := tx.Reservations().Save(ctx, tx.DB(), res, expected)
	if err != nil {
		return err
	}
	if !ok {
		return uc.staleWrite(ctx, tx, res.ID())
	}
	return nil
}

// staleWrite reports the status another writer left the record in after it was read.
func (uc *reservationUseCaseImpl) staleWrite(ctx context.Context, tx shared.Tx, id uuid.UUID) error {
	current, err := tx.Reservations().FindByID(ctx, tx.DB(), id)
	if err != nil {
		return errs.Wrap(err, "reload reservation after conflicting write")
	}
	return errs.Wrap(&reservation.InvalidStateError{Action: "update", Current: current.Status()},
		"reservation changed concurrently")
}

// notify runs after commit and never fails the operation.
func (uc *reservationUseCaseImpl) notify(ctx context.Context, kind notice.Kind, res *reservation.Reservation, note string) {
	if uc.notifier == nil {
		return
	}

	a := res.Applicant()
	data := notice.Data{
		ReferenceID: res.ReferenceID().String(),
		FullName:    a.FullName,
		EventTitle:  a.EventTitle,
		EventDate:   a.EventDate,
		AmountMinor: uc.settings.AmountMinor,
		Currency:    uc.settings.Currency,
		Deadline:    res.PaymentDeadline(),
		Note:        note,
	}
	if s := res.Session(); s != nil {
		data.PayLink = s.AuthorizationURL
		data.AmountMinor = s.AmountMinor
	}
	if kind == notice.KindExpired && data.Deadline == nil {
		data.Deadline = lapsedDeadline(res)
	}

	msg, err := notice.Render(kind, a.Email, data)
	if err != nil {
		slog.Error("failed to render notice", "kind", string(kind), "error", err.Error())
		return
	}
	if err := uc.notifier.Send(context.WithoutCancel(ctx), msg.To, msg.Subject, msg.HTML); err != nil {
		slog.Warn("failed to send notice",
			"kind", string(kind),
			"reservation_id", res.ID(),
			"error", err.Error())
	}
}

// The sweep clears the deadline column, so the notice falls back to the last update.
func lapsedDeadline(res *reservation.Reservation) *time.Time {
	t := res.UpdatedAt()
	return &t
}

func gatewayReference(ref reservation.ReferenceID, now time.Time) string {
	return fmt.Sprintf("RES-%s-%d", ref.String(), now.UnixMilli())
}

func resultOf(res *reservation.Reservation) *ReservationResult {
	return &ReservationResult{ID: res.ID(), ReferenceID: res.ReferenceID().String()}
}
