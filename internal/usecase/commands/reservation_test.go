//go:build unit

package commands_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"venue-reservation/internal/domain/reservation"
	"venue-reservation/internal/pkg/clock"
	"venue-reservation/internal/pkg/errs"
	"venue-reservation/internal/usecase/commands"
	"venue-reservation/tests/common/builder"
	"venue-reservation/tests/common/memstore"
	commandsmock "venue-reservation/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type ReservationCommandsTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	clock    *clock.MockClock
	store    *memstore.Store
	gateway  *commandsmock.MockPaymentGateway
	notifier *commandsmock.MockNotifier
	uc       commands.ReservationCommands
}

func (s *ReservationCommandsTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.clock = clock.NewMockClock(now)
	s.store = memstore.New()
	s.gateway = commandsmock.NewMockPaymentGateway(s.ctrl)
	s.notifier = commandsmock.NewMockNotifier(s.ctrl)
	s.uc = s.newUseCase(s.notifier)
}

func (s *ReservationCommandsTestSuite) newUseCase(notifier commands.Notifier) commands.ReservationCommands {
	return commands.NewReservationUseCase(
		s.store,
		s.gateway,
		notifier,
		commands.NewReferenceGenerator("TECHHUB", s.clock),
		commands.NewConflictChecker(s.store),
		s.clock,
		commands.Settings{
			PaymentDeadline: 48 * time.Hour,
			AmountMinor:     builder.DefaultAmountMinor,
			Currency:        "NGN",
			GatewayTimeout:  2 * time.Second,
			PublicPayURL:    "https://hub.example/pay",
		},
	)
}

func (s *ReservationCommandsTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestReservationCommandsSuite(t *testing.T) {
	suite.Run(t, new(ReservationCommandsTestSuite))
}

// helpers

func (s *ReservationCommandsTestSuite) allowNotices() {
	s.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (s *ReservationCommandsTestSuite) expectNotice(to, subject string, htmlContains ...string) {
	s.notifier.EXPECT().Send(gomock.Any(), to, subject, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, html string) error {
			for _, want := range htmlContains {
				s.Contains(html, want)
			}
			return nil
		})
}

func (s *ReservationCommandsTestSuite) expectSession() {
	s.gateway.EXPECT().OpenSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req commands.PaymentSessionRequest) (*reservation.GatewaySession, error) {
			return &reservation.GatewaySession{
				Reference:        req.Reference,
				AuthorizationURL: "https://checkout.paystack.com/xyz",
				AccessCode:       "ac_xyz",
				AmountMinor:      req.AmountMinor,
			}, nil
		})
}

func (s *ReservationCommandsTestSuite) seed(b *builder.ReservationBuilder) *reservation.Reservation {
	res := b.BuildDomain()
	s.store.Put(res)
	return res
}

func (s *ReservationCommandsTestSuite) requireStatus(res *reservation.Reservation, expected reservation.Status) *reservation.Reservation {
	stored := s.store.Get(res.ID())
	s.Require().NotNil(stored)
	s.Require().Equal(expected, stored.Status())
	return stored
}

func submitInput() commands.SubmitInput {
	b := builder.NewReservationBuilder()
	return commands.SubmitInput{
		FullName:         b.FullName,
		Email:            "  Ada@Example.com",
		Phone:            b.Phone,
		OrganizationName: b.OrganizationName,
		EventTitle:       b.EventTitle,
		EventDate:        b.EventDate,
		Description:      b.Description,
	}
}

// Submit

func (s *ReservationCommandsTestSuite) TestSubmit() {
	s.Run("creates a pending record with a sequential reference", func() {
		s.SetupTest()
		s.expectNotice("ada@example.com", "Reservation Received", "TECHHUB-2025-001")
		s.expectNotice("ada@example.com", "Reservation Received", "TECHHUB-2025-002")

		first, err := s.uc.Submit(context.Background(), submitInput())
		s.Require().NoError(err)
		second, err := s.uc.Submit(context.Background(), submitInput())
		s.Require().NoError(err)

		s.Equal("TECHHUB-2025-001", first.ReferenceID)
		s.Equal("TECHHUB-2025-002", second.ReferenceID)
		stored := s.requireStatus(s.store.Get(first.ID), reservation.StatusPending)
		s.Equal(reservation.PaymentPending, stored.PaymentStatus())
		s.Equal("ada@example.com", stored.Email())
		s.Nil(stored.PaymentDeadline())
	})

	s.Run("sequence restarts each year", func() {
		s.SetupTest()
		s.allowNotices()
		s.seed(builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.Year = 2024; b.Sequence = 57 }))

		result, err := s.uc.Submit(context.Background(), submitInput())
		s.Require().NoError(err)
		s.Equal("TECHHUB-2025-001", result.ReferenceID)
	})

	s.Run("invalid input writes nothing", func() {
		s.SetupTest()
		in := submitInput()
		in.Email = "nope"
		in.Phone = ""

		_, err := s.uc.Submit(context.Background(), in)
		s.True(errs.Is(err, errs.ErrValidation))
		var ve *reservation.ValidationError
		s.Require().True(errs.As(err, &ve))
		s.Contains(ve.Fields, "email")
		s.Contains(ve.Fields, "phone")
		s.Empty(s.store.All())
	})

	s.Run("notifier failure does not fail the submission", func() {
		s.SetupTest()
		s.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errs.New("smtp down"))

		result, err := s.uc.Submit(context.Background(), submitInput())
		s.Require().NoError(err)
		s.NotNil(s.store.Get(result.ID))
	})

	s.Run("nil notifier is allowed", func() {
		s.SetupTest()
		uc := s.newUseCase(nil)

		_, err := uc.Submit(context.Background(), submitInput())
		s.NoError(err)
	})
}

// Approve

func (s *ReservationCommandsTestSuite) TestApprove() {
	s.Run("opens a session and holds the date until the deadline", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder())
		s.gateway.EXPECT().OpenSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, req commands.PaymentSessionRequest) (*reservation.GatewaySession, error) {
				_, hasDeadline := ctx.Deadline()
				s.True(hasDeadline, "gateway call is bounded")
				s.True(strings.HasPrefix(req.Reference, "RES-TECHHUB-2025-001-"))
				s.Equal("ada@example.com", req.Email)
				s.Equal(builder.DefaultAmountMinor, req.AmountMinor)
				s.Equal("NGN", req.Currency)
				s.Equal(res.ID().String(), req.Metadata["reservation_id"])
				return &reservation.GatewaySession{
					Reference:        req.Reference,
					AuthorizationURL: "https://checkout.paystack.com/xyz",
					AmountMinor:      req.AmountMinor,
				}, nil
			})
		s.expectNotice("ada@example.com", "Reservation Approved", "https://checkout.paystack.com/xyz", "NGN 1,000.00")

		_, err := s.uc.Approve(context.Background(), res.ID())
		s.Require().NoError(err)

		stored := s.requireStatus(res, reservation.StatusAwaitingPayment)
		s.Require().NotNil(stored.PaymentDeadline())
		s.Equal(now.Add(48*time.Hour), *stored.PaymentDeadline())
		s.Require().NotNil(stored.Session())
		s.Equal("https://checkout.paystack.com/xyz", stored.Session().AuthorizationURL)
		s.Equal([]time.Time{res.EventDate()}, s.store.LockedDays())
	})

	s.Run("falls back to the public pay URL", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder())
		s.gateway.EXPECT().OpenSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req commands.PaymentSessionRequest) (*reservation.GatewaySession, error) {
				return &reservation.GatewaySession{Reference: req.Reference}, nil
			})
		s.expectNotice("ada@example.com", "Reservation Approved", "https://hub.example/pay")

		_, err := s.uc.Approve(context.Background(), res.ID())
		s.Require().NoError(err)
		stored := s.requireStatus(res, reservation.StatusAwaitingPayment)
		s.Equal(builder.DefaultAmountMinor, stored.Session().AmountMinor)
	})

	s.Run("date held by a confirmed reservation fails before the gateway", func() {
		s.SetupTest()
		s.seed(builder.NewReservationBuilder().WithSequence(1).Confirmed(now.Add(-time.Hour)))
		res := s.seed(builder.NewReservationBuilder().WithSequence(2).WithEmail("bola@example.com"))

		_, err := s.uc.Approve(context.Background(), res.ID())
		s.ErrorIs(err, commands.ErrDateAlreadyReserved)
		s.True(errs.Is(err, errs.ErrConflict))
		s.requireStatus(res, reservation.StatusPending)
	})

	s.Run("date held by an unexpired awaiting reservation", func() {
		s.SetupTest()
		s.seed(builder.NewReservationBuilder().WithSequence(1).AwaitingPayment(now.Add(time.Hour)))
		res := s.seed(builder.NewReservationBuilder().WithSequence(2))

		_, err := s.uc.Approve(context.Background(), res.ID())
		s.True(errs.Is(err, errs.ErrConflict))
	})

	s.Run("expired awaiting reservation does not hold the date", func() {
		s.SetupTest()
		s.allowNotices()
		s.seed(builder.NewReservationBuilder().WithSequence(1).AwaitingPayment(now.Add(-time.Minute)))
		res := s.seed(builder.NewReservationBuilder().WithSequence(2))
		s.expectSession()

		_, err := s.uc.Approve(context.Background(), res.ID())
		s.Require().NoError(err)
		s.requireStatus(res, reservation.StatusAwaitingPayment)
	})

	s.Run("another day is not a conflict", func() {
		s.SetupTest()
		s.allowNotices()
		s.seed(builder.NewReservationBuilder().WithSequence(1).Confirmed(now))
		res := s.seed(builder.NewReservationBuilder().WithSequence(2).WithEventDate(time.Date(2025, 4, 13, 0, 0, 0, 0, time.UTC)))
		s.expectSession()

		_, err := s.uc.Approve(context.Background(), res.ID())
		s.NoError(err)
	})

	s.Run("date taken while the session was opening", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder().WithSequence(1))
		rival := builder.NewReservationBuilder().WithSequence(2).AwaitingPayment(now.Add(time.Hour)).BuildDomain()
		s.gateway.EXPECT().OpenSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req commands.PaymentSessionRequest) (*reservation.GatewaySession, error) {
				s.store.Put(rival)
				return &reservation.GatewaySession{
					Reference:        req.Reference,
					AuthorizationURL: "https://checkout.paystack.com/xyz",
					AmountMinor:      req.AmountMinor,
				}, nil
			})

		_, err := s.uc.Approve(context.Background(), res.ID())
		s.True(errs.Is(err, errs.ErrConflict))
		stored := s.requireStatus(res, reservation.StatusPending)
		s.Nil(stored.Session())
	})

	s.Run("record changed while the session was opening", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder())
		cancelled := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.ID = res.ID() }).Cancelled().BuildDomain()
		s.gateway.EXPECT().OpenSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req commands.PaymentSessionRequest) (*reservation.GatewaySession, error) {
				s.store.Put(cancelled)
				return &reservation.GatewaySession{Reference: req.Reference, AuthorizationURL: "u", AmountMinor: 1}, nil
			})

		_, err := s.uc.Approve(context.Background(), res.ID())
		s.True(errs.Is(err, errs.ErrInvalidState))
		s.requireStatus(res, reservation.StatusCancelled)
	})

	s.Run("gateway failure leaves the record pending", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder())
		s.gateway.EXPECT().OpenSession(gomock.Any(), gomock.Any()).Return(nil, errs.New("connection reset"))

		_, err := s.uc.Approve(context.Background(), res.ID())
		s.True(errs.Is(err, errs.ErrGateway))
		s.requireStatus(res, reservation.StatusPending)
		s.Zero(s.store.Commits)
	})

	s.Run("only pending records can be approved", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder().Rejected())

		_, err := s.uc.Approve(context.Background(), res.ID())
		s.True(errs.Is(err, errs.ErrInvalidState))
		var ise *reservation.InvalidStateError
		s.Require().True(errs.As(err, &ise))
		s.Equal(reservation.StatusRejected, ise.Current)
	})

	s.Run("unknown id", func() {
		s.SetupTest()
		res := builder.NewReservationBuilder().BuildDomain()

		_, err := s.uc.Approve(context.Background(), res.ID())
		s.True(errs.Is(err, errs.ErrNotFound))
	})
}

// Reject / RequestModifications

func (s *ReservationCommandsTestSuite) TestReject() {
	s.Run("awaiting payment is rejected with the operator note", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder().AwaitingPayment(now.Add(time.Hour)))
		s.expectNotice("ada@example.com", "Reservation Rejected", "Venue closed for repairs")

		_, err := s.uc.Reject(context.Background(), res.ID(), "  Venue closed for repairs ")
		s.Require().NoError(err)
		stored := s.requireStatus(res, reservation.StatusRejected)
		s.Equal(reservation.RejectionByOperator, stored.RejectionReason())
		s.Nil(stored.PaymentDeadline())
	})

	s.Run("confirmed reservation cannot be rejected", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder().Confirmed(now))

		_, err := s.uc.Reject(context.Background(), res.ID(), "")
		s.True(errs.Is(err, errs.ErrInvalidState))
		s.requireStatus(res, reservation.StatusPaymentConfirmed)
	})

	s.Run("rival write between read and save reports the status it left", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder())
		cancelled := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.ID = res.ID() }).Cancelled().BuildDomain()
		s.store.BeforeSave = func(uuid.UUID) { s.store.Put(cancelled) }

		_, err := s.uc.Reject(context.Background(), res.ID(), "")

		var ise *reservation.InvalidStateError
		s.Require().True(errs.As(err, &ise), "got %v", err)
		s.Equal(reservation.StatusCancelled, ise.Current)
		s.True(errs.Is(err, errs.ErrInvalidState))
		s.Zero(s.store.Commits)
	})
}

func (s *ReservationCommandsTestSuite) TestRequestModifications() {
	s.Run("note is required", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder())

		_, err := s.uc.RequestModifications(context.Background(), res.ID(), "   ")
		s.ErrorIs(err, commands.ErrNoteRequired)
	})

	s.Run("emails the note and keeps the status", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder())
		s.expectNotice("ada@example.com", "Reservation Needs Changes", "Please add a schedule")

		_, err := s.uc.RequestModifications(context.Background(), res.ID(), "Please add a schedule")
		s.Require().NoError(err)
		s.requireStatus(res, reservation.StatusPending)
		s.Zero(s.store.Commits)
	})

	s.Run("not pending", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder().AwaitingPayment(now))

		_, err := s.uc.RequestModifications(context.Background(), res.ID(), "note")
		s.True(errs.Is(err, errs.ErrInvalidState))
	})
}

// Settlement

func (s *ReservationCommandsTestSuite) TestSettlePayment() {
	s.Run("on time payment confirms", func() {
		s.SetupTest()
		b := builder.NewReservationBuilder().AwaitingPayment(now.Add(time.Hour))
		res := s.seed(b)
		s.expectNotice("ada@example.com", "Reservation Confirmed", "TECHHUB-2025-001")

		result, err := s.uc.SettlePayment(context.Background(), b.GatewayReference(), builder.DefaultAmountMinor)
		s.Require().NoError(err)
		s.False(result.Replayed)
		s.False(result.Late)
		stored := s.requireStatus(res, reservation.StatusPaymentConfirmed)
		s.Equal(reservation.PaymentPaid, stored.PaymentStatus())
		s.Require().NotNil(stored.PaidAt())
		s.Equal(now, *stored.PaidAt())
	})

	s.Run("replayed callback changes nothing", func() {
		s.SetupTest()
		paidAt := now.Add(-time.Hour)
		b := builder.NewReservationBuilder().Confirmed(paidAt)
		res := s.seed(b)

		result, err := s.uc.SettlePayment(context.Background(), b.GatewayReference(), builder.DefaultAmountMinor)
		s.Require().NoError(err)
		s.True(result.Replayed)
		stored := s.requireStatus(res, reservation.StatusPaymentConfirmed)
		s.Equal(paidAt, *stored.PaidAt())
	})

	s.Run("late payment after the sweep is accepted when the day is free", func() {
		s.SetupTest()
		b := builder.NewReservationBuilder().Lapsed()
		res := s.seed(b)
		s.expectNotice("ada@example.com", "Reservation Confirmed")

		result, err := s.uc.SettlePayment(context.Background(), b.GatewayReference(), builder.DefaultAmountMinor)
		s.Require().NoError(err)
		s.True(result.Late)
		s.requireStatus(res, reservation.StatusPaymentConfirmed)
		s.Equal([]time.Time{res.EventDate()}, s.store.LockedDays())
	})

	s.Run("late payment before the sweep is accepted when the day is free", func() {
		s.SetupTest()
		s.allowNotices()
		b := builder.NewReservationBuilder().AwaitingPayment(now.Add(-time.Minute))
		res := s.seed(b)

		result, err := s.uc.SettlePayment(context.Background(), b.GatewayReference(), builder.DefaultAmountMinor)
		s.Require().NoError(err)
		s.True(result.Late)
		s.requireStatus(res, reservation.StatusPaymentConfirmed)
	})

	s.Run("late payment loses to the reservation that took the day", func() {
		s.SetupTest()
		b := builder.NewReservationBuilder().WithSequence(1).Lapsed()
		res := s.seed(b)
		s.seed(builder.NewReservationBuilder().WithSequence(2).Confirmed(now))

		_, err := s.uc.SettlePayment(context.Background(), b.GatewayReference(), builder.DefaultAmountMinor)
		s.True(errs.Is(err, errs.ErrConflict))
		s.requireStatus(res, reservation.StatusRejected)
	})

	s.Run("underpayment is refused", func() {
		s.SetupTest()
		b := builder.NewReservationBuilder().AwaitingPayment(now.Add(time.Hour))
		res := s.seed(b)

		_, err := s.uc.SettlePayment(context.Background(), b.GatewayReference(), 100)
		s.ErrorIs(err, reservation.ErrInsufficientPayment)
		s.requireStatus(res, reservation.StatusAwaitingPayment)
	})

	s.Run("cancelled record is not settled", func() {
		s.SetupTest()
		b := builder.NewReservationBuilder().AwaitingPayment(now.Add(time.Hour))
		s.seed(b.Cancelled())

		_, err := s.uc.SettlePayment(context.Background(), b.GatewayReference(), builder.DefaultAmountMinor)
		s.True(errs.Is(err, errs.ErrInvalidState))
	})

	s.Run("unknown gateway reference", func() {
		s.SetupTest()
		_, err := s.uc.SettlePayment(context.Background(), "RES-UNKNOWN", builder.DefaultAmountMinor)
		s.True(errs.Is(err, errs.ErrNotFound))
	})
}

func (s *ReservationCommandsTestSuite) TestHandleGatewayCallback() {
	payload := []byte(`{"event":"charge.success"}`)

	s.Run("invalid signature is the only failure", func() {
		s.SetupTest()
		s.gateway.EXPECT().VerifyCallback(payload, "bad").Return(false)

		err := s.uc.HandleGatewayCallback(context.Background(), payload, "bad")
		s.ErrorIs(err, commands.ErrInvalidSignature)
		s.True(errs.Is(err, errs.ErrAuth))
	})

	s.Run("successful charge settles the reservation", func() {
		s.SetupTest()
		s.allowNotices()
		b := builder.NewReservationBuilder().AwaitingPayment(now.Add(time.Hour))
		res := s.seed(b)
		s.gateway.EXPECT().VerifyCallback(payload, "sig").Return(true)
		s.gateway.EXPECT().ParseCallback(payload).Return(&commands.PaymentEvent{
			Type:        commands.EventChargeSuccess,
			Reference:   b.GatewayReference(),
			AmountMinor: builder.DefaultAmountMinor,
		}, nil)

		s.Require().NoError(s.uc.HandleGatewayCallback(context.Background(), payload, "sig"))
		s.requireStatus(res, reservation.StatusPaymentConfirmed)
	})

	s.Run("other events are acknowledged and ignored", func() {
		s.SetupTest()
		b := builder.NewReservationBuilder().AwaitingPayment(now.Add(time.Hour))
		res := s.seed(b)
		s.gateway.EXPECT().VerifyCallback(payload, "sig").Return(true)
		s.gateway.EXPECT().ParseCallback(payload).Return(&commands.PaymentEvent{
			Type:      "transfer.success",
			Reference: b.GatewayReference(),
		}, nil)

		s.NoError(s.uc.HandleGatewayCallback(context.Background(), payload, "sig"))
		s.requireStatus(res, reservation.StatusAwaitingPayment)
	})

	s.Run("settlement failures are acknowledged", func() {
		s.SetupTest()
		s.gateway.EXPECT().VerifyCallback(payload, "sig").Return(true).Times(2)
		s.gateway.EXPECT().ParseCallback(payload).Return(&commands.PaymentEvent{
			Type:      commands.EventChargeSuccess,
			Reference: "RES-UNKNOWN",
		}, nil)
		s.gateway.EXPECT().ParseCallback(payload).Return(nil, errs.New("bad json"))

		s.NoError(s.uc.HandleGatewayCallback(context.Background(), payload, "sig"))
		s.NoError(s.uc.HandleGatewayCallback(context.Background(), payload, "sig"))
	})
}

// Cancel / Resubmit

func (s *ReservationCommandsTestSuite) TestCancel() {
	s.Run("requester cancels with reference and email", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder().AwaitingPayment(now.Add(time.Hour)))
		s.expectNotice("ada@example.com", "Reservation Cancelled")

		_, err := s.uc.Cancel(context.Background(), commands.CancelInput{
			ReferenceID: "techhub-2025-001",
			Email:       "ADA@example.com ",
		})
		s.Require().NoError(err)
		stored := s.requireStatus(res, reservation.StatusCancelled)
		s.Nil(stored.PaymentDeadline())
	})

	s.Run("email mismatch reads as not found", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder())

		_, err := s.uc.Cancel(context.Background(), commands.CancelInput{ReferenceID: "TECHHUB-2025-001", Email: "eve@example.com"})
		s.True(errs.Is(err, errs.ErrNotFound))
		s.requireStatus(res, reservation.StatusPending)
	})

	s.Run("malformed reference", func() {
		s.SetupTest()
		_, err := s.uc.Cancel(context.Background(), commands.CancelInput{ReferenceID: "42", Email: "ada@example.com"})
		s.True(errs.Is(err, errs.ErrValidation))
	})

	s.Run("paid reservation cannot be cancelled", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder().Confirmed(now))

		_, err := s.uc.Cancel(context.Background(), commands.CancelInput{ReferenceID: "TECHHUB-2025-001", Email: "ada@example.com"})
		s.True(errs.Is(err, errs.ErrInvalidState))
		s.requireStatus(res, reservation.StatusPaymentConfirmed)
	})

	s.Run("payment lands between read and save", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder().AwaitingPayment(now.Add(time.Hour)))
		paid := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.ID = res.ID() }).Confirmed(now).BuildDomain()
		s.store.BeforeSave = func(uuid.UUID) { s.store.Put(paid) }

		_, err := s.uc.Cancel(context.Background(), commands.CancelInput{ReferenceID: "TECHHUB-2025-001", Email: "ada@example.com"})

		var ise *reservation.InvalidStateError
		s.Require().True(errs.As(err, &ise), "got %v", err)
		s.Equal(reservation.StatusPaymentConfirmed, ise.Current)
	})
}

func (s *ReservationCommandsTestSuite) TestResubmit() {
	s.Run("rejected record returns to pending with overrides applied", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder().Lapsed())
		s.expectNotice("ada@example.com", "Reservation Resubmitted", "TECHHUB-2025-001")
		title := "Go Meetup (rescheduled)"
		day := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)

		result, err := s.uc.Resubmit(context.Background(), commands.ResubmitInput{
			ReferenceID: "TECHHUB-2025-001",
			Email:       "ada@example.com",
			Overrides:   reservation.ApplicantOverrides{EventTitle: &title, EventDate: &day},
		})
		s.Require().NoError(err)
		s.Equal("TECHHUB-2025-001", result.ReferenceID)

		stored := s.requireStatus(res, reservation.StatusPending)
		s.Equal(title, stored.Applicant().EventTitle)
		s.Equal(day, stored.EventDate())
		s.Nil(stored.Session())
		s.Equal(reservation.RejectionNone, stored.RejectionReason())
	})

	s.Run("cancelled record can be resubmitted unchanged", func() {
		s.SetupTest()
		s.allowNotices()
		res := s.seed(builder.NewReservationBuilder().Cancelled())

		_, err := s.uc.Resubmit(context.Background(), commands.ResubmitInput{ReferenceID: "TECHHUB-2025-001", Email: "ada@example.com"})
		s.Require().NoError(err)
		s.requireStatus(res, reservation.StatusPending)
	})

	s.Run("invalid override is rejected", func() {
		s.SetupTest()
		res := s.seed(builder.NewReservationBuilder().Rejected())
		badEmail := "not-an-email"

		_, err := s.uc.Resubmit(context.Background(), commands.ResubmitInput{
			ReferenceID: "TECHHUB-2025-001",
			Email:       "ada@example.com",
			Overrides:   reservation.ApplicantOverrides{Email: &badEmail},
		})
		s.True(errs.Is(err, errs.ErrValidation))
		s.requireStatus(res, reservation.StatusRejected)
	})

	s.Run("active record cannot be resubmitted", func() {
		s.SetupTest()
		s.seed(builder.NewReservationBuilder())

		_, err := s.uc.Resubmit(context.Background(), commands.ResubmitInput{ReferenceID: "TECHHUB-2025-001", Email: "ada@example.com"})
		s.True(errs.Is(err, errs.ErrInvalidState))
	})
}

// Expiry

func (s *ReservationCommandsTestSuite) TestExpireOverdue() {
	s.Run("rejects overdue records in bounded batches", func() {
		s.SetupTest()
		first := s.seed(builder.NewReservationBuilder().WithSequence(1).AwaitingPayment(now.Add(-2 * time.Hour)))
		second := s.seed(builder.NewReservationBuilder().WithSequence(2).AwaitingPayment(now.Add(-time.Hour)))
		open := s.seed(builder.NewReservationBuilder().WithSequence(3).AwaitingPayment(now.Add(time.Hour)))
		s.notifier.EXPECT().Send(gomock.Any(), "ada@example.com", "Reservation Rejected", gomock.Any()).Return(nil).Times(2)

		n, err := s.uc.ExpireOverdue(context.Background(), 1)
		s.Require().NoError(err)
		s.Equal(1, n)
		stored := s.requireStatus(first, reservation.StatusRejected)
		s.Equal(reservation.RejectionDeadlineLapsed, stored.RejectionReason())
		s.requireStatus(second, reservation.StatusAwaitingPayment)

		n, err = s.uc.ExpireOverdue(context.Background(), 10)
		s.Require().NoError(err)
		s.Equal(1, n)
		s.requireStatus(second, reservation.StatusRejected)
		s.requireStatus(open, reservation.StatusAwaitingPayment)

		n, err = s.uc.ExpireOverdue(context.Background(), 10)
		s.Require().NoError(err)
		s.Zero(n)
	})

	s.Run("limit must be positive", func() {
		s.SetupTest()
		_, err := s.uc.ExpireOverdue(context.Background(), 0)
		s.True(errs.Is(err, errs.ErrValidation))
	})
}
