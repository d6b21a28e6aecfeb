//go:build unit

package api_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"venue-reservation/internal/domain/reservation"
	"venue-reservation/internal/handler/api"
	resdto "venue-reservation/internal/handler/dto/response"
	"venue-reservation/internal/pkg/errs"
	"venue-reservation/internal/usecase/commands"
	"venue-reservation/internal/usecase/queries"
	"venue-reservation/tests/common/builder"
	"venue-reservation/tests/common/httptest"
	"venue-reservation/tests/common/testutil"
	commandsmock "venue-reservation/tests/mock/commands"
	queriesmock "venue-reservation/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PublicHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.PublicReservationHandler
}

func (s *PublicHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewPublicReservationHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/applications", s.handler.Submit)
	s.router.GET("/applications/track", s.handler.Track)
	s.router.POST("/applications/cancel", s.handler.Cancel)
	s.router.POST("/applications/resubmit", s.handler.Resubmit)
}

func (s *PublicHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPublicHandlerSuite(t *testing.T) {
	suite.Run(t, new(PublicHandlerTestSuite))
}

var errPool = errs.New("pool exhausted")

type testCaseRequest struct {
	name       string
	mutate     testutil.Mutation
	expectCode int
	field      string
}

// ================================================================================
// TestSubmit
// ================================================================================

func (s *PublicHandlerTestSuite) TestSubmit() {
	url := "/applications"

	b := builder.NewReservationBuilder()
	reqBody := b.BuildSubmitRequest()
	view := b.BuildView()
	result := &commands.ReservationResult{ID: view.ID, ReferenceID: view.ReferenceID}

	s.Run("success: returns 201 with the reference", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in commands.SubmitInput) (*commands.ReservationResult, error) {
				s.Equal(b.EventDate, in.EventDate)
				s.Equal(b.Email, in.Email)
				return result, nil
			})
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.SubmittedResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(resdto.SubmittedResponse{
			ID:          view.ID,
			ReferenceID: "TECHHUB-2025-001",
			Status:      "pending",
			StatusLabel: "Pending",
			EventDate:   "2025-04-12",
		}, body)
	})

	cases := []testCaseRequest{
		{name: "missing fullName", mutate: testutil.Field("fullName", nil), expectCode: http.StatusBadRequest, field: "fullName"},
		{name: "missing phone", mutate: testutil.Field("phone", nil), expectCode: http.StatusBadRequest, field: "phone"},
		{name: "malformed email", mutate: testutil.Field("email", "ada.example.com"), expectCode: http.StatusBadRequest, field: "email"},
		{name: "title too long", mutate: testutil.Field("eventTitle", strings.Repeat("a", 201)), expectCode: http.StatusBadRequest, field: "eventTitle"},
		{name: "description too long", mutate: testutil.Field("description", strings.Repeat("a", 5001)), expectCode: http.StatusBadRequest, field: "description"},
		{name: "date in another format", mutate: testutil.Field("eventDate", "12/04/2025"), expectCode: http.StatusBadRequest, field: "eventDate"},
	}

	s.Run("error: 400 with the offending field", func() {
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.Body(s.T(), reqBody, tc.mutate)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")

				body := httptest.AssertErrorCode(s.T(), rec, tc.expectCode, api.CodeValidation)
				fields, ok := body.Detail["fields"].(map[string]any)
				s.Require().True(ok, "detail.fields missing: %s", rec.Body.String())
				s.Contains(fields, tc.field)
			})
		}
	})

	s.Run("error: domain validation is reported per field", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(nil, &reservation.ValidationError{Fields: map[string]string{"phone": "is not a valid phone number"}})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		body := httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, api.CodeValidation)
		s.Equal(map[string]any{"fields": map[string]any{"phone": "is not a valid phone number"}}, body.Detail)
	})

	s.Run("error: unexpected failure is a 500 without internals", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, errPool)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		httptest.AssertErrorCode(s.T(), rec, http.StatusInternalServerError, api.CodeInternal)
		s.NotContains(rec.Body.String(), "pool")
	})
}

// ================================================================================
// TestTrack
// ================================================================================

func (s *PublicHandlerTestSuite) TestTrack() {
	b := builder.NewReservationBuilder().AwaitingPayment(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC))

	s.Run("success", func() {
		s.mockQueries.EXPECT().Track(gomock.Any(), "TECHHUB-2025-001").Return(b.BuildTracking(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/applications/track?referenceId=TECHHUB-2025-001", nil, "")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("awaiting_payment", body["status"])
		s.Equal("2025-04-12", body["eventDate"])
		s.NotContains(body, "email")
		s.NotContains(body, "phone")
	})

	s.Run("error: reference is required", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/applications/track", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, api.CodeValidation)
	})

	s.Run("error: unknown reference", func() {
		s.mockQueries.EXPECT().Track(gomock.Any(), "TECHHUB-2025-999").Return(nil, queries.ErrReservationNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/applications/track?referenceId=TECHHUB-2025-999", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, api.CodeNotFound)
	})
}

// ================================================================================
// TestCancel / TestResubmit
// ================================================================================

func (s *PublicHandlerTestSuite) TestCancel() {
	url := "/applications/cancel"
	reqBody := map[string]string{"referenceId": "TECHHUB-2025-001", "email": "ada@example.com"}

	s.Run("success: returns the tracking view", func() {
		b := builder.NewReservationBuilder().Cancelled()
		s.mockCommands.EXPECT().Cancel(gomock.Any(), commands.CancelInput{ReferenceID: "TECHHUB-2025-001", Email: "ada@example.com"}).
			Return(&commands.ReservationResult{ID: b.ID, ReferenceID: "TECHHUB-2025-001"}, nil)
		s.mockQueries.EXPECT().Track(gomock.Any(), "TECHHUB-2025-001").Return(b.BuildTracking(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.TrackingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("cancelled", body.Status)
	})

	s.Run("error: paid reservation reports its status", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), gomock.Any()).
			Return(nil, &reservation.InvalidStateError{Action: "cancel", Current: reservation.StatusPaymentConfirmed})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		body := httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, api.CodeInvalidState)
		s.Equal("payment_confirmed", body.Detail["currentStatus"])
	})

	s.Run("error: email is required", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]string{"referenceId": "TECHHUB-2025-001"}, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, api.CodeValidation)
	})
}

func (s *PublicHandlerTestSuite) TestResubmit() {
	url := "/applications/resubmit"

	s.Run("success: overrides are passed through", func() {
		b := builder.NewReservationBuilder()
		s.mockCommands.EXPECT().Resubmit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in commands.ResubmitInput) (*commands.ReservationResult, error) {
				s.Equal("TECHHUB-2025-001", in.ReferenceID)
				s.Require().NotNil(in.Overrides.EventDate)
				s.Equal(time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC), *in.Overrides.EventDate)
				s.Require().NotNil(in.Overrides.Email)
				s.Equal("ada@work.example.com", *in.Overrides.Email)
				s.Nil(in.Overrides.FullName)
				return &commands.ReservationResult{ID: b.ID, ReferenceID: in.ReferenceID}, nil
			})
		s.mockQueries.EXPECT().Track(gomock.Any(), "TECHHUB-2025-001").Return(b.BuildTracking(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]string{
			"referenceId": "TECHHUB-2025-001",
			"email":       "ada@example.com",
			"newEmail":    "ada@work.example.com",
			"eventDate":   "2025-05-03",
		}, "")

		var body resdto.TrackingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("pending", body.Status)
	})

	s.Run("error: bad date never reaches the use case", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]string{
			"referenceId": "TECHHUB-2025-001",
			"email":       "ada@example.com",
			"eventDate":   "next friday",
		}, "")

		body := httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, api.CodeValidation)
		s.Contains(body.Detail["fields"], "eventDate")
	})

	s.Run("error: record still active", func() {
		s.mockCommands.EXPECT().Resubmit(gomock.Any(), gomock.Any()).
			Return(nil, &reservation.InvalidStateError{Action: "resubmit", Current: reservation.StatusPending})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]string{
			"referenceId": "TECHHUB-2025-001",
			"email":       "ada@example.com",
		}, "")

		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, api.CodeInvalidState)
	})
}
