//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"venue-reservation/internal/domain/reservation"
	"venue-reservation/internal/handler/api"
	resdto "venue-reservation/internal/handler/dto/response"
	"venue-reservation/internal/pkg/errs"
	"venue-reservation/internal/usecase/commands"
	"venue-reservation/internal/usecase/queries"
	"venue-reservation/internal/worker"
	"venue-reservation/tests/common/builder"
	"venue-reservation/tests/common/httptest"
	apimock "venue-reservation/tests/mock/api"
	commandsmock "venue-reservation/tests/mock/commands"
	queriesmock "venue-reservation/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AdminHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	mockSweeper  *apimock.MockSweeper
	handler      *api.AdminReservationHandler
}

func (s *AdminHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.mockSweeper = apimock.NewMockSweeper(s.mockCtrl)
	s.handler = api.NewAdminReservationHandler(s.mockCommands, s.mockQueries, s.mockSweeper)

	// auth is covered by the middleware tests
	s.router.GET("/admin/applications", s.handler.List)
	s.router.GET("/admin/applications/pending", s.handler.Pending)
	s.router.GET("/admin/applications/:id", s.handler.Get)
	s.router.POST("/admin/applications/:id/approve", s.handler.Approve)
	s.router.POST("/admin/applications/:id/reject", s.handler.Reject)
	s.router.POST("/admin/applications/:id/request-modifications", s.handler.RequestModifications)
	s.router.GET("/admin/dashboard", s.handler.Dashboard)
	s.router.POST("/admin/sweeps", s.handler.Sweep)
}

func (s *AdminHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}

// ================================================================================
// Reads
// ================================================================================

func (s *AdminHandlerTestSuite) TestList() {
	s.Run("success: query is turned into a filter", func() {
		views := []*queries.ReservationView{builder.NewReservationBuilder().BuildView()}
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, f queries.ListFilter) (*queries.ListResult, error) {
				s.Require().NotNil(f.Status)
				s.Equal("pending", *f.Status)
				s.Require().NotNil(f.StartDate)
				s.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
				s.Nil(f.EndDate)
				s.Equal(2, f.Page)
				s.Equal(queries.DefaultListLimit, f.Limit)
				return &queries.ListResult{Items: views, Total: 21, Page: 2, Pages: 2, Limit: 20}, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/applications?status=pending&startDate=2025-04-01&page=2", nil, "")

		var body resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(int64(21), body.Total)
		s.Equal(2, body.Pages)
		s.Require().Len(body.Items, 1)
		s.Equal("TECHHUB-2025-001", body.Items[0].ReferenceID)
	})

	s.Run("error: malformed date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/applications?endDate=yesterday", nil, "")

		body := httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, api.CodeValidation)
		s.Contains(body.Detail["fields"], "endDate")
	})

	s.Run("error: page below one", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/applications?page=0", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, api.CodeValidation)
	})

	s.Run("error: unknown status", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, reservation.ErrInvalidStatus)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/applications?status=approved", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, api.CodeValidation)
	})
}

func (s *AdminHandlerTestSuite) TestGet() {
	s.Run("success", func() {
		b := builder.NewReservationBuilder().Confirmed(time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC))
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ID).Return(b.BuildView(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/applications/"+b.ID.String(), nil, "")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("payment_confirmed", body.Status)
		s.Equal("paid", body.PaymentStatus)
		s.Require().NotNil(body.PaymentAmountMinor)
		s.Equal(builder.DefaultAmountMinor, *body.PaymentAmountMinor)
	})

	s.Run("error: malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/applications/not-a-uuid", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, api.CodeValidation)
	})

	s.Run("error: not found", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id).Return(nil, queries.ErrReservationNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/applications/"+id.String(), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, api.CodeNotFound)
	})
}

func (s *AdminHandlerTestSuite) TestPendingAndDashboard() {
	s.Run("pending", func() {
		s.mockQueries.EXPECT().ListPending(gomock.Any()).Return([]*queries.ReservationView{}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/applications/pending", nil, "")

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, rec.Body.String())
	})

	s.Run("dashboard", func() {
		s.mockQueries.EXPECT().Dashboard(gomock.Any()).Return(&queries.DashboardView{
			Total:           3,
			ByStatus:        []queries.StatusCount{{Status: "pending", Label: "Pending", Count: 3}},
			OverdueAwaiting: 1,
			LatestPending:   []*queries.ReservationView{builder.NewReservationBuilder().BuildView()},
		}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/dashboard", nil, "")

		var body resdto.DashboardResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(int64(3), body.Total)
		s.Equal(int64(1), body.OverdueAwaiting)
		s.Require().Len(body.LatestPending, 1)
		s.Equal("2025-04-12", body.LatestPending[0].EventDate)
	})
}

// ================================================================================
// Decisions
// ================================================================================

func (s *AdminHandlerTestSuite) TestApprove() {
	b := builder.NewReservationBuilder()
	url := "/admin/applications/" + b.ID.String() + "/approve"

	s.Run("success: returns the updated record", func() {
		approved := builder.NewReservationBuilder().With(func(x *builder.ReservationBuilder) { x.ID = b.ID }).
			AwaitingPayment(time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC))
		s.mockCommands.EXPECT().Approve(gomock.Any(), b.ID).Return(&commands.ReservationResult{ID: b.ID}, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ID).Return(approved.BuildView(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("awaiting_payment", body.Status)
		s.Require().NotNil(body.PaymentURL)
		s.Equal(approved.GatewayReference(), *body.PaymentReference)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"date taken", commands.ErrDateAlreadyReserved, http.StatusConflict, api.CodeDateReserved},
		{"not pending", &reservation.InvalidStateError{Action: "approve", Current: reservation.StatusRejected}, http.StatusConflict, api.CodeInvalidState},
		{"gateway down", errs.Mark(errs.New("dial tcp: timeout"), errs.ErrGateway), http.StatusBadGateway, api.CodeGateway},
		{"unknown id", queries.ErrReservationNotFound, http.StatusNotFound, api.CodeNotFound},
	}
	for _, tc := range errorCases {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().Approve(gomock.Any(), b.ID).Return(nil, tc.err)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
			httptest.AssertErrorCode(s.T(), rec, tc.status, tc.code)
		})
	}
}

func (s *AdminHandlerTestSuite) TestReject() {
	b := builder.NewReservationBuilder()
	url := "/admin/applications/" + b.ID.String() + "/reject"

	s.Run("success: note is optional", func() {
		s.mockCommands.EXPECT().Reject(gomock.Any(), b.ID, "").Return(&commands.ReservationResult{ID: b.ID}, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ID).Return(b.Rejected().BuildView(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("rejected", body.Status)
	})

	s.Run("success: note is forwarded", func() {
		s.mockCommands.EXPECT().Reject(gomock.Any(), b.ID, "Date reserved for maintenance").Return(&commands.ReservationResult{ID: b.ID}, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ID).Return(b.BuildView(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]string{"note": "Date reserved for maintenance"}, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: paid reservation", func() {
		s.mockCommands.EXPECT().Reject(gomock.Any(), b.ID, "").
			Return(nil, &reservation.InvalidStateError{Action: "reject", Current: reservation.StatusPaymentConfirmed})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		body := httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, api.CodeInvalidState)
		s.Equal("payment_confirmed", body.Detail["currentStatus"])
	})

	s.Run("error: record changed concurrently", func() {
		s.mockCommands.EXPECT().Reject(gomock.Any(), b.ID, "").
			Return(nil, errs.Wrap(&reservation.InvalidStateError{Action: "update", Current: reservation.StatusCancelled}, "reservation changed concurrently"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		body := httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, api.CodeInvalidState)
		s.Equal("cancelled", body.Detail["currentStatus"])
	})
}

func (s *AdminHandlerTestSuite) TestRequestModifications() {
	b := builder.NewReservationBuilder()
	url := "/admin/applications/" + b.ID.String() + "/request-modifications"

	s.Run("success", func() {
		s.mockCommands.EXPECT().RequestModifications(gomock.Any(), b.ID, "Add a run of show").Return(&commands.ReservationResult{ID: b.ID}, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), b.ID).Return(b.BuildView(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]string{"note": "Add a run of show"}, "")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("pending", body.Status)
	})

	s.Run("error: note required", func() {
		s.mockCommands.EXPECT().RequestModifications(gomock.Any(), b.ID, "").Return(nil, commands.ErrNoteRequired)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "note is required")
	})
}

// ================================================================================
// Sweep
// ================================================================================

func (s *AdminHandlerTestSuite) TestSweep() {
	s.Run("success", func() {
		s.mockSweeper.EXPECT().RunOnce(gomock.Any()).Return(4, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/sweeps", nil, "")

		var body resdto.SweepResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(4, body.Expired)
	})

	s.Run("error: another replica holds the lock", func() {
		s.mockSweeper.EXPECT().RunOnce(gomock.Any()).Return(0, worker.ErrSweepInProgress)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/sweeps", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, api.CodeSweepInProgress)
	})
}
