//go:build unit

package queries_test

import (
	"context"
	"math"
	"testing"
	"time"

	"venue-reservation/internal/domain/reservation"
	"venue-reservation/internal/infra"
	"venue-reservation/internal/pkg/clock"
	"venue-reservation/internal/pkg/errs"
	"venue-reservation/internal/usecase/queries"
	"venue-reservation/tests/common/builder"
	queriesmock "venue-reservation/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

type ReservationQueriesTestSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	store *queriesmock.MockReservationReadStore
	q     queries.ReservationQueries
}

func (s *ReservationQueriesTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = queriesmock.NewMockReservationReadStore(s.ctrl)
	s.q = queries.NewReservationQueries(s.store, clock.NewMockClock(now))
}

func (s *ReservationQueriesTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestReservationQueriesSuite(t *testing.T) {
	suite.Run(t, new(ReservationQueriesTestSuite))
}

func notFound() error {
	return infra.WrapRepoErr("reservation", errs.New("no rows"), infra.KindNotFound)
}

func (s *ReservationQueriesTestSuite) TestGetByID() {
	s.Run("found", func() {
		s.SetupTest()
		view := builder.NewReservationBuilder().BuildView()
		s.store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		got, err := s.q.GetByID(context.Background(), view.ID)
		s.Require().NoError(err)
		s.Equal(view, got)
	})

	s.Run("missing maps to not found", func() {
		s.SetupTest()
		id := uuid.New()
		s.store.EXPECT().FindByID(gomock.Any(), id).Return(nil, notFound())

		_, err := s.q.GetByID(context.Background(), id)
		s.ErrorIs(err, queries.ErrReservationNotFound)
		s.True(errs.Is(err, errs.ErrNotFound))
	})

	s.Run("database failure passes through", func() {
		s.SetupTest()
		id := uuid.New()
		dbErr := infra.WrapRepoErr("reservation", errs.New("connection refused"))
		s.store.EXPECT().FindByID(gomock.Any(), id).Return(nil, dbErr)

		_, err := s.q.GetByID(context.Background(), id)
		s.True(errs.Is(err, errs.ErrDatabaseOperationFailed))
		s.False(errs.Is(err, errs.ErrNotFound))
	})
}

func (s *ReservationQueriesTestSuite) TestTrack() {
	s.Run("normalizes the reference and hides private fields", func() {
		s.SetupTest()
		b := builder.NewReservationBuilder().AwaitingPayment(now.Add(time.Hour))
		s.store.EXPECT().FindByReferenceID(gomock.Any(), "TECHHUB-2025-001").Return(b.BuildView(), nil)

		got, err := s.q.Track(context.Background(), " techhub-2025-001 ")
		s.Require().NoError(err)
		s.Equal(b.BuildTracking(), got)
		s.Equal("awaiting_payment", got.Status)
	})

	s.Run("malformed reference never reaches the store", func() {
		s.SetupTest()
		_, err := s.q.Track(context.Background(), "TECHHUB-25-1")
		s.True(errs.Is(err, errs.ErrValidation))
	})

	s.Run("unknown reference", func() {
		s.SetupTest()
		s.store.EXPECT().FindByReferenceID(gomock.Any(), "TECHHUB-2025-404").Return(nil, notFound())

		_, err := s.q.Track(context.Background(), "TECHHUB-2025-404")
		s.True(errs.Is(err, errs.ErrNotFound))
	})
}

func (s *ReservationQueriesTestSuite) TestList() {
	s.Run("defaults to the first page of twenty", func() {
		s.SetupTest()
		views := []*queries.ReservationView{builder.NewReservationBuilder().BuildView()}
		s.store.EXPECT().Count(gomock.Any(), nil, nil, nil).Return(int64(41), nil)
		s.store.EXPECT().List(gomock.Any(), nil, nil, nil, queries.DefaultListLimit, 0).Return(views, nil)

		got, err := s.q.List(context.Background(), queries.ListFilter{})
		s.Require().NoError(err)
		s.Equal(&queries.ListResult{Items: views, Total: 41, Page: 1, Pages: 3, Limit: 20}, got)
	})

	s.Run("filters are normalized to days and the limit is capped", func() {
		s.SetupTest()
		status := "pending"
		from := time.Date(2025, 4, 1, 18, 0, 0, 0, time.UTC)
		to := time.Date(2025, 4, 30, 6, 0, 0, 0, time.UTC)
		wantFrom, wantTo := clock.StartOfDay(from), clock.StartOfDay(to)
		s.store.EXPECT().Count(gomock.Any(), &status, &wantFrom, &wantTo).Return(int64(250), nil)
		s.store.EXPECT().List(gomock.Any(), &status, &wantFrom, &wantTo, queries.MaxListLimit, 100).
			Return([]*queries.ReservationView{}, nil)

		got, err := s.q.List(context.Background(), queries.ListFilter{
			Status: &status, StartDate: &from, EndDate: &to, Page: 2, Limit: 500,
		})
		s.Require().NoError(err)
		s.Equal(2, got.Page)
		s.Equal(3, got.Pages)
		s.Equal(queries.MaxListLimit, got.Limit)
	})

	s.Run("page past the end skips the row query", func() {
		s.SetupTest()
		s.store.EXPECT().Count(gomock.Any(), nil, nil, nil).Return(int64(5), nil)

		got, err := s.q.List(context.Background(), queries.ListFilter{Page: 4, Limit: 5})
		s.Require().NoError(err)
		s.Empty(got.Items)
		s.NotNil(got.Items)
		s.Equal(1, got.Pages)
	})

	s.Run("huge page number returns an empty page", func() {
		s.SetupTest()
		s.store.EXPECT().Count(gomock.Any(), nil, nil, nil).Return(int64(40), nil)

		got, err := s.q.List(context.Background(), queries.ListFilter{Page: 500000000000000000, Limit: 20})
		s.Require().NoError(err)
		s.Empty(got.Items)
		s.Equal(500000000000000000, got.Page)
		s.Equal(2, got.Pages)
	})

	s.Run("empty result has zero pages", func() {
		s.SetupTest()
		s.store.EXPECT().Count(gomock.Any(), nil, nil, nil).Return(int64(0), nil)

		got, err := s.q.List(context.Background(), queries.ListFilter{})
		s.Require().NoError(err)
		s.Zero(got.Pages)
	})

	s.Run("unknown status", func() {
		s.SetupTest()
		status := "approved"

		_, err := s.q.List(context.Background(), queries.ListFilter{Status: &status})
		s.ErrorIs(err, reservation.ErrInvalidStatus)
	})

	s.Run("inverted date range", func() {
		s.SetupTest()
		from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, -1)

		_, err := s.q.List(context.Background(), queries.ListFilter{StartDate: &from, EndDate: &to})
		s.True(errs.Is(err, errs.ErrValidation))
	})
}

func (s *ReservationQueriesTestSuite) TestDashboard() {
	s.Run("every status is listed even when zero", func() {
		s.SetupTest()
		today := clock.StartOfDay(now)
		latest := []*queries.ReservationView{builder.NewReservationBuilder().BuildView()}
		s.store.EXPECT().DashboardCounts(gomock.Any(), today, today.AddDate(0, 0, 30), now).Return(&queries.DashboardCounts{
			Total:             7,
			EventsToday:       1,
			UpcomingConfirmed: 2,
			UpcomingAwaiting:  1,
			OverdueAwaiting:   1,
		}, nil)
		s.store.EXPECT().CountByStatus(gomock.Any()).Return(map[string]int64{
			"pending":           3,
			"payment_confirmed": 4,
		}, nil)
		s.store.EXPECT().ListPending(gomock.Any(), 10).Return(latest, nil)

		got, err := s.q.Dashboard(context.Background())
		s.Require().NoError(err)
		s.Equal(int64(7), got.Total)
		s.Equal(int64(1), got.OverdueAwaiting)
		s.Equal(latest, got.LatestPending)
		s.Equal(now, got.GeneratedAt)
		s.Require().Len(got.ByStatus, len(reservation.AllStatuses))

		counts := map[string]int64{}
		for _, sc := range got.ByStatus {
			s.NotEmpty(sc.Label)
			counts[sc.Status] = sc.Count
		}
		s.Equal(int64(3), counts["pending"])
		s.Equal(int64(4), counts["payment_confirmed"])
		s.Equal(int64(0), counts["rejected"])
		s.Contains(counts, "cancelled")
	})

	s.Run("store failure", func() {
		s.SetupTest()
		s.store.EXPECT().DashboardCounts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("dashboard", errs.New("timeout")))

		_, err := s.q.Dashboard(context.Background())
		s.Error(err)
	})
}

func TestPagination(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		pages int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 100, 1},
	}
	for _, c := range cases {
		if got := queries.PageCount(c.total, c.limit); got != c.pages {
			t.Errorf("PageCount(%d, %d) = %d, want %d", c.total, c.limit, got, c.pages)
		}
	}
	if got := queries.ValidateLimit(0); got != queries.DefaultListLimit {
		t.Errorf("ValidateLimit(0) = %d", got)
	}
	offsets := []struct {
		page, limit int
		want        int64
	}{
		{0, 20, 0},
		{1, 20, 0},
		{3, 20, 40},
		{500000000000000000, 20, math.MaxInt64},
		{math.MaxInt, 100, math.MaxInt64},
	}
	for _, c := range offsets {
		if got := queries.Offset(c.page, c.limit); got != c.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", c.page, c.limit, got, c.want)
		}
	}
	if queries.Pageable(math.MaxInt32+1, math.MaxInt64) {
		t.Error("offset beyond int32 must not reach the store")
	}
}
