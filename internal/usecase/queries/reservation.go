package queries

import (
	"context"
	"time"

	"venue-reservation/internal/domain/reservation"
	"venue-reservation/internal/infra"
	"venue-reservation/internal/pkg/clock"
	"venue-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	latestPendingLimit = 10
	upcomingHorizon    = 30 // days
)

var ErrReservationNotFound = errs.Wrap(errs.ErrNotFound, "reservation not found")

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByReferenceID(ctx context.Context, ref string) (*ReservationView, error)
	List(ctx context.Context, status *string, from, to *time.Time, limit, offset int) ([]*ReservationView, error)
	Count(ctx context.Context, status *string, from, to *time.Time) (int64, error)
	ListPending(ctx context.Context, limit int) ([]*ReservationView, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	DashboardCounts(ctx context.Context, today, horizon, now time.Time) (*DashboardCounts, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	Track(ctx context.Context, referenceID string) (*TrackingView, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	ListPending(ctx context.Context) ([]*ReservationView, error)
	Dashboard(ctx context.Context) (*DashboardView, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
	clock clock.Clock
}

func NewReservationQueries(store ReservationReadStore, clk clock.Clock) ReservationQueries {
	return &reservationQueriesImpl{store: store, clock: clk}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	v, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return v, nil
}

func (q *reservationQueriesImpl) Track(ctx context.Context, referenceID string) (*TrackingView, error) {
	ref, err := reservation.ParseReferenceID(referenceID)
	if err != nil {
		return nil, err
	}
	v, err := q.store.FindByReferenceID(ctx, ref.String())
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &TrackingView{
		ReferenceID:      v.ReferenceID,
		EventTitle:       v.EventTitle,
		OrganizationName: v.OrganizationName,
		Status:           v.Status,
		StatusLabel:      v.StatusLabel,
		PaymentStatus:    v.PaymentStatus,
		EventDate:        v.EventDate,
	}, nil
}

func (q *reservationQueriesImpl) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.Status != nil {
		if _, err := reservation.NewStatus(*filter.Status); err != nil {
			return nil, err
		}
	}
	from, to := dayPtr(filter.StartDate), dayPtr(filter.EndDate)
	if from != nil && to != nil && to.Before(*from) {
		return nil, errs.Wrap(errs.ErrValidation, "endDate is before startDate")
	}

	limit := ValidateLimit(filter.Limit)
	page := ValidatePage(filter.Page)

	total, err := q.store.Count(ctx, filter.Status, from, to)
	if err != nil {
		return nil, err
	}
	items := []*ReservationView{}
	if offset := Offset(page, limit); Pageable(offset, total) {
		items, err = q.store.List(ctx, filter.Status, from, to, limit, int(offset))
		if err != nil {
			return nil, err
		}
	}

	return &ListResult{
		Items: items,
		Total: total,
		Page:  page,
		Pages: PageCount(total, limit),
		Limit: limit,
	}, nil
}

func (q *reservationQueriesImpl) ListPending(ctx context.Context) ([]*ReservationView, error) {
	return q.store.ListPending(ctx, MaxListLimit)
}

func (q *reservationQueriesImpl) Dashboard(ctx context.Context) (*DashboardView, error) {
	now := q.clock.Now()
	today := clock.StartOfDay(now)
	horizon := today.AddDate(0, 0, upcomingHorizon)

	counts, err := q.store.DashboardCounts(ctx, today, horizon, now)
	if err != nil {
		return nil, err
	}
	byStatus, err := q.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := q.store.ListPending(ctx, latestPendingLimit)
	if err != nil {
		return nil, err
	}

	statuses := make([]StatusCount, 0, len(reservation.AllStatuses))
	for _, s := range reservation.AllStatuses {
		statuses = append(statuses, StatusCount{
			Status: s.String(),
			Label:  s.Label(),
			Count:  byStatus[s.String()],
		})
	}

	return &DashboardView{
		Total:             counts.Total,
		ByStatus:          statuses,
		EventsToday:       counts.EventsToday,
		UpcomingConfirmed: counts.UpcomingConfirmed,
		UpcomingAwaiting:  counts.UpcomingAwaiting,
		OverdueAwaiting:   counts.OverdueAwaiting,
		LatestPending:     latest,
		GeneratedAt:       now,
	}, nil
}

func mapNotFound(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrReservationNotFound
	}
	return err
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := clock.StartOfDay(*t)
	return &d
}
