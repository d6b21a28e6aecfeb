package readstore

import (
	"context"
	"time"

	"venue-reservation/internal/domain/reservation"
	"venue-reservation/internal/infra"
	sqlc "venue-reservation/internal/infra/sqlc/generated"
	"venue-reservation/internal/pkg/pgconv"
	"venue-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationViewQueries interface {
	GetReservationByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	GetReservationByReferenceID(ctx context.Context, db sqlc.DBTX, referenceID string) (sqlc.Reservations, error)
	ListReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsParams) ([]sqlc.Reservations, error)
	CountReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.CountReservationsParams) (int64, error)
	ListPendingReservations(ctx context.Context, db sqlc.DBTX, pageLimit int32) ([]sqlc.Reservations, error)
	CountReservationsByStatus(ctx context.Context, db sqlc.DBTX) ([]sqlc.CountReservationsByStatusRow, error)
	GetDashboardCounts(ctx context.Context, db sqlc.DBTX, arg sqlc.GetDashboardCountsParams) (sqlc.GetDashboardCountsRow, error)
	CountConflictingReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.CountConflictingReservationsParams) (int64, error)
}

type ReservationReadStore struct {
	queries ReservationViewQueries
	db      sqlc.DBTX
}

func NewReservationReadStore(queries ReservationViewQueries, db sqlc.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationByID(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get reservation view by id", err)
	}
	return ToReservationView(row), nil
}

func (r *ReservationReadStore) FindByReferenceID(ctx context.Context, ref string) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationByReferenceID(ctx, r.db, ref)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get reservation view by reference", err)
	}
	return ToReservationView(row), nil
}

func (r *ReservationReadStore) List(ctx context.Context, status *string, from, to *time.Time, limit, offset int) ([]*queries.ReservationView, error) {
	rows, err := r.queries.ListReservations(ctx, r.db, sqlc.ListReservationsParams{
		Status:     pgconv.StringPtrToPgtype(status),
		FromDate:   pgconv.DatePtrToPgtype(from),
		ToDate:     pgconv.DatePtrToPgtype(to),
		PageLimit:  int32(limit),  // #nosec G115 -- bounded by queries.MaxListLimit
		PageOffset: int32(offset), // #nosec G115 -- queries.Pageable caps it at MaxInt32
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	return mapRows(rows), nil
}

func (r *ReservationReadStore) Count(ctx context.Context, status *string, from, to *time.Time) (int64, error) {
	n, err := r.queries.CountReservations(ctx, r.db, sqlc.CountReservationsParams{
		Status:   pgconv.StringPtrToPgtype(status),
		FromDate: pgconv.DatePtrToPgtype(from),
		ToDate:   pgconv.DatePtrToPgtype(to),
	})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count reservations", err)
	}
	return n, nil
}

func (r *ReservationReadStore) ListPending(ctx context.Context, limit int) ([]*queries.ReservationView, error) {
	rows, err := r.queries.ListPendingReservations(ctx, r.db, int32(limit)) // #nosec G115
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list pending reservations", err)
	}
	return mapRows(rows), nil
}

func (r *ReservationReadStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.queries.CountReservationsByStatus(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count reservations by status", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *ReservationReadStore) DashboardCounts(ctx context.Context, today, horizon, now time.Time) (*queries.DashboardCounts, error) {
	row, err := r.queries.GetDashboardCounts(ctx, r.db, sqlc.GetDashboardCountsParams{
		Today:   pgconv.DateToPgtype(today),
		Horizon: pgconv.DateToPgtype(horizon),
		Now:     pgconv.TimeToPgtype(now),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load dashboard counts", err)
	}
	return &queries.DashboardCounts{
		Total:             row.Total,
		EventsToday:       row.EventsToday,
		UpcomingConfirmed: row.UpcomingConfirmed,
		UpcomingAwaiting:  row.UpcomingAwaiting,
		OverdueAwaiting:   row.OverdueAwaiting,
	}, nil
}

// HasDateConflict answers outside any lock; writers re-check under LockEventDate.
func (r *ReservationReadStore) HasDateConflict(ctx context.Context, day time.Time, excludeID uuid.UUID, now time.Time) (bool, error) {
	n, err := r.queries.CountConflictingReservations(ctx, r.db, sqlc.CountConflictingReservationsParams{
		EventDate: pgconv.DateToPgtype(day),
		ExcludeID: excludeID,
		Now:       pgconv.TimeToPgtype(now),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to check date conflict", err)
	}
	return n > 0, nil
}

func ToReservationView(row sqlc.Reservations) *queries.ReservationView {
	status := reservation.Status(row.Status)
	return &queries.ReservationView{
		ID:                 row.ID,
		ReferenceID:        row.ReferenceID,
		FullName:           row.FullName,
		Email:              row.Email,
		Phone:              row.Phone,
		OrganizationName:   row.OrganizationName,
		EventTitle:         row.EventTitle,
		EventDate:          pgconv.DateFromPgtype(row.EventDate),
		Description:        row.Description,
		Link:               pgconv.StringPtrFromPgtype(row.Link),
		Status:             status.String(),
		StatusLabel:        status.Label(),
		PaymentStatus:      row.PaymentStatus,
		PaymentDeadline:    pgconv.TimePtrFromPgtype(row.PaymentDeadline),
		PaymentAmountMinor: pgconv.Int64PtrFromPgtype(row.PaymentAmountMinor),
		PaymentReference:   pgconv.StringPtrFromPgtype(row.GatewayReference),
		PaymentURL:         pgconv.StringPtrFromPgtype(row.GatewayAuthorizationUrl),
		RejectionReason:    pgconv.StringPtrFromPgtype(row.RejectionReason),
		PaidAt:             pgconv.TimePtrFromPgtype(row.PaidAt),
		CreatedAt:          pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:          pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

func mapRows(rows []sqlc.Reservations) []*queries.ReservationView {
	out := make([]*queries.ReservationView, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToReservationView(row))
	}
	return out
}
