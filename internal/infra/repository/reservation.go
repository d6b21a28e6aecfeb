package repository

import (
	"context"
	"time"

	"venue-reservation/internal/domain/reservation"
	"venue-reservation/internal/infra"
	"venue-reservation/internal/infra/repository/converter"
	sqlc "venue-reservation/internal/infra/sqlc/generated"
	"venue-reservation/internal/pkg/clock"
	"venue-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationWriteQueries interface {
	CreateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateReservationParams) error
	NextReferenceSequence(ctx context.Context, db sqlc.DBTX, arg sqlc.NextReferenceSequenceParams) (int32, error)
	GetReservationByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	GetReservationByIDForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	GetReservationByReferenceAndEmailForUpdate(ctx context.Context, db sqlc.DBTX, arg sqlc.GetReservationByReferenceAndEmailForUpdateParams) (sqlc.Reservations, error)
	GetReservationByGatewayReferenceForUpdate(ctx context.Context, db sqlc.DBTX, gatewayReference pgtype.Text) (sqlc.Reservations, error)
	LockEventDate(ctx context.Context, db sqlc.DBTX, eventDate pgtype.Date) error
	CountConflictingReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.CountConflictingReservationsParams) (int64, error)
	UpdateReservationState(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationStateParams) (int64, error)
	ExpireOverdueReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.ExpireOverdueReservationsParams) ([]sqlc.Reservations, error)
}

type ReservationRepository struct {
	queries ReservationWriteQueries
}

func NewReservationRepository(queries ReservationWriteQueries) *ReservationRepository {
	return &ReservationRepository{queries: queries}
}

func (r *ReservationRepository) Create(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation) error {
	if err := r.queries.CreateReservation(ctx, tx, converter.ReservationToCreateParams(res)); err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) NextReferenceSequence(ctx context.Context, tx sqlc.DBTX, year int) (int, error) {
	start, end := clock.YearWindow(year)
	seq, err := r.queries.NextReferenceSequence(ctx, tx, sqlc.NextReferenceSequenceParams{
		Year:      int32(year), // #nosec G115 -- four digit year
		YearStart: pgconv.TimeToPgtype(start),
		YearEnd:   pgconv.TimeToPgtype(end),
	})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to allocate reference sequence", err)
	}
	return int(seq), nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByID(ctx, tx, id)
	if err != nil {
		return nil, infra.WrapRepoErr("reservation not found", err)
	}
	return r.toDomain(row)
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, infra.WrapRepoErr("reservation not found", err)
	}
	return r.toDomain(row)
}

func (r *ReservationRepository) FindByReferenceForUpdate(ctx context.Context, tx sqlc.DBTX, ref reservation.ReferenceID, email string) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByReferenceAndEmailForUpdate(ctx, tx, sqlc.GetReservationByReferenceAndEmailForUpdateParams{
		ReferenceID: ref.String(),
		Email:       reservation.NormalizeEmail(email),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("reservation not found for reference and email", err)
	}
	return r.toDomain(row)
}

func (r *ReservationRepository) FindByGatewayReferenceForUpdate(ctx context.Context, tx sqlc.DBTX, gatewayRef string) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByGatewayReferenceForUpdate(ctx, tx, pgconv.StringToPgtype(gatewayRef))
	if err != nil {
		return nil, infra.WrapRepoErr("reservation not found for gateway reference", err)
	}
	return r.toDomain(row)
}

// LockEventDate serializes writers deciding who holds a day until the transaction ends.
func (r *ReservationRepository) LockEventDate(ctx context.Context, tx sqlc.DBTX, day time.Time) error {
	if err := r.queries.LockEventDate(ctx, tx, pgconv.DateToPgtype(day)); err != nil {
		return infra.WrapRepoErr("failed to lock event date", err)
	}
	return nil
}

func (r *ReservationRepository) CountConflicts(ctx context.Context, tx sqlc.DBTX, day time.Time, excludeID uuid.UUID, now time.Time) (int64, error) {
	n, err := r.queries.CountConflictingReservations(ctx, tx, sqlc.CountConflictingReservationsParams{
		EventDate: pgconv.DateToPgtype(day),
		ExcludeID: excludeID,
		Now:       pgconv.TimeToPgtype(now),
	})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count conflicting reservations", err)
	}
	return n, nil
}

func (r *ReservationRepository) Save(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation, expected reservation.Status) (bool, error) {
	n, err := r.queries.UpdateReservationState(ctx, tx, converter.ReservationToUpdateParams(res, expected))
	if err != nil {
		return false, infra.WrapRepoErr("failed to update reservation", err)
	}
	return n == 1, nil
}

func (r *ReservationRepository) ExpireOverdue(ctx context.Context, tx sqlc.DBTX, now time.Time, limit int) ([]*reservation.Reservation, error) {
	rows, err := r.queries.ExpireOverdueReservations(ctx, tx, sqlc.ExpireOverdueReservationsParams{
		Now:        pgconv.TimeToPgtype(now),
		BatchLimit: int32(limit), // #nosec G115 -- bounded by config
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to expire overdue reservations", err)
	}
	out := make([]*reservation.Reservation, 0, len(rows))
	for _, row := range rows {
		res, err := r.toDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *ReservationRepository) toDomain(row sqlc.Reservations) (*reservation.Reservation, error) {
	res, err := converter.ReservationFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation is malformed", err, infra.KindDBFailure)
	}
	return res, nil
}
