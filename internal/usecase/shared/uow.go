package shared

import (
	"context"
	"time"

	"venue-reservation/internal/domain/reservation"
	sqlc "venue-reservation/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-query consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	DB() sqlc.DBTX
}

// CommandReads serves the checks a command makes before it is worth opening a transaction.
type CommandReads interface {
	ReservationByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	HasDateConflict(ctx context.Context, day time.Time, excludeID uuid.UUID, now time.Time) (bool, error)
}

// ReservationRepository writes are conditional on the status the caller last observed;
// Save reports false when another writer got there first.
type ReservationRepository interface {
	Create(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation) error
	NextReferenceSequence(ctx context.Context, tx sqlc.DBTX, year int) (int, error)
	FindByID(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*reservation.Reservation, error)
	FindByIDForUpdate(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*reservation.Reservation, error)
	FindByReferenceForUpdate(ctx context.Context, tx sqlc.DBTX, ref reservation.ReferenceID, email string) (*reservation.Reservation, error)
	FindByGatewayReferenceForUpdate(ctx context.Context, tx sqlc.DBTX, gatewayRef string) (*reservation.Reservation, error)
	LockEventDate(ctx context.Context, tx sqlc.DBTX, day time.Time) error
	CountConflicts(ctx context.Context, tx sqlc.DBTX, day time.Time, excludeID uuid.UUID, now time.Time) (int64, error)
	Save(ctx context.Context, tx sqlc.DBTX, res *reservation.Reservation, expected reservation.Status) (bool, error)
	ExpireOverdue(ctx context.Context, tx sqlc.DBTX, now time.Time, limit int) ([]*reservation.Reservation, error)
}
