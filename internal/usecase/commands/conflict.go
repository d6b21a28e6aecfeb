package commands

import (
	"context"
	"time"

	"venue-reservation/internal/pkg/errs"
	"venue-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrDateAlreadyReserved = errs.Wrap(errs.ErrConflict, "event date already reserved")

// ConflictChecker decides whether a day is held by another awaiting (unexpired) or
// confirmed reservation.
type ConflictChecker struct {
	uow shared.UnitOfWork
}

func NewConflictChecker(uow shared.UnitOfWork) *ConflictChecker {
	return &ConflictChecker{uow: uow}
}

// Check is a point-in-time answer used to fail fast before any side effect.
func (c *ConflictChecker) Check(ctx context.Context, day time.Time, excludeID uuid.UUID, now time.Time) error {
	taken, err := c.uow.CommandReads().HasDateConflict(ctx, day, excludeID, now)
	if err != nil {
		return err
	}
	if taken {
		return ErrDateAlreadyReserved
	}
	return nil
}

// Claim locks the day for the rest of tx and re-checks it. A nil result means the
// caller may move its record into a date-holding status before tx commits.
func (c *ConflictChecker) Claim(ctx context.Context, tx shared.Tx, day time.Time, excludeID uuid.UUID, now time.Time) error {
	repo := tx.Reservations()
	if err := repo.LockEventDate(ctx, tx.DB(), day); err != nil {
		return err
	}
	n, err := repo.CountConflicts(ctx, tx.DB(), day, excludeID, now)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrDateAlreadyReserved
	}
	return nil
}
