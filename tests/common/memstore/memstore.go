//go:build unit || e2e

// Package memstore is an in-memory shared.UnitOfWork. Transactions are serialized and
// roll back by restoring a snapshot, which is enough to exercise lifecycle rules.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"venue-reservation/internal/domain/reservation"
	sqlc "venue-reservation/internal/infra/sqlc/generated"
	"venue-reservation/internal/pkg/clock"
	"venue-reservation/internal/pkg/errs"
	"venue-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrNotFound = errs.Wrap(errs.ErrNotFound, "reservation not found")

type Store struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	rows  map[uuid.UUID]*reservation.Reservation
	locks []time.Time

	// Commits counts successful Within calls.
	Commits int
	// BeforeSave runs ahead of each conditional save, e.g. to let a rival writer win.
	BeforeSave func(id uuid.UUID)
}

func New(seed ...*reservation.Reservation) *Store {
	s := &Store{rows: map[uuid.UUID]*reservation.Reservation{}}
	for _, r := range seed {
		s.rows[r.ID()] = clone(r)
	}
	return s
}

// Put inserts or replaces a row outside any transaction, e.g. to simulate a concurrent writer.
func (s *Store) Put(r *reservation.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[r.ID()] = clone(r)
}

func (s *Store) Get(id uuid.UUID) *reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rows[id]; ok {
		return clone(r)
	}
	return nil
}

func (s *Store) All() []*reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*reservation.Reservation, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, clone(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out
}

// LockedDays lists the days claimed through LockEventDate, in order.
func (s *Store) LockedDays() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.locks...)
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(ctx, &memTx{store: s}); err != nil {
		s.mu.Lock()
		s.rows = snapshot
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.Commits++
	s.mu.Unlock()
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, nil)
}

func (s *Store) CommandReads() shared.CommandReads {
	return &commandReads{store: s}
}

func (s *Store) snapshot() map[uuid.UUID]*reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uuid.UUID]*reservation.Reservation, len(s.rows))
	for id, r := range s.rows {
		out[id] = clone(r)
	}
	return out
}

func (s *Store) conflicts(day time.Time, excludeID uuid.UUID, now time.Time) int64 {
	var n int64
	for _, r := range s.rows {
		if r.ID() != excludeID && clock.SameDay(r.EventDate(), day) && r.HoldsDate(now) {
			n++
		}
	}
	return n
}

type memTx struct {
	store *Store
}

func (t *memTx) Reservations() shared.ReservationRepository { return &repo{store: t.store} }
func (t *memTx) DB() sqlc.DBTX                              { return nil }

type repo struct {
	store *Store
}

func (r *repo) Create(_ context.Context, _ sqlc.DBTX, res *reservation.Reservation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.rows {
		if existing.ReferenceID() == res.ReferenceID() {
			return errs.New("duplicate reference id")
		}
	}
	r.store.rows[res.ID()] = clone(res)
	return nil
}

func (r *repo) NextReferenceSequence(_ context.Context, _ sqlc.DBTX, year int) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	next := 1
	for _, res := range r.store.rows {
		if res.ReferenceID().Year() == year && res.ReferenceID().Sequence() >= next {
			next = res.ReferenceID().Sequence() + 1
		}
	}
	return next, nil
}

func (r *repo) FindByID(_ context.Context, _ sqlc.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	if res := r.store.Get(id); res != nil {
		return res, nil
	}
	return nil, ErrNotFound
}

func (r *repo) FindByIDForUpdate(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *repo) FindByReferenceForUpdate(_ context.Context, _ sqlc.DBTX, ref reservation.ReferenceID, email string) (*reservation.Reservation, error) {
	return r.find(func(res *reservation.Reservation) bool {
		return res.ReferenceID() == ref && res.Email() == reservation.NormalizeEmail(email)
	})
}

func (r *repo) FindByGatewayReferenceForUpdate(_ context.Context, _ sqlc.DBTX, gatewayRef string) (*reservation.Reservation, error) {
	return r.find(func(res *reservation.Reservation) bool {
		return res.Session() != nil && res.Session().Reference == gatewayRef
	})
}

func (r *repo) LockEventDate(_ context.Context, _ sqlc.DBTX, day time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.locks = append(r.store.locks, clock.StartOfDay(day))
	return nil
}

func (r *repo) CountConflicts(_ context.Context, _ sqlc.DBTX, day time.Time, excludeID uuid.UUID, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.conflicts(day, excludeID, now), nil
}

func (r *repo) Save(_ context.Context, _ sqlc.DBTX, res *reservation.Reservation, expected reservation.Status) (bool, error) {
	if r.store.BeforeSave != nil {
		r.store.BeforeSave(res.ID())
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.rows[res.ID()]
	if !ok || current.Status() != expected {
		return false, nil
	}
	r.store.rows[res.ID()] = clone(res)
	return true, nil
}

func (r *repo) ExpireOverdue(_ context.Context, _ sqlc.DBTX, now time.Time, limit int) ([]*reservation.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var overdue []*reservation.Reservation
	for _, res := range r.store.rows {
		if res.IsOverdue(now) {
			overdue = append(overdue, res)
		}
	}
	sort.Slice(overdue, func(i, j int) bool {
		return overdue[i].PaymentDeadline().Before(*overdue[j].PaymentDeadline())
	})
	if len(overdue) > limit {
		overdue = overdue[:limit]
	}

	out := make([]*reservation.Reservation, 0, len(overdue))
	for _, res := range overdue {
		next := clone(res)
		if err := next.Expire(now); err != nil {
			return nil, err
		}
		r.store.rows[next.ID()] = next
		out = append(out, clone(next))
	}
	return out, nil
}

func (r *repo) find(match func(*reservation.Reservation) bool) (*reservation.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, res := range r.store.rows {
		if match(res) {
			return clone(res), nil
		}
	}
	return nil, ErrNotFound
}

type commandReads struct {
	store *Store
}

func (c *commandReads) ReservationByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	if res := c.store.Get(id); res != nil {
		return res, nil
	}
	return nil, ErrNotFound
}

func (c *commandReads) HasDateConflict(_ context.Context, day time.Time, excludeID uuid.UUID, now time.Time) (bool, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.store.conflicts(day, excludeID, now) > 0, nil
}

func clone(r *reservation.Reservation) *reservation.Reservation {
	var session *reservation.GatewaySession
	if s := r.Session(); s != nil {
		cp := *s
		session = &cp
	}
	return reservation.ReconstructReservation(reservation.ReconstructParams{
		ID:              r.ID(),
		ReferenceID:     r.ReferenceID(),
		Applicant:       r.Applicant(),
		Status:          r.Status(),
		PaymentStatus:   r.PaymentStatus(),
		PaymentDeadline: copyTime(r.PaymentDeadline()),
		Session:         session,
		RejectionReason: r.RejectionReason(),
		PaidAt:          copyTime(r.PaidAt()),
		CreatedAt:       r.CreatedAt(),
		UpdatedAt:       r.UpdatedAt(),
	})
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
