//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"venue-reservation/internal/pkg/clock"
	"venue-reservation/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// InsertReservation writes the builder's record as-is and bumps the reference counter
// so later submissions do not collide with it.
func InsertReservation(t *testing.T, db DBLike, b *builder.ReservationBuilder) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var (
		amount                     *int64
		gatewayRef, payURL, access *string
		reason                     *string
		link                       *string
	)
	if b.Session != nil {
		amount, gatewayRef, payURL, access = &b.Session.AmountMinor, &b.Session.Reference, &b.Session.AuthorizationURL, &b.Session.AccessCode
	}
	if r := b.RejectionReason.String(); r != "" {
		reason = &r
	}
	if b.Link != "" {
		link = &b.Link
	}

	_, err := db.Exec(ctx, `
		INSERT INTO reservations (
		    id, reference_id, full_name, email, phone, organization_name, event_title, event_date,
		    description, link, status, payment_status, payment_deadline, payment_amount_minor,
		    gateway_reference, gateway_authorization_url, gateway_access_code, rejection_reason,
		    paid_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		b.ID, b.ReferenceID().String(), b.FullName, b.Email, b.Phone, b.OrganizationName, b.EventTitle,
		clock.FormatDay(b.EventDate), b.Description, link, b.Status.String(), b.PaymentStatus.String(),
		b.PaymentDeadline, amount, gatewayRef, payURL, access, reason, b.PaidAt, b.CreatedAt, b.UpdatedAt)
	require.NoError(t, err, "failed to insert reservation fixture")

	_, err = db.Exec(ctx, `
		INSERT INTO reference_counters (year, last_value) VALUES ($1, $2)
		ON CONFLICT (year) DO UPDATE SET last_value = GREATEST(reference_counters.last_value, EXCLUDED.last_value)`,
		b.Year, b.Sequence)
	require.NoError(t, err, "failed to bump reference counter")

	return b.ID
}

// ReservationState is the subset of a row e2e tests assert on.
type ReservationState struct {
	Status           string
	PaymentStatus    string
	PaymentDeadline  *time.Time
	GatewayReference *string
	RejectionReason  *string
	PaidAt           *time.Time
}

func LoadReservationState(t *testing.T, db DBLike, id uuid.UUID) ReservationState {
	t.Helper()

	var st ReservationState
	err := db.QueryRow(context.Background(), `
		SELECT status, payment_status, payment_deadline, gateway_reference, rejection_reason, paid_at
		FROM reservations WHERE id = $1`, id).
		Scan(&st.Status, &st.PaymentStatus, &st.PaymentDeadline, &st.GatewayReference, &st.RejectionReason, &st.PaidAt)
	require.NoError(t, err, "failed to load reservation")
	return st
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates every application table
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
