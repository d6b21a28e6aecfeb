package commands

import (
	"context"

	"venue-reservation/internal/domain/reservation"
	"venue-reservation/internal/pkg/clock"
	"venue-reservation/internal/usecase/shared"
)

// ReferenceGenerator allocates PREFIX-YYYY-NNN identifiers inside the caller's transaction,
// so a rolled back submission does not leave a gap.
type ReferenceGenerator struct {
	prefix string
	clock  clock.Clock
}

func NewReferenceGenerator(prefix string, clk clock.Clock) *ReferenceGenerator {
	return &ReferenceGenerator{prefix: prefix, clock: clk}
}

func (g *ReferenceGenerator) Next(ctx context.Context, tx shared.Tx) (reservation.ReferenceID, error) {
	year := g.clock.Now().UTC().Year()
	seq, err := tx.Reservations().NextReferenceSequence(ctx, tx.DB(), year)
	if err != nil {
		return reservation.ReferenceID{}, err
	}
	return reservation.NewReferenceID(g.prefix, year, seq)
}
