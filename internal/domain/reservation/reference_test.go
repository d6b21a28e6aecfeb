//go:build unit

package reservation_test

import (
	"testing"

	"venue-reservation/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReferenceID(t *testing.T) {
	testCases := []struct {
		name     string
		prefix   string
		year     int
		seq      int
		expected string
		err      error
	}{
		{name: "pads to three digits", prefix: "TECHHUB", year: 2025, seq: 7, expected: "TECHHUB-2025-007"},
		{name: "grows past three digits", prefix: "TECHHUB", year: 2025, seq: 1234, expected: "TECHHUB-2025-1234"},
		{name: "lower-case prefix", prefix: "techhub", year: 2025, seq: 1, err: reservation.ErrInvalidPrefix},
		{name: "empty prefix", prefix: "", year: 2025, seq: 1, err: reservation.ErrInvalidPrefix},
		{name: "zero sequence", prefix: "HUB", year: 2025, seq: 0, err: reservation.ErrInvalidReferenceID},
		{name: "five digit year", prefix: "HUB", year: 12025, seq: 1, err: reservation.ErrInvalidReferenceID},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := reservation.NewReferenceID(tc.prefix, tc.year, tc.seq)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ref.String())
			assert.Equal(t, tc.year, ref.Year())
			assert.Equal(t, tc.seq, ref.Sequence())
		})
	}
}

func TestParseReferenceID(t *testing.T) {
	ref, err := reservation.ParseReferenceID("  techhub-2025-042 ")
	require.NoError(t, err)
	assert.Equal(t, "TECHHUB-2025-042", ref.String())

	for _, s := range []string{"", "TECHHUB-25-001", "TECHHUB-2025-01", "TECHHUB_2025_001", "2025-001"} {
		_, err := reservation.ParseReferenceID(s)
		assert.ErrorIs(t, err, reservation.ErrInvalidReferenceID, s)
	}
}
