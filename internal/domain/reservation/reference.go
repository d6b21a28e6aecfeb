package reservation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	prefixPattern    = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,15}$`)
	referencePattern = regexp.MustCompile(`^([A-Z][A-Z0-9]{0,15})-(\d{4})-(\d{3,})$`)
)

// ReferenceID is the human-readable PREFIX-YYYY-NNN identifier handed to requesters.
type ReferenceID struct {
	value string
}

func NewReferenceID(prefix string, year, sequence int) (ReferenceID, error) {
	if !prefixPattern.MatchString(prefix) {
		return ReferenceID{}, ErrInvalidPrefix
	}
	if year < 1000 || year > 9999 || sequence < 1 {
		return ReferenceID{}, ErrInvalidReferenceID
	}
	return ReferenceID{value: fmt.Sprintf("%s-%04d-%03d", prefix, year, sequence)}, nil
}

func ParseReferenceID(s string) (ReferenceID, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !referencePattern.MatchString(s) {
		return ReferenceID{}, ErrInvalidReferenceID
	}
	return ReferenceID{value: s}, nil
}

func (r ReferenceID) String() string {
	return r.value
}

func (r ReferenceID) IsZero() bool {
	return r.value == ""
}

func (r ReferenceID) Year() int {
	m := referencePattern.FindStringSubmatch(r.value)
	if m == nil {
		return 0
	}
	y, _ := strconv.Atoi(m[2])
	return y
}

func (r ReferenceID) Sequence() int {
	m := referencePattern.FindStringSubmatch(r.value)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[3])
	return n
}
