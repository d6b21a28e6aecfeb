package reservation

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"venue-reservation/internal/pkg/clock"

	"github.com/jinzhu/copier"
)

const (
	MaxShortFieldLength  = 200
	MaxDescriptionLength = 5000
	MaxLinkLength        = 2048
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)
)

// Applicant holds the requester-supplied part of a reservation request.
type Applicant struct {
	FullName         string
	Email            string
	Phone            string
	OrganizationName string
	EventTitle       string
	EventDate        time.Time
	Description      string
	Link             string
}

// ApplicantOverrides carries the fields a requester chose to change on resubmission.
// Nil means "keep the current value".
type ApplicantOverrides struct {
	FullName         *string
	Email            *string
	Phone            *string
	OrganizationName *string
	EventTitle       *string
	EventDate        *time.Time
	Description      *string
	Link             *string
}

// NewApplicant trims every field, lower-cases the email, normalizes the event date to
// its UTC calendar day and reports all invalid fields at once.
func NewApplicant(a Applicant) (Applicant, error) {
	out := Applicant{
		FullName:         strings.TrimSpace(a.FullName),
		Email:            NormalizeEmail(a.Email),
		Phone:            strings.TrimSpace(a.Phone),
		OrganizationName: strings.TrimSpace(a.OrganizationName),
		EventTitle:       strings.TrimSpace(a.EventTitle),
		Description:      strings.TrimSpace(a.Description),
		Link:             strings.TrimSpace(a.Link),
	}
	if !a.EventDate.IsZero() {
		out.EventDate = clock.StartOfDay(a.EventDate)
	}

	fields := map[string]string{}
	requireText(fields, "fullName", out.FullName, MaxShortFieldLength)
	requireText(fields, "organizationName", out.OrganizationName, MaxShortFieldLength)
	requireText(fields, "eventTitle", out.EventTitle, MaxShortFieldLength)
	requireText(fields, "description", out.Description, MaxDescriptionLength)

	switch {
	case out.Email == "":
		fields["email"] = "is required"
	case !emailRegex.MatchString(out.Email):
		fields["email"] = "is not a valid email address"
	}

	switch {
	case out.Phone == "":
		fields["phone"] = "is required"
	case !phoneRegex.MatchString(out.Phone):
		fields["phone"] = "is not a valid phone number"
	}

	if out.EventDate.IsZero() {
		fields["eventDate"] = "is required"
	}

	if out.Link != "" {
		if utf8.RuneCountInString(out.Link) > MaxLinkLength {
			fields["link"] = "is too long"
		} else if u, err := url.ParseRequestURI(out.Link); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fields["link"] = "must be an http(s) URL"
		}
	}

	if len(fields) > 0 {
		return Applicant{}, &ValidationError{Fields: fields}
	}
	return out, nil
}

// Apply returns a copy of a with every non-nil override applied, re-validated.
func (a Applicant) Apply(o ApplicantOverrides) (Applicant, error) {
	next := a
	if err := copier.CopyWithOption(&next, &o, copier.Option{IgnoreEmpty: true}); err != nil {
		return Applicant{}, err
	}
	return NewApplicant(next)
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func requireText(fields map[string]string, name, value string, maxLen int) {
	switch {
	case value == "":
		fields[name] = "is required"
	case utf8.RuneCountInString(value) > maxLen:
		fields[name] = "is too long"
	}
}

// GatewaySession is the payment session opened at approval time.
type GatewaySession struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
	AmountMinor      int64
}

func (s GatewaySession) Validate() error {
	if s.Reference == "" || s.AuthorizationURL == "" || s.AmountMinor <= 0 {
		return ErrMissingSession
	}
	return nil
}
