// Package notice renders the emails sent to requesters on each status change.
package notice

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"venue-reservation/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindReceived     Kind = "received"
	KindApproved     Kind = "approved"
	KindRejected     Kind = "rejected"
	KindExpired      Kind = "expired"
	KindNeedsChanges Kind = "needs_changes"
	KindCancelled    Kind = "cancelled"
	KindResubmitted  Kind = "resubmitted"
	KindConfirmed    Kind = "confirmed"
)

var subjects = map[Kind]string{
	KindReceived:     "Reservation Received",
	KindApproved:     "Reservation Approved",
	KindRejected:     "Reservation Rejected",
	KindExpired:      "Reservation Rejected",
	KindNeedsChanges: "Reservation Needs Changes",
	KindCancelled:    "Reservation Cancelled",
	KindResubmitted:  "Reservation Resubmitted",
	KindConfirmed:    "Reservation Confirmed",
}

var bodies = template.Must(template.New("notice").Parse(`
{{define "received"}}<p>Hello {{.FullName}},</p><p>We received your application for <strong>{{.EventTitle}}</strong> on {{.EventDate}}.</p><p>Your reference is <strong>{{.ReferenceID}}</strong>. Keep it to track, cancel or resubmit the request.</p>{{end}}
{{define "approved"}}<p>Reference: {{.ReferenceID}}</p><p>Your application for {{.EventDate}} was approved. Please pay {{.Amount}} to confirm the booking.</p><p>Pay here: <a href="{{.PayLink}}">{{.PayLink}}</a></p><p>Deadline: {{.Deadline}}</p>{{end}}
{{define "rejected"}}<p>Your application {{.ReferenceID}} was rejected.</p>{{if .Note}}<p>{{.Note}}</p>{{end}}{{end}}
{{define "expired"}}<p>Your application {{.ReferenceID}} was rejected because payment was not received before {{.Deadline}}.</p><p>You may resubmit it with your reference.</p>{{end}}
{{define "needs_changes"}}<p>Please modify your application {{.ReferenceID}}.</p>{{if .Note}}<p>{{.Note}}</p>{{end}}{{end}}
{{define "cancelled"}}<p>Your application {{.ReferenceID}} has been cancelled.</p>{{end}}
{{define "resubmitted"}}<p>Your application {{.ReferenceID}} has been resubmitted for review.</p>{{end}}
{{define "confirmed"}}<p>Payment confirmed for {{.ReferenceID}}.</p><p>{{.EventTitle}} is booked for {{.EventDate}}.</p>{{end}}
`))

var ErrUnknownKind = errs.New("unknown notice kind")

// Data is the union of everything a template may print; unused fields are ignored.
type Data struct {
	ReferenceID string
	FullName    string
	EventTitle  string
	EventDate   time.Time
	AmountMinor int64
	Currency    string
	PayLink     string
	Deadline    *time.Time
	Note        string
}

type Message struct {
	To      string
	Subject string
	HTML    string
}

func Render(kind Kind, to string, d Data) (Message, error) {
	subject, ok := subjects[kind]
	if !ok {
		return Message{}, errs.Wrapf(ErrUnknownKind, "kind %q", kind)
	}

	view := map[string]any{
		"ReferenceID": d.ReferenceID,
		"FullName":    d.FullName,
		"EventTitle":  d.EventTitle,
		"EventDate":   d.EventDate.Format("Monday, 2 January 2006"),
		"Amount":      FormatAmount(d.AmountMinor, d.Currency),
		"PayLink":     d.PayLink,
		"Note":        d.Note,
		"Deadline":    "",
	}
	if d.Deadline != nil {
		view["Deadline"] = d.Deadline.UTC().Format(time.RFC1123)
	}

	var buf bytes.Buffer
	if err := bodies.ExecuteTemplate(&buf, string(kind), view); err != nil {
		return Message{}, errs.Wrapf(err, "render %s notice", kind)
	}
	return Message{To: to, Subject: subject, HTML: buf.String()}, nil
}

// FormatAmount prints minor units as a two-decimal major amount, e.g. "NGN 1,000.00".
func FormatAmount(minor int64, currency string) string {
	major := decimal.New(minor, -2).StringFixed(2)
	out := groupThousands(major)
	if currency == "" {
		return out
	}
	return currency + " " + out
}

func groupThousands(s string) string {
	sign := ""
	if s != "" && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
