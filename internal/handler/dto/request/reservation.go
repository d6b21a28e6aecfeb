package request

import (
	"time"

	"venue-reservation/internal/domain/reservation"
	"venue-reservation/internal/pkg/clock"
	"venue-reservation/internal/pkg/patch"
	"venue-reservation/internal/usecase/commands"
	"venue-reservation/internal/usecase/queries"
)

type SubmitReservationRequest struct {
	FullName         string `json:"fullName" binding:"required,max=200"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"required"`
	OrganizationName string `json:"organizationName" binding:"required,max=200"`
	EventTitle       string `json:"eventTitle" binding:"required,max=200"`
	EventDate        string `json:"eventDate" binding:"required"`
	Description      string `json:"description" binding:"required,max=5000"`
	Link             string `json:"link" binding:"omitempty,max=2048"`
}

func (r SubmitReservationRequest) ToInput() (commands.SubmitInput, error) {
	day, err := parseEventDate(r.EventDate)
	if err != nil {
		return commands.SubmitInput{}, err
	}
	return commands.SubmitInput{
		FullName:         r.FullName,
		Email:            r.Email,
		Phone:            r.Phone,
		OrganizationName: r.OrganizationName,
		EventTitle:       r.EventTitle,
		EventDate:        day,
		Description:      r.Description,
		Link:             r.Link,
	}, nil
}

type TrackQuery struct {
	ReferenceID string `form:"referenceId" binding:"required"`
}

type CancelReservationRequest struct {
	ReferenceID string `json:"referenceId" binding:"required"`
	Email       string `json:"email" binding:"required"`
}

func (r CancelReservationRequest) ToInput() commands.CancelInput {
	return commands.CancelInput{ReferenceID: r.ReferenceID, Email: r.Email}
}

// ResubmitReservationRequest identifies the record by reference and email; every other
// field is optional and only replaces the stored value when present.
type ResubmitReservationRequest struct {
	ReferenceID      string  `json:"referenceId" binding:"required"`
	Email            string  `json:"email" binding:"required"`
	FullName         *string `json:"fullName" binding:"omitempty,max=200"`
	NewEmail         *string `json:"newEmail" binding:"omitempty,email"`
	Phone            *string `json:"phone"`
	OrganizationName *string `json:"organizationName" binding:"omitempty,max=200"`
	EventTitle       *string `json:"eventTitle" binding:"omitempty,max=200"`
	EventDate        *string `json:"eventDate"`
	Description      *string `json:"description" binding:"omitempty,max=5000"`
	Link             *string `json:"link" binding:"omitempty,max=2048"`
}

func (r ResubmitReservationRequest) ToInput() (commands.ResubmitInput, error) {
	overrides := reservation.ApplicantOverrides{
		FullName:         r.FullName,
		Email:            r.NewEmail,
		Phone:            r.Phone,
		OrganizationName: r.OrganizationName,
		EventTitle:       r.EventTitle,
		Description:      r.Description,
		Link:             r.Link,
	}
	if r.EventDate != nil {
		day, err := parseEventDate(*r.EventDate)
		if err != nil {
			return commands.ResubmitInput{}, err
		}
		overrides.EventDate = &day
	}
	return commands.ResubmitInput{
		ReferenceID: r.ReferenceID,
		Email:       r.Email,
		Overrides:   overrides,
	}, nil
}

type ListReservationsQuery struct {
	Status    *string `form:"status"`
	StartDate *string `form:"startDate"`
	EndDate   *string `form:"endDate"`
	Page      *int    `form:"page" binding:"omitempty,min=1"`
	Limit     *int    `form:"limit" binding:"omitempty,min=1"`
}

func (q ListReservationsQuery) ToFilter() (queries.ListFilter, error) {
	filter := queries.ListFilter{
		Status: patch.TrimmedOrNil(q.Status),
		Page:   patch.Coalesce(q.Page, 1),
		Limit:  patch.Coalesce(q.Limit, queries.DefaultListLimit),
	}
	var err error
	if filter.StartDate, err = optionalDay("startDate", q.StartDate); err != nil {
		return queries.ListFilter{}, err
	}
	if filter.EndDate, err = optionalDay("endDate", q.EndDate); err != nil {
		return queries.ListFilter{}, err
	}
	return filter, nil
}

type DecisionRequest struct {
	Note string `json:"note" binding:"max=2000"`
}

func parseEventDate(s string) (time.Time, error) {
	day, err := clock.ParseDay(s)
	if err != nil {
		return time.Time{}, &reservation.ValidationError{Fields: map[string]string{
			"eventDate": "must be a YYYY-MM-DD date",
		}}
	}
	return day, nil
}

func optionalDay(field string, s *string) (*time.Time, error) {
	v := patch.TrimmedOrNil(s)
	if v == nil {
		return nil, nil
	}
	day, err := clock.ParseDay(*v)
	if err != nil {
		return nil, &reservation.ValidationError{Fields: map[string]string{field: "must be a YYYY-MM-DD date"}}
	}
	return &day, nil
}
