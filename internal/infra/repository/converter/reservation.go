package converter

import (
	"venue-reservation/internal/domain/reservation"
	sqlc "venue-reservation/internal/infra/sqlc/generated"
	"venue-reservation/internal/pkg/errs"
	"venue-reservation/internal/pkg/pgconv"
)

func ReservationToCreateParams(r *reservation.Reservation) sqlc.CreateReservationParams {
	a := r.Applicant()
	return sqlc.CreateReservationParams{
		ID:               r.ID(),
		ReferenceID:      r.ReferenceID().String(),
		FullName:         a.FullName,
		Email:            a.Email,
		Phone:            a.Phone,
		OrganizationName: a.OrganizationName,
		EventTitle:       a.EventTitle,
		EventDate:        pgconv.DateToPgtype(a.EventDate),
		Description:      a.Description,
		Link:             pgconv.OptionalString(a.Link),
		Status:           r.Status().String(),
		PaymentStatus:    r.PaymentStatus().String(),
		CreatedAt:        pgconv.TimeToPgtype(r.CreatedAt()),
		UpdatedAt:        pgconv.TimeToPgtype(r.UpdatedAt()),
	}
}

// ReservationToUpdateParams writes the whole mutable state, guarded by the expected status.
func ReservationToUpdateParams(r *reservation.Reservation, expected reservation.Status) sqlc.UpdateReservationStateParams {
	a := r.Applicant()
	params := sqlc.UpdateReservationStateParams{
		FullName:         a.FullName,
		Email:            a.Email,
		Phone:            a.Phone,
		OrganizationName: a.OrganizationName,
		EventTitle:       a.EventTitle,
		EventDate:        pgconv.DateToPgtype(a.EventDate),
		Description:      a.Description,
		Link:             pgconv.OptionalString(a.Link),
		Status:           r.Status().String(),
		PaymentStatus:    r.PaymentStatus().String(),
		PaymentDeadline:  pgconv.TimePtrToPgtype(r.PaymentDeadline()),
		RejectionReason:  pgconv.OptionalString(r.RejectionReason().String()),
		PaidAt:           pgconv.TimePtrToPgtype(r.PaidAt()),
		UpdatedAt:        pgconv.TimeToPgtype(r.UpdatedAt()),
		ID:               r.ID(),
		ExpectedStatus:   expected.String(),
	}
	if s := r.Session(); s != nil {
		amount := s.AmountMinor
		params.PaymentAmountMinor = pgconv.Int64PtrToPgtype(&amount)
		params.GatewayReference = pgconv.OptionalString(s.Reference)
		params.GatewayAuthorizationUrl = pgconv.OptionalString(s.AuthorizationURL)
		params.GatewayAccessCode = pgconv.OptionalString(s.AccessCode)
	}
	return params
}

func ReservationFromRow(row sqlc.Reservations) (*reservation.Reservation, error) {
	ref, err := reservation.ParseReferenceID(row.ReferenceID)
	if err != nil {
		return nil, errs.Wrapf(err, "stored reference id %q", row.ReferenceID)
	}
	status, err := reservation.NewStatus(row.Status)
	if err != nil {
		return nil, errs.Wrapf(err, "stored status %q", row.Status)
	}

	var session *reservation.GatewaySession
	if row.GatewayReference.Valid {
		session = &reservation.GatewaySession{
			Reference:        row.GatewayReference.String,
			AuthorizationURL: row.GatewayAuthorizationUrl.String,
			AccessCode:       row.GatewayAccessCode.String,
			AmountMinor:      row.PaymentAmountMinor.Int64,
		}
	}

	return reservation.ReconstructReservation(reservation.ReconstructParams{
		ID:          row.ID,
		ReferenceID: ref,
		Applicant: reservation.Applicant{
			FullName:         row.FullName,
			Email:            row.Email,
			Phone:            row.Phone,
			OrganizationName: row.OrganizationName,
			EventTitle:       row.EventTitle,
			EventDate:        pgconv.DateFromPgtype(row.EventDate),
			Description:      row.Description,
			Link:             row.Link.String,
		},
		Status:          status,
		PaymentStatus:   reservation.PaymentStatus(row.PaymentStatus),
		PaymentDeadline: pgconv.TimePtrFromPgtype(row.PaymentDeadline),
		Session:         session,
		RejectionReason: reservation.RejectionReason(row.RejectionReason.String),
		PaidAt:          pgconv.TimePtrFromPgtype(row.PaidAt),
		CreatedAt:       pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:       pgconv.TimeFromPgtype(row.UpdatedAt),
	}), nil
}
