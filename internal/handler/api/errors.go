package api

import (
	"net/http"
	"strings"
	"unicode"

	"venue-reservation/internal/domain/reservation"
	"venue-reservation/internal/handler/httperr"
	"venue-reservation/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	CodeValidation       = "validation_error"
	CodeNotFound         = "not_found"
	CodeInvalidState     = "invalid_state"
	CodeDateReserved     = "date_already_reserved"
	CodeGateway          = "payment_gateway_error"
	CodeInvalidSignature = "invalid_signature"
	CodeSweepInProgress  = "sweep_in_progress"
	CodeInternal         = httperr.CodeInternal
)

// respondError maps the error taxonomy onto the HTTP envelope. Unknown errors are 500s
// and never leak their message.
func respondError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrValidation):
		httperr.AbortWithCode(c, http.StatusBadRequest, err, CodeValidation, validationMessage(err), validationDetail(err))
	case errs.Is(err, errs.ErrNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, err, CodeNotFound, "Reservation not found", nil)
	case errs.Is(err, errs.ErrConflict):
		httperr.AbortWithCode(c, http.StatusConflict, err, CodeDateReserved, "The event date is already reserved", nil)
	case errs.Is(err, errs.ErrInvalidState):
		var detail any
		var ise *reservation.InvalidStateError
		if errs.As(err, &ise) {
			detail = gin.H{"currentStatus": string(ise.Current)}
		}
		httperr.AbortWithCode(c, http.StatusConflict, err, CodeInvalidState, "Operation not allowed in the current status", detail)
	case errs.Is(err, errs.ErrGateway):
		httperr.AbortWithCode(c, http.StatusBadGateway, err, CodeGateway, "Payment gateway unavailable", nil)
	case errs.Is(err, errs.ErrAuth):
		httperr.AbortWithCode(c, http.StatusUnauthorized, err, CodeInvalidSignature, "Invalid signature", nil)
	default:
		httperr.AbortWithCode(c, http.StatusInternalServerError, err, CodeInternal, "Internal server error", nil)
	}
}

// respondBindError reports binding failures with the offending JSON field names.
func respondBindError(c *gin.Context, err error) {
	var fields map[string]string
	var verrs validator.ValidationErrors
	if errs.As(err, &verrs) {
		fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonName(fe.Field())] = fe.Tag()
		}
	}
	var detail any
	if len(fields) > 0 {
		detail = gin.H{"fields": fields}
	}
	httperr.AbortWithCode(c, http.StatusBadRequest, err, CodeValidation, "Invalid request", detail)
}

func validationMessage(err error) string {
	var ve *reservation.ValidationError
	if errs.As(err, &ve) {
		return "Invalid reservation request"
	}
	// sentinel text only, never the wrapped chain
	msg := err.Error()
	if i := strings.Index(msg, ":"); i > 0 {
		msg = msg[:i]
	}
	return msg
}

func validationDetail(err error) any {
	var ve *reservation.ValidationError
	if errs.As(err, &ve) && len(ve.Fields) > 0 {
		return gin.H{"fields": ve.Fields}
	}
	return nil
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	r := []rune(field)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
