package api

import (
	"net/http"

	reqdto "venue-reservation/internal/handler/dto/request"
	resdto "venue-reservation/internal/handler/dto/response"
	"venue-reservation/internal/usecase/commands"
	"venue-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// PublicReservationHandler serves applicants. Nobody here is authenticated; the
// reference plus the email on file stands in for identity on writes.
type PublicReservationHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewPublicReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *PublicReservationHandler {
	return &PublicReservationHandler{cmds: cmds, q: q}
}

// @Summary Submit reservation
// @Description Submit a venue reservation request for one calendar day
// @Tags applications
// @Accept json
// @Produce json
// @Param request body reqdto.SubmitReservationRequest true "Reservation request"
// @Success 201 {object} resdto.SubmittedResponse
// @Failure 400 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /applications [post]
func (h *PublicReservationHandler) Submit(c *gin.Context) {
	var req reqdto.SubmitReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.cmds.Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), result.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.SubmittedFromView(view))
}

// @Summary Track reservation
// @Description Look up the status of a reservation by its reference
// @Tags applications
// @Produce json
// @Param referenceId query string true "Reference, e.g. TECHHUB-2025-001"
// @Success 200 {object} resdto.TrackingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /applications/track [get]
func (h *PublicReservationHandler) Track(c *gin.Context) {
	var query reqdto.TrackQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}
	view, err := h.q.Track(c.Request.Context(), query.ReferenceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTrackingView(view))
}

// @Summary Cancel reservation
// @Description Withdraw a pending or awaiting-payment reservation
// @Tags applications
// @Accept json
// @Produce json
// @Param request body reqdto.CancelReservationRequest true "Cancel request"
// @Success 200 {object} resdto.TrackingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /applications/cancel [post]
func (h *PublicReservationHandler) Cancel(c *gin.Context) {
	var req reqdto.CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := h.cmds.Cancel(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondTracking(c, result.ReferenceID)
}

// @Summary Resubmit reservation
// @Description Send a rejected reservation back to review, optionally with changed details
// @Tags applications
// @Accept json
// @Produce json
// @Param request body reqdto.ResubmitReservationRequest true "Resubmit request"
// @Success 200 {object} resdto.TrackingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /applications/resubmit [post]
func (h *PublicReservationHandler) Resubmit(c *gin.Context) {
	var req reqdto.ResubmitReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.cmds.Resubmit(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondTracking(c, result.ReferenceID)
}

func (h *PublicReservationHandler) respondTracking(c *gin.Context, referenceID string) {
	view, err := h.q.Track(c.Request.Context(), referenceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTrackingView(view))
}
