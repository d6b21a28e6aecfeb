package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	reqdto "venue-reservation/internal/handler/dto/request"
	resdto "venue-reservation/internal/handler/dto/response"
	"venue-reservation/internal/handler/httperr"
	"venue-reservation/internal/handler/middleware"
	"venue-reservation/internal/pkg/errs"
	"venue-reservation/internal/usecase/commands"
	"venue-reservation/internal/usecase/queries"
	"venue-reservation/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Sweeper runs one deadline pass on demand.
type Sweeper interface {
	RunOnce(ctx context.Context) (int, error)
}

type AdminReservationHandler struct {
	cmds    commands.ReservationCommands
	q       queries.ReservationQueries
	sweeper Sweeper
}

func NewAdminReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries, sweeper Sweeper) *AdminReservationHandler {
	return &AdminReservationHandler{cmds: cmds, q: q, sweeper: sweeper}
}

// @Summary List reservations
// @Description Paged listing, newest first, filtered by status and event date range
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending|awaiting_payment|payment_confirmed|rejected|cancelled"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, max 100"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /admin/applications [get]
func (h *AdminReservationHandler) List(c *gin.Context) {
	var query reqdto.ListReservationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.q.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromListResult(result))
}

// @Summary List pending reservations
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationResponse
// @Failure 401 {object} httperr.Response
// @Router /admin/applications/pending [get]
func (h *AdminReservationHandler) Pending(c *gin.Context) {
	views, err := h.q.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Get reservation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/applications/{id} [get]
func (h *AdminReservationHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.respondView(c, id)
}

// @Summary Approve reservation
// @Description Opens a payment session and holds the date until the payment deadline
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /admin/applications/{id}/approve [post]
func (h *AdminReservationHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := h.cmds.Approve(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.logDecision(c, "approve", id)
	h.respondView(c, id)
}

// @Summary Reject reservation
// @Description Allowed from pending and awaiting payment. A payment-confirmed reservation cannot be rejected because refunds are not handled here.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.DecisionRequest false "Optional note for the applicant"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response "invalid_state: already rejected, cancelled, or payment confirmed (refund required)"
// @Router /admin/applications/{id}/reject [post]
func (h *AdminReservationHandler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, ok := bindDecision(c)
	if !ok {
		return
	}
	if _, err := h.cmds.Reject(c.Request.Context(), id, req.Note); err != nil {
		respondError(c, err)
		return
	}
	h.logDecision(c, "reject", id)
	h.respondView(c, id)
}

// @Summary Request modifications
// @Description Emails the applicant the note; the status does not change
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.DecisionRequest true "Requested changes"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/applications/{id}/request-modifications [post]
func (h *AdminReservationHandler) RequestModifications(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, ok := bindDecision(c)
	if !ok {
		return
	}
	if _, err := h.cmds.RequestModifications(c.Request.Context(), id, req.Note); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, id)
}

// @Summary Dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.DashboardResponse
// @Failure 401 {object} httperr.Response
// @Router /admin/dashboard [get]
func (h *AdminReservationHandler) Dashboard(c *gin.Context) {
	view, err := h.q.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDashboardView(view))
}

// @Summary Run deadline sweep
// @Description Rejects awaiting-payment reservations whose deadline has passed
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SweepResponse
// @Failure 409 {object} httperr.Response
// @Router /admin/sweeps [post]
func (h *AdminReservationHandler) Sweep(c *gin.Context) {
	n, err := h.sweeper.RunOnce(c.Request.Context())
	if err != nil {
		if errs.Is(err, worker.ErrSweepInProgress) {
			httperr.AbortWithCode(c, http.StatusConflict, err, CodeSweepInProgress, "A sweep is already running", nil)
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.SweepResponse{Expired: n})
}

func (h *AdminReservationHandler) respondView(c *gin.Context, id uuid.UUID) {
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func (h *AdminReservationHandler) logDecision(c *gin.Context, action string, id uuid.UUID) {
	operatorID, _ := middleware.GetOperatorID(c)
	slog.Info("operator decision", "action", action, "reservation_id", id, "operator_id", operatorID)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, err, CodeValidation, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}

// The body is optional for decisions; an empty one reads as no note.
func bindDecision(c *gin.Context) (reqdto.DecisionRequest, bool) {
	var req reqdto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errs.Is(err, io.EOF) {
		respondBindError(c, err)
		return req, false
	}
	return req, true
}
