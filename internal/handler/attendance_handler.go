package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/service"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
	"github.com/attendease/attendease-api/pkg/response"
)

// AttendanceHandler wires HTTP endpoints to the attendance service.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Sheet godoc
// @Summary Attendance sheet for a class
// @Description Active roster of the class with any statuses already recorded for the date
// @Tags Attendance
// @Produce json
// @Param id path int true "Class ID"
// @Param date path string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id}/attendance/{date} [get]
// @Security BearerAuth
func (h *AttendanceHandler) Sheet(c *gin.Context) {
	classID, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid class id"))
		return
	}

	sheet, err := h.service.Sheet(c.Request.Context(), claimsFromContext(c), classID, c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sheet, nil)
}

// Record godoc
// @Summary Record attendance for a class
// @Description Save one day's statuses for every active enrollment; omitted students default to absent
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param payload body models.RecordAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id}/attendance [post]
// @Security BearerAuth
func (h *AttendanceHandler) Record(c *gin.Context) {
	classID, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid class id"))
		return
	}

	var req models.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}
	if req.Date == "" {
		req.Date = c.Param("date")
	}

	sheet, err := h.service.Record(c.Request.Context(), claimsFromContext(c), classID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sheet, nil)
}

// MyAbsences godoc
// @Summary Absence counts for the current student
// @Description Per-class absence totals for the authenticated student
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /students/me/absences [get]
// @Security BearerAuth
func (h *AttendanceHandler) MyAbsences(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	counts, err := h.service.AbsenceCounts(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, counts, nil)
}

// MyHistory godoc
// @Summary Attendance history for the current student
// @Description Per-date attendance rows for the authenticated student
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /students/me/history [get]
// @Security BearerAuth
func (h *AttendanceHandler) MyHistory(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	rows, err := h.service.History(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rows, nil)
}
