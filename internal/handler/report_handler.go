package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/service"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
	"github.com/attendease/attendease-api/pkg/response"
)

// ReportHandler wires HTTP endpoints to the report service.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Summary godoc
// @Summary Attendance summary report
// @Description Per-student present/total counts and percentage, optionally filtered and exported
// @Tags Reports
// @Produce json
// @Param class_id query int false "Restrict to one class"
// @Param student_name query string false "Case-insensitive student name fragment"
// @Param export query string false "Download format" Enums(csv, pdf)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/summary [get]
// @Security BearerAuth
func (h *ReportHandler) Summary(c *gin.Context) {
	filter, err := summaryFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := c.Query("export")
	if format == "" {
		rows, err := h.service.Summary(c.Request.Context(), filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, rows, nil)
		return
	}

	payload, err := h.service.Export(c.Request.Context(), filter, models.ReportFormat(format))
	if err != nil {
		response.Error(c, err)
		return
	}

	contentType := "text/csv"
	if models.ReportFormat(format) == models.ReportFormatPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=attendance_summary.%s", format))
	c.Data(http.StatusOK, contentType, payload)
}

func summaryFilterFromQuery(c *gin.Context) (models.SummaryFilter, error) {
	var filter models.SummaryFilter
	if raw := c.Query("class_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid class_id")
		}
		filter.ClassID = id
	}
	filter.StudentName = c.Query("student_name")
	return filter, nil
}
