package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/service"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
	"github.com/attendease/attendease-api/pkg/response"
)

// DashboardHandler wires the role-specific landing endpoint.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Dashboard godoc
// @Summary Role-specific dashboard
// @Description Teachers get their classes and recorded dates, students their absence counts, admins entity totals
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /dashboard [get]
// @Security BearerAuth
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	ctx := c.Request.Context()
	switch claims.Role {
	case models.RoleTeacher:
		data, err := h.service.ForTeacher(ctx, claims.UserID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, data, nil)
	case models.RoleStudent:
		data, err := h.service.ForStudent(ctx, claims.UserID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, data, nil)
	case models.RoleAdmin:
		data, err := h.service.ForAdmin(ctx)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, data, nil)
	default:
		response.Error(c, appErrors.ErrForbidden)
	}
}
