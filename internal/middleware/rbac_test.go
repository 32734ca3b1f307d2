package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/attendease/attendease-api/internal/models"
)

func performWithClaims(t *testing.T, claims *models.JWTClaims, allowed ...models.UserRole) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	group := r.Group("")
	if claims != nil {
		group.Use(func(c *gin.Context) {
			c.Set(ContextUserKey, claims)
		})
	}
	group.Use(RequireRoles(allowed...))
	group.GET("/protected", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	w := performWithClaims(t, &models.JWTClaims{UserID: 1, Role: models.RoleAdmin}, models.RoleAdmin)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesAllowsAnyListedRole(t *testing.T) {
	w := performWithClaims(t, &models.JWTClaims{UserID: 1, Role: models.RoleTeacher}, models.RoleTeacher, models.RoleAdmin)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	w := performWithClaims(t, &models.JWTClaims{UserID: 1, Role: models.RoleStudent}, models.RoleAdmin)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	w := performWithClaims(t, nil, models.RoleAdmin)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
