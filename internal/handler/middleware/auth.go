package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"venue-reservation/internal/domain/operator"
	"venue-reservation/internal/handler/httperr"
	"venue-reservation/internal/pkg/cookie"
	"venue-reservation/internal/pkg/errs"
	"venue-reservation/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxOperatorIDKey   = "operator_id"
	ctxOperatorRoleKey = "operator_role"
)

var (
	errMissingToken      = errs.Wrap(errs.ErrAuth, "access token required")
	errInsufficientRole  = errs.Wrap(errs.ErrAuth, "insufficient permissions")
	errMissingAuthResult = errs.New("RequireRoleAtLeast used without RequireAuth")
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithCode(c, http.StatusUnauthorized, errMissingToken, "unauthorized", "Access token required", nil)
			return
		}

		operatorID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithCode(c, http.StatusUnauthorized, err, "unauthorized", "Invalid or expired token", nil)
			return
		}

		c.Set(ctxOperatorIDKey, operatorID)
		c.Set(ctxOperatorRoleKey, role)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireRoleAtLeast(minRole operator.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetOperatorRole(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errMissingAuthResult, "Internal server error", nil)
			return
		}

		if !role.AtLeast(minRole) {
			httperr.AbortWithCode(c, http.StatusForbidden, errInsufficientRole, "forbidden", "Insufficient permissions", nil)
			return
		}

		c.Next()
	}
}

// Header wins over the console cookie.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(authHeader[len("Bearer "):]); token != "" {
			return token
		}
	}
	return cookie.GetAccessToken(c)
}

func GetOperatorID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxOperatorIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetOperatorRole(c *gin.Context) (operator.Role, bool) {
	v, exists := c.Get(ctxOperatorRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(operator.Role)
	return role, ok
}
