package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/model"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/service/auth"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/httputil"
)

const ContextActor = "actor"

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the bearer token and sets the actor in context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, httputil.Response{Success: false, Message: "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, httputil.Response{Success: false, Message: "invalid authorization format"})
			c.Abort()
			return
		}

		actor, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, httputil.Response{Success: false, Message: "invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextActor, actor)
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor set by Authenticate.
func ActorFromContext(c *gin.Context) (*model.Actor, bool) {
	v, exists := c.Get(ContextActor)
	if !exists {
		return nil, false
	}
	actor, ok := v.(*model.Actor)
	return actor, ok
}
