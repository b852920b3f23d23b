package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware guards the admin panel. Public pages never pass through it.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
}

// NewMiddleware creates the admin-gate middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
	}
}

// RequireAdmin returns a middleware that only lets authenticated admin
// sessions through. Everyone else is sent to the login page.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.sessionManager.IsAdmin(c.Request) {
			c.Redirect(http.StatusFound, "/login?next="+c.Request.URL.Path)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfAuthenticated skips the login page for admins that already
// carry a valid session.
func (m *Middleware) RedirectIfAuthenticated(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.sessionManager.IsAdmin(c.Request) {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
