package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// invalidCredentialsMessage is shown for any failed login attempt. It never
// distinguishes a wrong email from a wrong password.
const invalidCredentialsMessage = "البريد الإلكتروني أو كلمة المرور غير صحيحة."

// isLocalPath validates that a redirect path is local to prevent open
// redirect attacks.
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}
	// Reject protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") {
		return false
	}
	if strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to /admin.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/admin"
}

// Controller handles the login and logout endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
}

// NewController creates the authentication controller.
func NewController(service *Service, sessionManager *SessionManager) *Controller {
	return &Controller{
		service:        service,
		sessionManager: sessionManager,
	}
}

// LoginPage renders the login form.
func (ac *Controller) LoginPage(c *gin.Context) {
	next := sanitizeRedirectPath(c.Query("next"))

	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title":     "تسجيل الدخول",
		"Next":      next,
		"Email":     "",
		"CSRFToken": GetCSRFToken(c),
		"Error":     c.Query("error"),
	})
}

// Login handles the login form submission.
func (ac *Controller) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	next := sanitizeRedirectPath(c.PostForm("next"))

	if err := ac.service.Authenticate(email, password); err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Title":     "تسجيل الدخول",
			"Next":      next,
			"Email":     email,
			"CSRFToken": GetCSRFToken(c),
			"Error":     invalidCredentialsMessage,
		})
		return
	}

	if err := ac.sessionManager.CreateAdminSession(c.Request, email); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Title":     "تسجيل الدخول",
			"Next":      next,
			"Email":     email,
			"CSRFToken": GetCSRFToken(c),
			"Error":     "تعذر إنشاء الجلسة. حاول مرة أخرى.",
		})
		return
	}

	c.Redirect(http.StatusFound, next)
}

// Logout destroys the session and returns to the public site.
func (ac *Controller) Logout(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)
	c.Redirect(http.StatusFound, "/")
}
