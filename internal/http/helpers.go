package http

import (
	"log"
	"net/http"
	"net/url"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/tokhel/ink/internal/catalog"
)

// ErrorResponse is the standard error response format for API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// respondInternalError logs the error and sends a 500 response. The actual
// error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// redirectWithError sends the admin back to the dashboard with a message in
// the error query parameter.
func redirectWithError(c *gin.Context, message string) {
	c.Redirect(http.StatusSeeOther, "/admin?error="+url.QueryEscape(message))
}

// redirectWithSuccess sends the admin back to the dashboard with a message in
// the success query parameter.
func redirectWithSuccess(c *gin.Context, message string) {
	c.Redirect(http.StatusSeeOther, "/admin?success="+url.QueryEscape(message))
}

// firstValidationMessage flattens a field-keyed validation error into a single
// message for the redirect banner. Fields are walked in sorted order so the
// message is deterministic.
func firstValidationMessage(verr *catalog.ValidationError) string {
	keys := make([]string, 0, len(verr.Fields))
	for k := range verr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return "بيانات غير صالحة."
	}
	return verr.Fields[keys[0]]
}
