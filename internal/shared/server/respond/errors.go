package respond

import (
	"github.com/gin-gonic/gin"

	"orgdocs-backend/internal/shared/telemetry"
)

// ErrorResponse is the flat error body returned by every endpoint.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Error logs and sends an error response. An empty detail is omitted from the body.
func Error(c *gin.Context, status int, message, detail string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if detail != "" {
		fields["detail"] = detail
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Detail: detail})
}
