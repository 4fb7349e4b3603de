package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details any    `json:"details,omitempty"`
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Domain errors keep their message and status; anything else is logged and
// answered with a generic 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if domainErr, ok := service.AsError(err); ok {
			c.JSON(domainErr.Kind.HTTPStatus(), ErrorResponse{
				Error:   domainErr.Message,
				Kind:    string(domainErr.Kind),
				Details: domainErr.Details,
			})
			return
		}

		log.Printf("[ErrorHandler] %s %s (request %s): %v", c.Request.Method, c.Request.URL.Path, c.GetString("request_id"), err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	}
}
