package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/errs"
	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/request"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// Anything else is treated as a storage or internal failure: it is logged
// and reported as 500 Internal Server Error without leaking details.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code(), ErrorResponse{
			Error:     appErr.Message,
			Kind:      string(appErr.Kind),
			Retryable: appErr.Kind.Retryable(),
		})
		return
	}

	slog.ErrorContext(c.Request.Context(), "request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
		"stack", errs.StackLines(err, 12),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// BadRequest sends a 400 for malformed input that never reached the service layer.
func BadRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message, "kind": string(apperror.KindValidation)}
	if err != nil {
		body["details"] = request.Describe(err)
	}
	c.JSON(http.StatusBadRequest, body)
}
