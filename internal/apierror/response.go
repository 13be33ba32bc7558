package apierror

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the MIME type for RFC 9457 Problem Details.
const ContentTypeProblemJSON = "application/problem+json"

// WriteProblem writes a ProblemDetails response and aborts the chain.
// Retry-After is set when the problem carries one.
func WriteProblem(c *gin.Context, problem *ProblemDetails) {
	if problem.ErrorMessage == "" {
		problem.ErrorMessage = problem.Title
	}

	c.Header("Content-Type", ContentTypeProblemJSON)
	if problem.RetryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*problem.RetryAfter))
	}

	c.AbortWithStatusJSON(problem.Status, problem)
}

// GetRequestID extracts the request ID from the gin context.
// Returns empty string if not found.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return c.GetHeader("X-Request-ID")
}

// NewValidationError creates a 400 response listing every invalid field.
func NewValidationError(requestID string, errors []FieldError) *ProblemDetails {
	return &ProblemDetails{
		Type:         TypeValidation,
		Title:        TitleValidation,
		Status:       http.StatusBadRequest,
		Detail:       "One or more fields failed validation",
		ErrorMessage: "Validation failed",
		RequestID:    requestID,
		UserMessage:  "Please check your input and try again",
		Errors:       errors,
	}
}

// NewNotFoundError creates a 404 Not Found response.
func NewNotFoundError(requestID, resource, id string) *ProblemDetails {
	detail := fmt.Sprintf("%s not found", resource)
	if id != "" {
		detail = fmt.Sprintf("%s with ID '%s' was not found", resource, id)
	}
	return &ProblemDetails{
		Type:         TypeNotFound,
		Title:        TitleNotFound,
		Status:       http.StatusNotFound,
		Detail:       detail,
		ErrorMessage: fmt.Sprintf("%s not found", resource),
		RequestID:    requestID,
		UserMessage:  fmt.Sprintf("The requested %s could not be found", resource),
	}
}

// NewConflictError creates a 409 Conflict response.
func NewConflictError(requestID, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:         TypeConflict,
		Title:        TitleConflict,
		Status:       http.StatusConflict,
		Detail:       detail,
		ErrorMessage: detail,
		RequestID:    requestID,
		UserMessage:  "This action conflicts with existing data",
	}
}

// NewRateLimitError creates a 429 Too Many Requests response.
// retryAfter specifies seconds until the client should retry.
func NewRateLimitError(requestID string, retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:         TypeRateLimit,
		Title:        TitleRateLimit,
		Status:       http.StatusTooManyRequests,
		Detail:       fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds", retryAfter),
		ErrorMessage: "Too many requests. Please try again later.",
		RequestID:    requestID,
		UserMessage:  "Too many requests. Please wait before trying again.",
		RetryAfter:   &retryAfter,
	}
}

// NewInternalError creates a 500 response. Internal details are never
// exposed; log the real error before writing this.
func NewInternalError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:         TypeInternal,
		Title:        TitleInternal,
		Status:       http.StatusInternalServerError,
		Detail:       "An unexpected error occurred",
		ErrorMessage: "Internal server error",
		RequestID:    requestID,
		UserMessage:  "Something went wrong. Please try again later.",
	}
}

// NewBadRequestError creates a 400 Bad Request response for malformed requests.
func NewBadRequestError(requestID, detail, userMessage string) *ProblemDetails {
	return &ProblemDetails{
		Type:         TypeBadRequest,
		Title:        TitleBadRequest,
		Status:       http.StatusBadRequest,
		Detail:       detail,
		ErrorMessage: detail,
		RequestID:    requestID,
		UserMessage:  userMessage,
	}
}

// NewUnauthorizedError creates a 401 Unauthorized response.
func NewUnauthorizedError(requestID, detail string) *ProblemDetails {
	if detail == "" {
		detail = "Authentication is required to access this resource"
	}
	return &ProblemDetails{
		Type:         TypeUnauthorized,
		Title:        TitleUnauthorized,
		Status:       http.StatusUnauthorized,
		Detail:       detail,
		ErrorMessage: "Unauthorized",
		RequestID:    requestID,
		UserMessage:  "Please sign in to continue",
	}
}

// NewForbiddenError creates a 403 Forbidden response.
func NewForbiddenError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:         TypeForbidden,
		Title:        TitleForbidden,
		Status:       http.StatusForbidden,
		Detail:       "You do not have permission to access this resource",
		ErrorMessage: "Forbidden",
		RequestID:    requestID,
		UserMessage:  "You don't have permission to perform this action",
	}
}

// NewFormClosedError creates a 403 response for a form past its close date.
func NewFormClosedError(requestID string) *ProblemDetails {
	const msg = "This form is no longer accepting responses."
	return &ProblemDetails{
		Type:         TypeFormClosed,
		Title:        TitleFormClosed,
		Status:       http.StatusForbidden,
		Detail:       msg,
		ErrorMessage: msg,
		RequestID:    requestID,
		UserMessage:  msg,
	}
}

// NewResponseLimitError creates a 403 response for a form that is full.
func NewResponseLimitError(requestID string) *ProblemDetails {
	const msg = "This form has reached its response limit."
	return &ProblemDetails{
		Type:         TypeResponseLimit,
		Title:        TitleResponseLimit,
		Status:       http.StatusForbidden,
		Detail:       msg,
		ErrorMessage: msg,
		RequestID:    requestID,
		UserMessage:  msg,
	}
}

// NewInvalidUUIDError creates a 400 Bad Request response for invalid UUID format.
func NewInvalidUUIDError(requestID, field, value string) *ProblemDetails {
	return &ProblemDetails{
		Type:         TypeInvalidUUID,
		Title:        TitleInvalidUUID,
		Status:       http.StatusBadRequest,
		Detail:       fmt.Sprintf("Invalid UUID format for field '%s': '%s'", field, value),
		ErrorMessage: "Invalid identifier",
		RequestID:    requestID,
		UserMessage:  "Invalid identifier format",
		Errors: []FieldError{
			{Field: field, Message: "must be a valid UUID", Code: "invalid_uuid"},
		},
	}
}

// NewServiceUnavailableError creates a 503 Service Unavailable response.
func NewServiceUnavailableError(requestID string, retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:         TypeInternal,
		Title:        "Service Unavailable",
		Status:       http.StatusServiceUnavailable,
		Detail:       "The service is temporarily unavailable",
		ErrorMessage: "Service unavailable",
		RequestID:    requestID,
		UserMessage:  "Service is temporarily unavailable. Please try again later.",
		RetryAfter:   &retryAfter,
	}
}
