package apierror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestProblemDetailsJSON(t *testing.T) {
	retryAfter := 60
	problem := &ProblemDetails{
		Type:         TypeValidation,
		Title:        TitleValidation,
		Status:       http.StatusBadRequest,
		Detail:       "Field validation failed",
		Instance:     "/api/forms/123",
		ErrorMessage: "Validation failed",
		RequestID:    "req-abc123",
		UserMessage:  "Please fix the errors",
		RetryAfter:   &retryAfter,
		Errors: []FieldError{
			{Field: "title", Message: "is required", Code: "required"},
			{Field: "closeDate", Message: "must be a valid date", Code: "invalid_date"},
		},
	}

	data, err := json.Marshal(problem)
	if err != nil {
		t.Fatalf("Failed to marshal ProblemDetails: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	want := map[string]interface{}{
		"type":         TypeValidation,
		"title":        TitleValidation,
		"status":       float64(http.StatusBadRequest),
		"detail":       "Field validation failed",
		"instance":     "/api/forms/123",
		"error":        "Validation failed",
		"request_id":   "req-abc123",
		"user_message": "Please fix the errors",
		"retry_after":  float64(60),
	}
	for key, expected := range want {
		if result[key] != expected {
			t.Errorf("Expected %s=%v, got %v", key, expected, result[key])
		}
	}

	errs, ok := result["errors"].([]interface{})
	if !ok || len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %v", result["errors"])
	}
	first := errs[0].(map[string]interface{})
	if first["field"] != "title" || first["code"] != "required" {
		t.Errorf("Unexpected first field error: %v", first)
	}
}

func TestProblemDetailsJSONOmitsEmpty(t *testing.T) {
	problem := &ProblemDetails{
		Type:   TypeInternal,
		Title:  TitleInternal,
		Status: http.StatusInternalServerError,
	}

	data, err := json.Marshal(problem)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	for _, field := range []string{"detail", "instance", "request_id", "user_message", "retry_after", "errors"} {
		if _, exists := result[field]; exists {
			t.Errorf("Expected %q to be omitted, but it was present", field)
		}
	}
	if _, exists := result["error"]; !exists {
		t.Error("Expected error key to always be present")
	}
}

func TestWriteProblemContentType(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteProblem(c, NewInternalError("req-123"))

	if got := w.Header().Get("Content-Type"); got != ContentTypeProblemJSON {
		t.Errorf("Expected Content-Type=%q, got %q", ContentTypeProblemJSON, got)
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if !c.IsAborted() {
		t.Error("Expected WriteProblem to abort the handler chain")
	}
}

func TestWriteProblemFillsErrorFromTitle(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteProblem(c, &ProblemDetails{Type: TypeBadRequest, Title: TitleBadRequest, Status: http.StatusBadRequest})

	if body := decodeBody(t, w); body["error"] != TitleBadRequest {
		t.Errorf("Expected error=%q, got %v", TitleBadRequest, body["error"])
	}
}

func TestWriteProblemRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteProblem(c, NewRateLimitError("req-123", 30))

	if got := w.Header().Get("Retry-After"); got != "30" {
		t.Errorf("Expected Retry-After=30, got %q", got)
	}
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Too many requests. Please try again later." {
		t.Errorf("Unexpected error message %v", body["error"])
	}
}

func TestWriteProblemNoRetryAfterWhenNil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteProblem(c, NewNotFoundError("req-123", "Form", "abc"))

	if got := w.Header().Get("Retry-After"); got != "" {
		t.Errorf("Expected no Retry-After header, got %q", got)
	}
}

func TestNewValidationErrorMultipleFields(t *testing.T) {
	problem := NewValidationError("req-123", []FieldError{
		{Field: "email", Message: "is required", Code: "required"},
		{Field: "password", Message: "must be at least 6 characters", Code: "min"},
	})

	if problem.Status != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", problem.Status)
	}
	if problem.Type != TypeValidation {
		t.Errorf("Expected type %q, got %q", TypeValidation, problem.Type)
	}
	if len(problem.Errors) != 2 {
		t.Errorf("Expected 2 field errors, got %d", len(problem.Errors))
	}
}

func TestNewInternalErrorHidesDetails(t *testing.T) {
	problem := NewInternalError("req-123")

	if problem.Detail != "An unexpected error occurred" {
		t.Errorf("Internal error leaked detail %q", problem.Detail)
	}
	if problem.ErrorMessage != "Internal server error" {
		t.Errorf("Expected error=%q, got %q", "Internal server error", problem.ErrorMessage)
	}
}

func TestNewNotFoundError(t *testing.T) {
	problem := NewNotFoundError("req-123", "Form", "")

	if problem.Status != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", problem.Status)
	}
	if problem.ErrorMessage != "Form not found" {
		t.Errorf("Expected error=%q, got %q", "Form not found", problem.ErrorMessage)
	}

	withID := NewNotFoundError("req-123", "Form", "abc")
	if withID.Detail != "Form with ID 'abc' was not found" {
		t.Errorf("Unexpected detail %q", withID.Detail)
	}
}

func TestNewUnauthorizedError(t *testing.T) {
	problem := NewUnauthorizedError("req-123", "")

	if problem.Status != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", problem.Status)
	}
	if problem.Detail == "" {
		t.Error("Expected a default detail")
	}
	if problem.ErrorMessage != "Unauthorized" {
		t.Errorf("Expected error=Unauthorized, got %q", problem.ErrorMessage)
	}
}

func TestForbiddenVariants(t *testing.T) {
	tests := []struct {
		name    string
		problem *ProblemDetails
		typ     string
		message string
	}{
		{"ownership", NewForbiddenError("r"), TypeForbidden, "Forbidden"},
		{"closed", NewFormClosedError("r"), TypeFormClosed, "This form is no longer accepting responses."},
		{"limit", NewResponseLimitError("r"), TypeResponseLimit, "This form has reached its response limit."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.problem.Status != http.StatusForbidden {
				t.Errorf("Expected status 403, got %d", tt.problem.Status)
			}
			if tt.problem.Type != tt.typ {
				t.Errorf("Expected type %q, got %q", tt.typ, tt.problem.Type)
			}
			if tt.problem.ErrorMessage != tt.message {
				t.Errorf("Expected error=%q, got %q", tt.message, tt.problem.ErrorMessage)
			}
		})
	}
}

func TestNewInvalidUUIDError(t *testing.T) {
	problem := NewInvalidUUIDError("req-123", "id", "not-a-uuid")

	if problem.Status != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", problem.Status)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Code != "invalid_uuid" {
		t.Errorf("Expected one invalid_uuid field error, got %v", problem.Errors)
	}
}

func TestProblemDetailsError(t *testing.T) {
	withDetail := &ProblemDetails{Title: "Title", Detail: "Detail"}
	if withDetail.Error() != "Detail" {
		t.Errorf("Expected Error()=Detail, got %q", withDetail.Error())
	}

	withoutDetail := &ProblemDetails{Title: "Title"}
	if withoutDetail.Error() != "Title" {
		t.Errorf("Expected Error()=Title, got %q", withoutDetail.Error())
	}
}

func TestGetRequestID(t *testing.T) {
	t.Run("from context", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("request_id", "ctx-id")

		if got := GetRequestID(c); got != "ctx-id" {
			t.Errorf("Expected ctx-id, got %q", got)
		}
	})

	t.Run("from header", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("X-Request-ID", "header-id")

		if got := GetRequestID(c); got != "header-id" {
			t.Errorf("Expected header-id, got %q", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		if got := GetRequestID(c); got != "" {
			t.Errorf("Expected empty request ID, got %q", got)
		}
	})
}

func TestNewServiceUnavailableError(t *testing.T) {
	problem := NewServiceUnavailableError("req-123", 5)

	if problem.Status != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", problem.Status)
	}
	if problem.RetryAfter == nil || *problem.RetryAfter != 5 {
		t.Errorf("Expected retry_after=5, got %v", problem.RetryAfter)
	}
}
