package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/JonnyWalker81/formcraft/backend/internal/apierror"
	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/middleware"
	"github.com/JonnyWalker81/formcraft/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// requireUser returns the authenticated user id or writes a 401.
func requireUser(c *gin.Context) (string, bool) {
	userID := middleware.UserID(c)
	if userID == "" {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c), ""))
		return "", false
	}
	return userID, true
}

// pathID returns a UUID path parameter or writes a 400 invalid_uuid.
func pathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if err := service.ValidateID(id); err != nil {
		apierror.WriteProblem(c, apierror.NewInvalidUUIDError(apierror.GetRequestID(c), name, id))
		return "", false
	}
	return id, true
}

// bindJSON decodes the body into req. Binding tag failures become a
// validation problem listing every field; malformed JSON is a bad request.
func bindJSON(c *gin.Context, req any) bool {
	useJSONFieldNames()

	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	requestID := apierror.GetRequestID(c)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fieldErrors := make([]apierror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
				Code:    fe.Tag(),
			})
		}
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
		return false
	}

	if errors.Is(err, io.EOF) {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, "Request body is required", "Invalid request"))
		return false
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be of type %s", typeErr.Type),
			Code:    "invalid_type",
		}}))
		return false
	}

	apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
	return false
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report the request's json keys
// instead of Go struct field names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// writeServiceError maps service errors to problem responses. resource
// names the entity in 404 messages, e.g. "Form".
func writeServiceError(c *gin.Context, err error, resource string) {
	requestID := apierror.GetRequestID(c)

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{{
			Field:   verr.Field,
			Message: verr.Message,
			Code:    "invalid",
		}}))
	case errors.Is(err, service.ErrNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, resource, ""))
	case errors.Is(err, service.ErrForbidden):
		apierror.WriteProblem(c, apierror.NewForbiddenError(requestID))
	case errors.Is(err, service.ErrFormClosed):
		apierror.WriteProblem(c, apierror.NewFormClosedError(requestID))
	case errors.Is(err, service.ErrResponseLimit):
		apierror.WriteProblem(c, apierror.NewResponseLimitError(requestID))
	case errors.Is(err, service.ErrConflict):
		apierror.WriteProblem(c, apierror.NewConflictError(requestID, "User already exists"))
	case errors.Is(err, service.ErrInvalidCredentials):
		p := apierror.NewUnauthorizedError(requestID, "Invalid email or password")
		p.ErrorMessage = "Invalid credentials"
		apierror.WriteProblem(c, p)
	default:
		logger.Ctx(c.Request.Context()).Error("request failed",
			logger.String("path", c.FullPath()),
			logger.Err(err),
		)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}
