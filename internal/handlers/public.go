package handlers

import (
	"net/http"
	"strings"

	"github.com/JonnyWalker81/formcraft/backend/internal/apierror"
	"github.com/JonnyWalker81/formcraft/backend/internal/models"
	"github.com/JonnyWalker81/formcraft/backend/internal/service"
	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated respondent endpoints
type PublicHandler struct {
	formService     service.FormService
	responseService service.ResponseService
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(formService service.FormService, responseService service.ResponseService) *PublicHandler {
	return &PublicHandler{
		formService:     formService,
		responseService: responseService,
	}
}

// GetPublicForm handles GET /api/v1/public/forms/:code
func (h *PublicHandler) GetPublicForm(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		apierror.WriteProblem(c, apierror.NewNotFoundError(apierror.GetRequestID(c), "Form", ""))
		return
	}

	form, err := h.formService.GetPublicForm(c.Request.Context(), code)
	if err != nil {
		writeServiceError(c, err, "Form")
		return
	}

	c.JSON(http.StatusOK, form)
}

type submittedResponse struct {
	ID          string `json:"id"`
	SubmittedAt string `json:"submittedAt"`
}

// SubmitResponse handles POST /api/v1/responses
func (h *PublicHandler) SubmitResponse(c *gin.Context) {
	var req models.SubmitResponseRequest
	if !bindJSON(c, &req) {
		return
	}

	meta := models.SubmissionMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	resp, err := h.responseService.SubmitResponse(c.Request.Context(), &req, meta)
	if err != nil {
		writeServiceError(c, err, "Form")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Response submitted successfully",
		"response": submittedResponse{
			ID:          resp.ID,
			SubmittedAt: resp.SubmittedAt.UTC().Format(timeLayout),
		},
	})
}
