package handlers

import (
	"net/http"

	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/models"
	"github.com/JonnyWalker81/formcraft/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type FormHandler struct {
	formService     service.FormService
	responseService service.ResponseService
}

// NewFormHandler creates a new form handler
func NewFormHandler(formService service.FormService, responseService service.ResponseService) *FormHandler {
	return &FormHandler{
		formService:     formService,
		responseService: responseService,
	}
}

// CreateForm handles POST /api/v1/forms
func (h *FormHandler) CreateForm(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CreateFormRequest
	if !bindJSON(c, &req) {
		return
	}

	form, err := h.formService.CreateForm(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err, "Form")
		return
	}

	c.JSON(http.StatusCreated, form)
}

// ListForms handles GET /api/v1/forms
func (h *FormHandler) ListForms(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	forms, err := h.formService.ListForms(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Form")
		return
	}

	if forms == nil {
		forms = []models.Form{}
	}
	c.JSON(http.StatusOK, forms)
}

// GetForm handles GET /api/v1/forms/:id
func (h *FormHandler) GetForm(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	formID, ok := pathID(c, "id")
	if !ok {
		return
	}

	form, err := h.formService.GetForm(c.Request.Context(), userID, formID)
	if err != nil {
		writeServiceError(c, err, "Form")
		return
	}

	c.JSON(http.StatusOK, form)
}

// UpdateForm handles PUT /api/v1/forms/:id
func (h *FormHandler) UpdateForm(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	formID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateFormRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := logger.WithFormID(c.Request.Context(), formID)
	form, err := h.formService.UpdateForm(ctx, userID, formID, &req)
	if err != nil {
		writeServiceError(c, err, "Form")
		return
	}

	c.JSON(http.StatusOK, form)
}

// DeleteForm handles DELETE /api/v1/forms/:id by moving the form to the trash
func (h *FormHandler) DeleteForm(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	formID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := logger.WithFormID(c.Request.Context(), formID)
	if err := h.formService.TrashForm(ctx, userID, formID); err != nil {
		writeServiceError(c, err, "Form")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Form moved to trash"})
}

// DuplicateForm handles POST /api/v1/forms/:id/duplicate
func (h *FormHandler) DuplicateForm(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	formID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := logger.WithFormID(c.Request.Context(), formID)
	form, err := h.formService.DuplicateForm(ctx, userID, formID)
	if err != nil {
		writeServiceError(c, err, "Form")
		return
	}

	c.JSON(http.StatusCreated, form)
}

// ListResponses handles GET /api/v1/forms/:id/responses
func (h *FormHandler) ListResponses(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	formID, ok := pathID(c, "id")
	if !ok {
		return
	}

	responses, err := h.responseService.ListResponses(c.Request.Context(), userID, formID)
	if err != nil {
		writeServiceError(c, err, "Form")
		return
	}

	if responses == nil {
		responses = []models.Response{}
	}
	c.JSON(http.StatusOK, responses)
}
