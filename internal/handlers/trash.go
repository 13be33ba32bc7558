package handlers

import (
	"errors"
	"net/http"

	"github.com/JonnyWalker81/formcraft/backend/internal/apierror"
	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/models"
	"github.com/JonnyWalker81/formcraft/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type TrashHandler struct {
	trashService service.TrashService
}

// NewTrashHandler creates a new trash handler
func NewTrashHandler(trashService service.TrashService) *TrashHandler {
	return &TrashHandler{
		trashService: trashService,
	}
}

func writeTrashError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		p := apierror.NewNotFoundError(apierror.GetRequestID(c), "Form", "")
		p.ErrorMessage = "Form not found in trash"
		p.Detail = "Form not found in trash"
		apierror.WriteProblem(c, p)
		return
	}
	writeServiceError(c, err, "Form")
}

// ListTrash handles GET /api/v1/trash
func (h *TrashHandler) ListTrash(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	forms, err := h.trashService.ListTrash(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Form")
		return
	}

	if forms == nil {
		forms = []models.Form{}
	}
	c.JSON(http.StatusOK, forms)
}

// RestoreForm handles POST /api/v1/trash/:id/restore
func (h *TrashHandler) RestoreForm(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	formID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := logger.WithFormID(c.Request.Context(), formID)
	form, err := h.trashService.RestoreForm(ctx, userID, formID)
	if err != nil {
		writeTrashError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Form restored", "form": form})
}

// PurgeForm handles DELETE /api/v1/trash/:id
func (h *TrashHandler) PurgeForm(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	formID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx := logger.WithFormID(c.Request.Context(), formID)
	if err := h.trashService.PurgeForm(ctx, userID, formID); err != nil {
		writeTrashError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Form permanently deleted"})
}
