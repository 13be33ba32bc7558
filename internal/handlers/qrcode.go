package handlers

import (
	"net/http"

	"github.com/JonnyWalker81/formcraft/backend/internal/models"
	"github.com/JonnyWalker81/formcraft/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type QRCodeHandler struct {
	qrCodeService service.QRCodeService
}

// NewQRCodeHandler creates a new QR code handler
func NewQRCodeHandler(qrCodeService service.QRCodeService) *QRCodeHandler {
	return &QRCodeHandler{qrCodeService: qrCodeService}
}

// Generate handles POST /api/v1/qrcode
func (h *QRCodeHandler) Generate(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var req models.QRCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.qrCodeService.Generate(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err, "Form")
		return
	}

	c.JSON(http.StatusOK, res)
}
