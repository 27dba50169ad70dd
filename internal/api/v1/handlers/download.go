package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"reelscribe/internal/api/middleware"
	"reelscribe/internal/api/v1/dto"
	"reelscribe/internal/api/v1/services"
)

// DownloadHandler serves the legacy synchronous download endpoint.
type DownloadHandler struct {
	service services.DownloadService
}

func NewDownloadHandler(service services.DownloadService) *DownloadHandler {
	return &DownloadHandler{service: service}
}

// Download handles POST /download: converts the URL inline and streams the
// mp3 back as an attachment.
func (h *DownloadHandler) Download(c *gin.Context) {
	var req dto.DownloadRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	audio, filename, err := h.service.DownloadAudio(c.Request.Context(), req.URL)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "audio/mpeg", audio)
}
