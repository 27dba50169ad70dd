// Package handlers contains the gin handlers of the v1 API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reelscribe/internal/api/errors"
	"reelscribe/internal/api/middleware"
	"reelscribe/internal/api/v1/dto"
	"reelscribe/internal/api/v1/services"
)

// JobHandler serves the asynchronous job endpoints.
type JobHandler struct {
	service services.JobService
}

func NewJobHandler(service services.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// Create handles POST /api/v1/jobs.
func (h *JobHandler) Create(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.CreateJob(c.Request.Context(), req.URL)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Status handles GET /api/v1/jobs/:id/status.
func (h *JobHandler) Status(c *gin.Context) {
	jobID := c.Param("id")
	if jobID == "" {
		middleware.HandleError(c, errors.NewBadRequestError("job ID is required"))
		return
	}

	resp, err := h.service.GetStatus(c.Request.Context(), jobID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Result handles GET /api/v1/jobs/:id/result.
func (h *JobHandler) Result(c *gin.Context) {
	jobID := c.Param("id")
	if jobID == "" {
		middleware.HandleError(c, errors.NewBadRequestError("job ID is required"))
		return
	}

	resp, err := h.service.GetResult(c.Request.Context(), jobID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
