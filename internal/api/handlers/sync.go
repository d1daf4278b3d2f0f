package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ordersync/internal/logger"
	"ordersync/internal/sync"
)

type SyncHandler struct {
	orchestrator *sync.Orchestrator
	logger       *logger.Logger
}

func NewSyncHandler(orchestrator *sync.Orchestrator, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

type syncResponse struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	Processed int      `json:"totalOrdersProcessed"`
	Created   int      `json:"totalOrdersCreated"`
	Updated   int      `json:"totalOrdersUpdated"`
	Errors    []string `json:"errors"`
}

// Trigger runs a full catalog sync and returns the run summary. Partial
// failures still produce a 200 with success:false; a 500 means the run
// could not get past its first page.
func (h *SyncHandler) Trigger(c *gin.Context) {
	summary, err := h.orchestrator.Run(c.Request.Context())

	resp := syncResponse{
		Success:   err == nil && len(summary.Errors) == 0,
		Processed: summary.Processed,
		Created:   summary.Created,
		Updated:   summary.Updated,
		Errors:    summary.Errors,
	}

	switch {
	case err != nil && summary.Processed == 0:
		resp.Message = "Order sync failed to start: " + err.Error()
		c.JSON(http.StatusInternalServerError, resp)
	case err != nil:
		resp.Message = "Order sync terminated early: " + err.Error()
		c.JSON(http.StatusOK, resp)
	case len(summary.Errors) > 0:
		resp.Message = "Order sync completed with errors"
		c.JSON(http.StatusOK, resp)
	default:
		resp.Message = "Order sync completed"
		c.JSON(http.StatusOK, resp)
	}
}
