package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tradeguard/settlement-service/internal/usecase/reconcile"
)

// ReconcileHandler exposes the batch jobs for manual triggering. The same
// scheduler runs on a ticker, so a manual run racing the ticker is safe.
type ReconcileHandler struct {
	scheduler *reconcile.Scheduler
}

func NewReconcileHandler(scheduler *reconcile.Scheduler) *ReconcileHandler {
	return &ReconcileHandler{scheduler: scheduler}
}

func (h *ReconcileHandler) RunAutoConfirm(c *gin.Context) {
	report, err := h.scheduler.RunAutoConfirm(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReconcileHandler) RunExpireVotings(c *gin.Context) {
	report, err := h.scheduler.RunExpireVotings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
