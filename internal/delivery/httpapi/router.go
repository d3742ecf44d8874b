package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(orderHandler *OrderHandler, disputeHandler *DisputeHandler, reconcileHandler *ReconcileHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.POST("/orders", orderHandler.CreateOrder)
		v1.GET("/orders/:id", orderHandler.GetOrder)
		v1.POST("/orders/:id/payment", orderHandler.MarkPaid)
		v1.POST("/orders/:id/ship", orderHandler.MarkShipped)
		v1.POST("/orders/:id/delivered", orderHandler.MarkDelivered)
		v1.POST("/orders/:id/confirm", orderHandler.Confirm)
		v1.POST("/orders/:id/cancel", orderHandler.Cancel)
		v1.POST("/orders/:id/dispute", orderHandler.OpenDispute)
		v1.GET("/orders/:id/dispute", disputeHandler.GetByOrder)

		v1.GET("/disputes/:id", disputeHandler.Get)
		v1.POST("/disputes/:id/voting", disputeHandler.StartVoting)
		v1.POST("/disputes/:id/votes", disputeHandler.CastVote)
		v1.GET("/disputes/:id/votes", disputeHandler.ListVotes)
		v1.GET("/disputes/:id/tally", disputeHandler.Tally)
		v1.POST("/disputes/:id/resolve", disputeHandler.Resolve)
		v1.POST("/disputes/:id/resettle", disputeHandler.Resettle)

		v1.POST("/reconcile/auto-confirm", reconcileHandler.RunAutoConfirm)
		v1.POST("/reconcile/expire-votings", reconcileHandler.RunExpireVotings)
	}

	return router
}
