package routes

import (
	"github.com/gin-gonic/gin"

	handler "bank-reconciliation-engine/internal/handlers"
)

func RegisterRoutes(r *gin.Engine, webhook *handler.WebhookHandler, transactions *handler.TransactionHandler) {
	r.POST("/webhook", webhook.Receive)

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api.POST("/sync", transactions.TriggerSync)

	tx := api.Group("/transactions")
	tx.GET("", transactions.List)
	tx.POST("/:id/match", transactions.ManualMatch)
}
