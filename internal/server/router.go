package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP surface: health, receipt pipeline, transactions.
func NewRouter(receipts *ReceiptHandler, transactions *TransactionHandler, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1", RequireUser())
	{
		v1.POST("/receipts", receipts.Upload)
		v1.GET("/receipts/jobs/:job_id", receipts.Status)
		v1.GET("/transactions", transactions.List)
		v1.GET("/transactions/export", transactions.Export)
	}

	return r
}
