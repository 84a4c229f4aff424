package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/jackyeh168/sales_engine/src/internal/platform/logger"
	"github.com/jackyeh168/sales_engine/src/internal/platform/metrics"
)

type RouterConfig struct {
	SaleHandler *SaleHandler
	Log         *logger.Logger
	// Metrics is nil when metrics are disabled; /metrics is then not served.
	Metrics *metrics.Metrics
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Log))
	r.Use(Metrics(cfg.Metrics))

	r.GET("/health", HealthCheck)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	v1 := r.Group("/api/v1")
	if h := cfg.SaleHandler; h != nil {
		sales := v1.Group("/sales")
		sales.POST("", h.CreateSale)
		sales.GET("", h.ListSales)
		sales.GET("/:id", h.GetSale)
		sales.PUT("/:id", h.UpdateSale)
		sales.POST("/:id/cancel", h.CancelSale)
		sales.POST("/:id/items/:itemId/cancel", h.CancelSaleItem)
	}

	return r
}
