// Package httpapi serves the price preview to the website over JSON.
package httpapi

import (
	"time"

	"detailing-bot/internal/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	catalog  catalog.Provider
	duration time.Duration
	interval time.Duration
	logger   *zap.Logger
}

func NewHandler(provider catalog.Provider, duration, interval time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		catalog:  provider,
		duration: duration,
		interval: interval,
		logger:   logger,
	}
}

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))

	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/catalog", h.GetCatalog)
	api.GET("/pricelist.xlsx", h.GetPriceList)
	api.POST("/estimate", h.PostEstimate)
	api.GET("/estimate/frames", h.GetFrames)

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}
