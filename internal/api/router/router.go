package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opencrafts-io/professor/config"
	"github.com/opencrafts-io/professor/internal/api/handler"
	"github.com/opencrafts-io/professor/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Ingest.MaxFileSize))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	timetable := r.Group("/api/v1/timetable")
	{
		timetable.POST("/parse", h.Ingest.Parse)
		timetable.POST("/ingest", h.Ingest.Ingest)
		timetable.POST("/by-codes", h.Schedule.ByCodes)
		timetable.GET("/by-institution", h.Schedule.ByInstitution)
		timetable.GET("", h.Schedule.List)
		timetable.GET("/export.ics", h.Schedule.ExportICS)
	}

	return r
}
