package handler

import "github.com/opencrafts-io/professor/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Ingest   *IngestHandler
	Schedule *ScheduleHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Ingest:   NewIngestHandler(svc.Ingest),
		Schedule: NewScheduleHandler(svc.Schedule),
	}
}
