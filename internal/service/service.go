package service

import (
	"go.uber.org/zap"

	"github.com/opencrafts-io/professor/config"
	"github.com/opencrafts-io/professor/internal/repository"
	"github.com/opencrafts-io/professor/pkg/eventbus"
	"github.com/opencrafts-io/professor/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Ingest   IngestService
	Schedule ScheduleService
}

// NewService 创建 Service 聚合；cache 与 publisher 允许为 nil（降级运行）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache *redis.Client,
	publisher eventbus.Publisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		Ingest:   NewIngestService(cfg, repo, cache, publisher, logger),
		Schedule: NewScheduleService(repo, cache, logger),
	}
}
