package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opencrafts-io/professor/config"
	"github.com/opencrafts-io/professor/internal/dto"
	"github.com/opencrafts-io/professor/internal/extractor"
	"github.com/opencrafts-io/professor/internal/grid"
	"github.com/opencrafts-io/professor/internal/model"
	"github.com/opencrafts-io/professor/internal/repository"
	"github.com/opencrafts-io/professor/pkg/eventbus"
	"github.com/opencrafts-io/professor/pkg/redis"
)

// ── 摄入模块业务错误 ──

var (
	ErrIngestUnknownFormat  = errors.New("未知的时间表版式")
	ErrIngestFileUnreadable = errors.New("表格文件解析失败")
	ErrIngestInvalidEntry   = errors.New("摄入条目校验失败")
	ErrIngestPersistFailed  = errors.New("时间表写入失败")
)

// ── IngestService 接口 ─────────────────────────────────────
//
// 设计说明：
//   - 文件路径（Parse / ParseAndUpsert）面向五种机构表格：
//     网格读取 → 机构抽取 → 规范化 → 事务 upsert。噪声条目
//     （代码为空 / 超长 / 含机构关键词）静默跳过。
//   - 结构化路径（IngestBatch）是权威入口：任一条目非法则
//     整批拒绝、不落任何行；批内自然键重复后来者覆盖先来者，
//     计入 skipped。提交成功后异步发布摄入事件，发布失败只
//     记日志，不影响已提交的数据。
//   - 同一批次重复摄入以自然键幂等：第二次全部走 update，
//     行数不增长。
// ─────────────────────────────────────────────────────────────

// IngestService 时间表摄入业务接口
type IngestService interface {
	// Parse 解析表格文件，返回抽取结果，不落库
	Parse(ctx context.Context, r io.Reader, format string) (*dto.ParseResponse, error)
	// ParseAndUpsert 解析表格文件并幂等落库
	ParseAndUpsert(ctx context.Context, r io.Reader, format, institutionID string, semesterID *int64) (*dto.IngestFileResponse, error)
	// IngestBatch 结构化批量摄入：整批校验、单事务提交、异步发事件
	IngestBatch(ctx context.Context, req *dto.IngestBatchRequest) (*dto.IngestBatchResponse, error)
}

type ingestService struct {
	cfg       *config.Config
	repo      *repository.Repository
	cache     *redis.Client      // 可为 nil
	publisher eventbus.Publisher // 可为 nil
	logger    *zap.Logger
}

// NewIngestService 创建 IngestService 实例
func NewIngestService(cfg *config.Config, repo *repository.Repository, cache *redis.Client, publisher eventbus.Publisher, logger *zap.Logger) IngestService {
	return &ingestService{cfg: cfg, repo: repo, cache: cache, publisher: publisher, logger: logger}
}

func (s *ingestService) Parse(ctx context.Context, r io.Reader, format string) (*dto.ParseResponse, error) {
	f, err := extractor.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s（可选: %s）", ErrIngestUnknownFormat, format, strings.Join(extractor.FormatNames(), ", "))
	}

	wb, err := grid.Read(r)
	if err != nil {
		s.logger.Error("表格文件读取失败", zap.String("format", format), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrIngestFileUnreadable, err)
	}

	records := extractor.Extract(f, wb)
	fields := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		fields = append(fields, rec.Fields())
	}

	return &dto.ParseResponse{
		Format:  f.String(),
		Count:   len(fields),
		Records: fields,
	}, nil
}

// ════════════════════════════════════════════════════════════
// ParseAndUpsert — 文件摄入
// ════════════════════════════════════════════════════════════

func (s *ingestService) ParseAndUpsert(ctx context.Context, r io.Reader, format, institutionID string, semesterID *int64) (*dto.IngestFileResponse, error) {
	f, err := extractor.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s（可选: %s）", ErrIngestUnknownFormat, format, strings.Join(extractor.FormatNames(), ", "))
	}

	wb, err := grid.Read(r)
	if err != nil {
		s.logger.Error("表格文件读取失败", zap.String("format", format), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrIngestFileUnreadable, err)
	}

	records := extractor.Extract(f, wb)

	schedules := make([]model.ExamSchedule, 0, len(records))
	for _, rec := range records {
		if problem := courseCodeProblem(rec.CourseCode); problem != "" {
			// 表头 / 标题行混进课程列是常态，跳过不报错
			s.logger.Debug("跳过噪声条目",
				zap.String("course_code", rec.CourseCode),
				zap.String("reason", problem))
			continue
		}
		schedules = append(schedules, canonicalize(rec, institutionID, semesterID, f.IsExam(), s.cfg.Ingest.DefaultHours))
	}

	result, err := s.repo.ExamSchedule.UpsertBatch(ctx, schedules)
	if err != nil {
		s.logger.Error("文件摄入事务失败", zap.String("format", format), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrIngestPersistFailed, err)
	}

	s.invalidateLookups(ctx, institutionID)

	s.logger.Info("文件摄入完成",
		zap.String("format", format),
		zap.String("institution_id", institutionID),
		zap.Int("extracted", len(records)),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated))

	return &dto.IngestFileResponse{Created: result.Created, Updated: result.Updated}, nil
}

// ════════════════════════════════════════════════════════════
// IngestBatch — 结构化批量摄入
// ════════════════════════════════════════════════════════════
//
// 流程：
//   1. 整批校验，任一条非法立即拒绝（此时尚未写任何行）
//   2. 批内按自然键去重，后来者覆盖先来者
//   3. 单事务 upsert
//   4. 提交后异步发布摄入事件 + 失效机构查询缓存

func (s *ingestService) IngestBatch(ctx context.Context, req *dto.IngestBatchRequest) (*dto.IngestBatchResponse, error) {
	isExam := req.IsExam == nil || *req.IsExam

	// 1. 校验先行，保证拒绝发生在任何写入之前
	for i, entry := range req.Entries {
		if problem := courseCodeProblem(entry.CourseCode); problem != "" {
			return nil, fmt.Errorf("%w: 第 %d 条 (%s): %s", ErrIngestInvalidEntry, i+1, entry.CourseCode, problem)
		}
	}

	// 2. 批内去重：同一自然键后出现的条目是权威版本
	unique := make(map[string]int) // 自然键 → schedules 下标
	schedules := make([]model.ExamSchedule, 0, len(req.Entries))
	skipped := 0
	for _, entry := range req.Entries {
		schedule := canonicalize(entry.ToRecord(), req.InstitutionID, req.SemesterID, isExam, s.cfg.Ingest.DefaultHours)
		key := schedule.CourseCode
		if idx, ok := unique[key]; ok {
			schedules[idx] = schedule
			skipped++
			continue
		}
		unique[key] = len(schedules)
		schedules = append(schedules, schedule)
	}

	// 3. 单事务提交
	result, err := s.repo.ExamSchedule.UpsertBatch(ctx, schedules)
	if err != nil {
		s.logger.Error("批量摄入事务失败",
			zap.String("institution_id", req.InstitutionID),
			zap.Int("entries", len(req.Entries)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrIngestPersistFailed, err)
	}

	// 4. 提交已完成，事件发布和缓存失效都不再影响结果
	s.publishIngested(req.InstitutionID, req.SemesterID, schedules)
	s.invalidateLookups(ctx, req.InstitutionID)

	s.logger.Info("批量摄入完成",
		zap.String("institution_id", req.InstitutionID),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", skipped))

	return &dto.IngestBatchResponse{
		Created: result.Created,
		Updated: result.Updated,
		Skipped: skipped,
		Total:   len(req.Entries),
	}, nil
}

// publishIngested 异步发布摄入事件；发布失败只记日志
func (s *ingestService) publishIngested(institutionID string, semesterID *int64, schedules []model.ExamSchedule) {
	if s.publisher == nil {
		return
	}

	codes := make([]string, 0, len(schedules))
	seen := make(map[string]bool)
	for _, schedule := range schedules {
		if !seen[schedule.CourseCode] {
			seen[schedule.CourseCode] = true
			codes = append(codes, schedule.CourseCode)
		}
	}

	evt := eventbus.IngestedEvent{
		InstitutionID: institutionID,
		SemesterID:    semesterID,
		CourseCodes:   codes,
		Timestamp:     time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.publisher.PublishIngested(ctx, evt); err != nil {
			s.logger.Warn("摄入事件发布失败",
				zap.String("institution_id", institutionID),
				zap.Int("course_codes", len(codes)),
				zap.Error(err))
		}
	}()
}

// invalidateLookups 失效机构的查询缓存；缓存不可用时直接跳过
func (s *ingestService) invalidateLookups(ctx context.Context, institutionID string) {
	if s.cache == nil || institutionID == "" {
		return
	}
	if err := s.cache.InvalidateInstitution(ctx, institutionID); err != nil {
		s.logger.Warn("查询缓存失效失败", zap.String("institution_id", institutionID), zap.Error(err))
	}
}
