package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/opencrafts-io/professor/internal/dto"
	"github.com/opencrafts-io/professor/internal/model"
	"github.com/opencrafts-io/professor/internal/repository"
	"github.com/opencrafts-io/professor/pkg/redis"
)

// ── 查询模块业务错误 ──

var (
	ErrScheduleInstitutionRequired = errors.New("缺少机构标识")
	ErrScheduleNotFound            = errors.New("未找到匹配的时间表记录")
)

// byCodesCacheTTL 按代码查询的缓存有效期；摄入时按机构整体失效
const byCodesCacheTTL = 10 * time.Minute

// ScheduleService 时间表查询业务接口
type ScheduleService interface {
	// ByCodes 按课程代码集合查询；代码匹配容忍空白和分组后缀差异
	ByCodes(ctx context.Context, req *dto.ByCodesRequest) ([]dto.ScheduleResponse, error)
	// ByInstitution 按机构查询全部记录
	ByInstitution(ctx context.Context, institutionID string, semesterID *int64) ([]dto.ScheduleResponse, error)
	// List 分页列表
	List(ctx context.Context, query *dto.ListQuery) ([]dto.ScheduleResponse, int64, error)
	// ExportICS 把查询结果导出为 iCalendar 文档（仅含有完整日期时间的记录）
	ExportICS(ctx context.Context, query *dto.ListQuery) (string, error)
}

type scheduleService struct {
	repo   *repository.Repository
	cache  *redis.Client // 可为 nil
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, cache *redis.Client, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, cache: cache, logger: logger}
}

func (s *scheduleService) ByCodes(ctx context.Context, req *dto.ByCodesRequest) ([]dto.ScheduleResponse, error) {
	cacheField := byCodesCacheField(req)

	// 缓存命中直接返回；缓存层任何错误都回落到数据库
	if s.cache != nil && req.InstitutionID != "" {
		if payload, err := s.cache.GetLookup(ctx, req.InstitutionID, cacheField); err == nil && payload != "" {
			var cached []dto.ScheduleResponse
			if err := json.Unmarshal([]byte(payload), &cached); err == nil {
				return cached, nil
			}
		}
	}

	schedules, err := s.repo.ExamSchedule.SearchByCodes(ctx, req.InstitutionID, req.SemesterID, req.CourseCodes)
	if err != nil {
		s.logger.Error("按课程代码查询失败", zap.Strings("course_codes", req.CourseCodes), zap.Error(err))
		return nil, err
	}

	result := dto.FromExamSchedules(schedules)

	if s.cache != nil && req.InstitutionID != "" {
		if payload, err := json.Marshal(result); err == nil {
			if err := s.cache.SetLookup(ctx, req.InstitutionID, cacheField, string(payload), byCodesCacheTTL); err != nil {
				s.logger.Warn("查询缓存写入失败", zap.String("institution_id", req.InstitutionID), zap.Error(err))
			}
		}
	}

	return result, nil
}

// byCodesCacheField 查询参数折叠成缓存字段名
func byCodesCacheField(req *dto.ByCodesRequest) string {
	sem := "none"
	if req.SemesterID != nil {
		sem = fmt.Sprintf("%d", *req.SemesterID)
	}
	codes := make([]string, len(req.CourseCodes))
	for i, c := range req.CourseCodes {
		codes[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return "codes:" + sem + ":" + strings.Join(codes, ",")
}

func (s *scheduleService) ByInstitution(ctx context.Context, institutionID string, semesterID *int64) ([]dto.ScheduleResponse, error) {
	if strings.TrimSpace(institutionID) == "" {
		return nil, ErrScheduleInstitutionRequired
	}

	schedules, err := s.repo.ExamSchedule.ListByInstitution(ctx, institutionID, semesterID)
	if err != nil {
		s.logger.Error("按机构查询失败", zap.String("institution_id", institutionID), zap.Error(err))
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, ErrScheduleNotFound
	}

	return dto.FromExamSchedules(schedules), nil
}

func (s *scheduleService) List(ctx context.Context, query *dto.ListQuery) ([]dto.ScheduleResponse, int64, error) {
	// 归一化分页参数：显式传 0 会绕过 binding 默认值，
	// 这里和存储层用同一套钳制规则，保证响应回显与实际取数一致
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	schedules, total, err := s.repo.ExamSchedule.List(ctx, repository.ScheduleFilter{
		InstitutionID: query.InstitutionID,
		SemesterID:    query.SemesterID,
		CourseCode:    query.CourseCode,
		Page:          query.Page,
		PageSize:      query.PageSize,
	})
	if err != nil {
		s.logger.Error("时间表列表查询失败", zap.Error(err))
		return nil, 0, err
	}
	return dto.FromExamSchedules(schedules), total, nil
}

// ════════════════════════════════════════════════════════════
// ExportICS — iCalendar 导出
// ════════════════════════════════════════════════════════════
//
// 只有 exam_date + start_time + end_time 齐全的记录才能成为
// VEVENT；其余记录静默跳过，导出永远是合法日历文档。

func (s *scheduleService) ExportICS(ctx context.Context, query *dto.ListQuery) (string, error) {
	filter := repository.ScheduleFilter{
		InstitutionID: query.InstitutionID,
		SemesterID:    query.SemesterID,
		CourseCode:    query.CourseCode,
		Page:          1,
		PageSize:      100,
	}

	var schedules []model.ExamSchedule
	if query.InstitutionID != "" && query.CourseCode == "" {
		all, err := s.repo.ExamSchedule.ListByInstitution(ctx, query.InstitutionID, query.SemesterID)
		if err != nil {
			return "", err
		}
		schedules = all
	} else {
		page, _, err := s.repo.ExamSchedule.List(ctx, filter)
		if err != nil {
			return "", err
		}
		schedules = page
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//opencrafts//professor//EN")

	now := time.Now().UTC()
	for i := range schedules {
		schedule := &schedules[i]
		start, end, ok := sessionInterval(schedule)
		if !ok {
			continue
		}

		event := cal.AddEvent(schedule.ExamScheduleID + "@professor.opencrafts.io")
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)

		summary := schedule.CourseCode
		if schedule.CourseName != "" && schedule.CourseName != schedule.CourseCode {
			summary += " " + schedule.CourseName
		}
		event.SetSummary(summary)

		if schedule.Location != nil {
			event.SetLocation(*schedule.Location)
		}
		if schedule.Instructor != nil {
			event.SetDescription("Instructor: " + *schedule.Instructor)
		}
	}

	return cal.Serialize(), nil
}

// sessionInterval 从记录拼出场次的起止时刻；信息不全返回 false
func sessionInterval(schedule *model.ExamSchedule) (time.Time, time.Time, bool) {
	if schedule.ExamDate == nil || schedule.StartTime == nil || schedule.EndTime == nil {
		return time.Time{}, time.Time{}, false
	}

	start, err := time.Parse("2006-01-02 15:04", schedule.ExamDate.Format("2006-01-02")+" "+*schedule.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02 15:04", schedule.ExamDate.Format("2006-01-02")+" "+*schedule.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	// 跨零点的场次按次日结束处理
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, true
}
