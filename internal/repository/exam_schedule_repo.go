package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/opencrafts-io/professor/internal/model"
)

// ScheduleFilter 查询过滤条件；零值字段不参与过滤
type ScheduleFilter struct {
	InstitutionID string
	SemesterID    *int64
	CourseCode    string // 模糊匹配
	Page          int
	PageSize      int
}

// UpsertResult 批量 upsert 的计数结果
type UpsertResult struct {
	Created int
	Updated int
}

// ExamScheduleRepository 考试时间表数据访问接口
type ExamScheduleRepository interface {
	// UpsertBatch 以自然键 (course_code, institution_id, semester_id) 为单位，
	// 在单个事务中逐条替换或创建；任一条失败整体回滚
	UpsertBatch(ctx context.Context, schedules []model.ExamSchedule) (UpsertResult, error)
	ListByInstitution(ctx context.Context, institutionID string, semesterID *int64) ([]model.ExamSchedule, error)
	List(ctx context.Context, filter ScheduleFilter) ([]model.ExamSchedule, int64, error)
	// SearchByCodes 按课程代码正则集合检索：代码匹配容忍内部空白差异
	// 和单字母分组后缀差异
	SearchByCodes(ctx context.Context, institutionID string, semesterID *int64, codes []string) ([]model.ExamSchedule, error)
}

type examScheduleRepo struct {
	db *gorm.DB
}

// NewExamScheduleRepo 创建 ExamScheduleRepository 实例
func NewExamScheduleRepo(db *gorm.DB) ExamScheduleRepository {
	return &examScheduleRepo{db: db}
}

func (r *examScheduleRepo) UpsertBatch(ctx context.Context, schedules []model.ExamSchedule) (UpsertResult, error) {
	var result UpsertResult
	if len(schedules) == 0 {
		return result, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range schedules {
			incoming := &schedules[i]

			var existing model.ExamSchedule
			err := naturalKeyScope(tx, incoming).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(incoming).Error; err != nil {
					return err
				}
				result.Created++
			case err != nil:
				return err
			default:
				// 保留主键和创建时间，其余字段整体替换
				incoming.ExamScheduleID = existing.ExamScheduleID
				incoming.CreatedAt = existing.CreatedAt
				if err := tx.Model(&model.ExamSchedule{}).
					Where("exam_schedule_id = ?", existing.ExamScheduleID).
					Select("*").Omit("exam_schedule_id", "created_at").
					Updates(incoming).Error; err != nil {
					return err
				}
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return UpsertResult{}, err
	}
	return result, nil
}

// naturalKeyScope 自然键查找：NULL 的机构/学期折叠成哨兵值参与等值比较，
// 与迁移里的 COALESCE 唯一索引同一语义
func naturalKeyScope(tx *gorm.DB, s *model.ExamSchedule) *gorm.DB {
	inst := ""
	if s.InstitutionID != nil {
		inst = *s.InstitutionID
	}
	var sem int64 = -1
	if s.SemesterID != nil {
		sem = *s.SemesterID
	}
	return tx.Where(
		"course_code = ? AND COALESCE(institution_id, '') = ? AND COALESCE(semester_id, -1) = ?",
		s.CourseCode, inst, sem,
	)
}

func (r *examScheduleRepo) ListByInstitution(ctx context.Context, institutionID string, semesterID *int64) ([]model.ExamSchedule, error) {
	var schedules []model.ExamSchedule
	query := r.db.WithContext(ctx).Where("institution_id = ?", institutionID)
	if semesterID != nil {
		query = query.Where("semester_id = ?", *semesterID)
	}
	err := query.Order("exam_date ASC NULLS LAST, start_time ASC NULLS LAST, course_code ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *examScheduleRepo) List(ctx context.Context, filter ScheduleFilter) ([]model.ExamSchedule, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ExamSchedule{})
	if filter.InstitutionID != "" {
		query = query.Where("institution_id = ?", filter.InstitutionID)
	}
	if filter.SemesterID != nil {
		query = query.Where("semester_id = ?", *filter.SemesterID)
	}
	if filter.CourseCode != "" {
		query = query.Where("course_code ILIKE ?", "%"+filter.CourseCode+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var schedules []model.ExamSchedule
	err := query.Order("exam_date ASC NULLS LAST, start_time ASC NULLS LAST, course_code ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&schedules).Error
	return schedules, total, err
}

func (r *examScheduleRepo) SearchByCodes(ctx context.Context, institutionID string, semesterID *int64, codes []string) ([]model.ExamSchedule, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx)
	if institutionID != "" {
		query = query.Where("institution_id = ?", institutionID)
	}
	if semesterID != nil {
		query = query.Where("semester_id = ?", *semesterID)
	}

	conds := make([]string, 0, len(codes))
	args := make([]interface{}, 0, len(codes))
	for _, code := range codes {
		pattern := BuildCodePattern(code)
		if pattern == "" {
			continue
		}
		conds = append(conds, "course_code ~* ?")
		args = append(args, pattern)
	}
	if len(conds) == 0 {
		return nil, nil
	}
	query = query.Where(strings.Join(conds, " OR "), args...)

	var schedules []model.ExamSchedule
	err := query.Order("exam_date ASC NULLS LAST, start_time ASC NULLS LAST, course_code ASC").
		Find(&schedules).Error
	return schedules, err
}

// reCodeWithGroupSuffix 字母 + 数字 + 单个尾字母：尾字母按分组后缀剥掉
var reCodeWithGroupSuffix = regexp.MustCompile(`^[A-Za-z]+\d+[A-Za-z]$`)

// BuildCodePattern 把查询课程代码编译成大小写不敏感的匹配模式：
// 先去掉内部空白并剥离分组后缀，再允许存储侧代码的任意内部空白
// 和一个可选尾字母。"ACS101A" 与 "ACS 101" 因此互相可查。
func BuildCodePattern(code string) string {
	compact := strings.Join(strings.Fields(code), "")
	if compact == "" {
		return ""
	}
	if reCodeWithGroupSuffix.MatchString(compact) {
		compact = compact[:len(compact)-1]
	}

	var b strings.Builder
	b.WriteString(`^\s*`)
	for _, r := range compact {
		b.WriteString(regexp.QuoteMeta(string(r)))
		b.WriteString(`\s*`)
	}
	b.WriteString(`[A-Za-z]?\s*$`)
	return b.String()
}
