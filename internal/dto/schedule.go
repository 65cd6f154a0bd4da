package dto

import (
	"github.com/opencrafts-io/professor/internal/model"
)

// ── 查询请求 ──

// ByCodesRequest 按课程代码集合查询请求
type ByCodesRequest struct {
	InstitutionID string   `json:"institution_id" binding:"omitempty,max=64"`
	SemesterID    *int64   `json:"semester_id" binding:"omitempty,min=1"`
	CourseCodes   []string `json:"course_codes" binding:"required,min=1"`
}

// ListQuery 分页列表查询参数
type ListQuery struct {
	CourseCode    string `form:"course_code"`
	InstitutionID string `form:"institution_id"`
	SemesterID    *int64 `form:"semester_id"`
	Page          int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ── 响应 ──

// ScheduleResponse 单条时间表记录响应
type ScheduleResponse struct {
	ExamScheduleID string                 `json:"exam_schedule_id"`
	CourseCode     string                 `json:"course_code"`
	CourseName     string                 `json:"course_name"`
	InstitutionID  *string                `json:"institution_id"`
	SemesterID     *int64                 `json:"semester_id"`
	Day            string                 `json:"day"`
	DayOfWeek      *string                `json:"day_of_week"`
	ExamDate       *string                `json:"exam_date"` // YYYY-MM-DD
	StartTime      *string                `json:"start_time"`
	EndTime        *string                `json:"end_time"`
	Time           string                 `json:"time"` // 规范时段，缺失时回退原文
	DateTime       *string                `json:"datetime"`
	Location       *string                `json:"location"`
	Room           *string                `json:"room"`
	Building       *string                `json:"building"`
	Campus         string                 `json:"campus"`
	Coordinator    string                 `json:"coordinator"`
	Invigilator    string                 `json:"invigilator"`
	Instructor     *string                `json:"instructor"`
	Hours          float64                `json:"hours"`
	IsRecurring    bool                   `json:"is_recurring"`
	RawData        map[string]interface{} `json:"raw_data"`
}

// ── dto 转换 ──

// FromExamSchedule 存储模型 → 响应
func FromExamSchedule(m *model.ExamSchedule) ScheduleResponse {
	resp := ScheduleResponse{
		ExamScheduleID: m.ExamScheduleID,
		CourseCode:     m.CourseCode,
		CourseName:     m.CourseName,
		InstitutionID:  m.InstitutionID,
		SemesterID:     m.SemesterID,
		Day:            m.Day,
		DayOfWeek:      m.DayOfWeek,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		Location:       m.Location,
		Room:           m.Room,
		Building:       m.Building,
		Campus:         m.Campus,
		Coordinator:    m.Coordinator,
		Invigilator:    m.Invigilator,
		Instructor:     m.Instructor,
		Hours:          m.Hours,
		IsRecurring:    m.IsRecurring,
		RawData:        map[string]interface{}(m.RawData),
	}

	if m.ExamDate != nil {
		d := m.ExamDate.Format("2006-01-02")
		resp.ExamDate = &d
	}

	// 规范时段渲染；解析失败的记录回退 raw_data 里的原文
	if m.StartTime != nil && m.EndTime != nil {
		resp.Time = *m.StartTime + "-" + *m.EndTime
	} else if raw, ok := m.RawData["time"].(string); ok {
		resp.Time = raw
	}

	// exam_date + start_time 的组合时间戳
	if m.ExamDate != nil && m.StartTime != nil {
		dt := m.ExamDate.Format("2006-01-02") + "T" + *m.StartTime + ":00"
		resp.DateTime = &dt
	}

	return resp
}

// FromExamSchedules 批量转换
func FromExamSchedules(ms []model.ExamSchedule) []ScheduleResponse {
	out := make([]ScheduleResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromExamSchedule(&ms[i]))
	}
	return out
}
