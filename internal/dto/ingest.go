package dto

import "github.com/opencrafts-io/professor/internal/extractor"

// ── 文件解析 ──

// ParseResponse 文件解析响应（只解析不落库）
type ParseResponse struct {
	Format  string                   `json:"format"`
	Count   int                      `json:"count"`
	Records []map[string]interface{} `json:"records"`
}

// IngestFileResponse 文件摄入响应
type IngestFileResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ── 结构化批量摄入 ──

// IngestBatchRequest 结构化批量摄入请求
type IngestBatchRequest struct {
	InstitutionID string       `json:"institution_id" binding:"required,max=64"`
	SemesterID    *int64       `json:"semester_id" binding:"omitempty,min=1"`
	IsExam        *bool        `json:"is_exam"` // 缺省按考试处理
	Entries       []BatchEntry `json:"entries" binding:"required,min=1,dive"`
}

// BatchEntry 批量摄入的单条课程条目，字段与抽取器产出对齐
type BatchEntry struct {
	CourseCode   string `json:"course_code" binding:"required"`
	CourseName   string `json:"course_name"`
	Day          string `json:"day"`
	Time         string `json:"time"`
	Venue        string `json:"venue"`
	Campus       string `json:"campus"`
	Coordinator  string `json:"coordinator"`
	Lecturer     string `json:"lecturer"`
	Invigilator  string `json:"invigilator"`
	Hours        string `json:"hours"`
	Program      string `json:"program"`
	Group        string `json:"group"`
	StudentCount string `json:"student_count"`
	Session      string `json:"session"`
}

// IngestBatchResponse 结构化批量摄入响应
type IngestBatchResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"` // 批内自然键重复被后来者覆盖的条数
	Total   int `json:"total"`
}

// ── dto ↔ 领域类型转换 ──

// ToRecord 转为抽取记录，供规范化层复用同一条折叠路径
func (e BatchEntry) ToRecord() extractor.Record {
	return extractor.Record{
		CourseCode:   e.CourseCode,
		CourseName:   e.CourseName,
		Day:          e.Day,
		Time:         e.Time,
		Venue:        e.Venue,
		Campus:       e.Campus,
		Coordinator:  e.Coordinator,
		Lecturer:     e.Lecturer,
		Invigilator:  e.Invigilator,
		Hours:        e.Hours,
		Program:      e.Program,
		Group:        e.Group,
		StudentCount: e.StudentCount,
		Session:      e.Session,
	}
}
