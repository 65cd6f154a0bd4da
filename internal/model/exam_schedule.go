package model

import "time"

// ExamSchedule 规范考试/课程时间表记录 — 对应 exam_schedules
//
// 自然键为 (course_code, institution_id, semester_id)，NULL 视为一个具体值
// 参与唯一性（迁移中以 COALESCE 表达式索引实现），幂等 upsert 以此为单位。
type ExamSchedule struct {
	ExamScheduleID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exam_schedule_id"`
	CourseCode     string  `gorm:"type:varchar(50);not null"                      json:"course_code"`
	CourseName     string  `gorm:"type:varchar(255);not null;default:''"          json:"course_name"`
	InstitutionID  *string `gorm:"type:varchar(64)"                               json:"institution_id"`
	SemesterID     *int64  `gorm:"type:bigint"                                    json:"semester_id"`

	// Day 保留来源的原始日期/星期文本；DayOfWeek 仅由解析成功的日历日期派生
	Day       string     `gorm:"type:varchar(100);not null;default:''" json:"day"`
	DayOfWeek *string    `gorm:"type:varchar(16)"                      json:"day_of_week"`
	ExamDate  *time.Time `gorm:"type:date"                             json:"exam_date"`
	StartTime *string    `gorm:"type:time"                             json:"start_time"` // HH:MM
	EndTime   *string    `gorm:"type:time"                             json:"end_time"`   // HH:MM

	Location    *string `gorm:"type:varchar(255)"                     json:"location"`
	Room        *string `gorm:"type:varchar(100)"                     json:"room"`
	Building    *string `gorm:"type:varchar(255)"                     json:"building"`
	Campus      string  `gorm:"type:varchar(100);not null;default:''" json:"campus"`
	Coordinator string  `gorm:"type:varchar(255);not null;default:''" json:"coordinator"`
	Invigilator string  `gorm:"type:varchar(255);not null;default:''" json:"invigilator"`
	Instructor  *string `gorm:"type:varchar(255)"                     json:"instructor"`

	Hours       float64 `gorm:"type:numeric(4,1);not null;default:2.0" json:"hours"`
	IsRecurring bool    `gorm:"not null;default:false"                 json:"is_recurring"` // 周期性课程 true / 一次性考试 false
	RawData     JSONMap `gorm:"type:jsonb;not null;default:'{}'"       json:"raw_data"`

	BaseModel
}

// TableName 指定表名
func (ExamSchedule) TableName() string { return "exam_schedules" }
