package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/opencrafts-io/professor/internal/extractor"
	"github.com/opencrafts-io/professor/internal/model"
	"github.com/opencrafts-io/professor/internal/normalize"
)

// ── 规范化层：抽取记录 → 存储模型 ──────────────────────────
//
// 抽取器产出的是表格原文，这里折叠成统一的 ExamSchedule：
//   - 日期/时间经 normalize 解析，失败保留原文、可空列置 NULL
//   - venue 同时落到 location 与 room，多词时首词记为 building
//   - instructor 按 讲师 > 主监考 > 协调人 取第一个非空
//   - 原始字段整体进 raw_data，规范化有损时仍可回溯
// ─────────────────────────────────────────────────────────────

// 疑似机构/院系标题而非课程代码的关键词
var invalidCodeKeywords = []string{
	"UNIVERSITY", "BACHELOR", "SCHOOL", "INSTITUTE",
	"DEPARTMENT", "FACULTY", "COLLEGE", "PROGRAMME", "PROGRAM",
}

// 各列的字符数上限，与迁移里的 varchar 宽度一一对应。
// 提交前在这里截断，列宽溢出不应该走到数据库报错再回滚
const (
	maxCourseCodeLen  = 50
	maxCourseNameLen  = 255
	maxInstitutionLen = 64
	maxDayLen         = 100
	maxCampusLen      = 100
	maxPersonLen      = 255
	maxVenueLen       = 255
	maxRoomLen        = 100
)

// clip 按字符数截断，varchar(n) 以字符计数而非字节
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// courseCodeProblem 校验课程代码，合法返回空串，否则返回原因
func courseCodeProblem(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "课程代码为空"
	}
	if len(code) > maxCourseCodeLen {
		return fmt.Sprintf("课程代码超过 %d 字符", maxCourseCodeLen)
	}
	upper := strings.ToUpper(code)
	for _, kw := range invalidCodeKeywords {
		if strings.Contains(upper, kw) {
			return fmt.Sprintf("课程代码含机构关键词 %q", kw)
		}
	}
	return ""
}

// canonicalize 把一条抽取记录折叠成存储模型
func canonicalize(rec extractor.Record, institutionID string, semesterID *int64, isExam bool, defaultHours float64) model.ExamSchedule {
	code := strings.TrimSpace(rec.CourseCode)

	name := strings.TrimSpace(rec.CourseName)
	if name == "" {
		name = code
	}
	name = clip(name, maxCourseNameLen)

	schedule := model.ExamSchedule{
		CourseCode:  code,
		CourseName:  name,
		Day:         clip(strings.TrimSpace(rec.Day), maxDayLen),
		Campus:      clip(strings.TrimSpace(rec.Campus), maxCampusLen),
		Coordinator: clip(strings.TrimSpace(rec.Coordinator), maxPersonLen),
		Invigilator: clip(strings.TrimSpace(rec.Invigilator), maxPersonLen),
		IsRecurring: !isExam,
		RawData:     model.JSONMap(rec.Fields()),
	}

	if institutionID != "" {
		inst := clip(institutionID, maxInstitutionLen)
		schedule.InstitutionID = &inst
	}
	schedule.SemesterID = semesterID

	// 日期：解析成功才派生 exam_date 与 day_of_week；
	// 解析失败但文本里有星期词的，仅降级保留 day_of_week
	rd := normalize.ParseDate(rec.Day)
	if rd.Resolved {
		date := rd.Date
		schedule.ExamDate = &date
		dow := rd.DayOfWeek
		schedule.DayOfWeek = &dow
	} else if dow, ok := normalize.WeekdayFromText(rec.Day); ok {
		schedule.DayOfWeek = &dow
	}

	// 时间：解析成功落 HH:MM，失败置 NULL、原文留在 raw_data
	tr := normalize.ParseTimeRange(rec.Time)
	if tr.Resolved {
		start := tr.Start.String()
		end := tr.End.String()
		schedule.StartTime = &start
		schedule.EndTime = &end
	}
	schedule.Hours = normalize.Hours(tr, hoursFallback(rec.Hours, defaultHours))

	// 场地：venue 整体即 location 和 room，多词时首词当 building
	venue := clip(strings.TrimSpace(rec.Venue), maxVenueLen)
	if venue != "" {
		schedule.Location = &venue
		room := clip(venue, maxRoomLen)
		schedule.Room = &room
		if parts := strings.Fields(venue); len(parts) > 1 {
			building := parts[0]
			schedule.Building = &building
		}
	}

	if instructor := firstNonEmpty(rec.Lecturer, rec.Invigilator, rec.Coordinator); instructor != "" {
		instructor = clip(instructor, maxPersonLen)
		schedule.Instructor = &instructor
	}

	return schedule
}

// hoursFallback 时段无法解析时的时长来源：先信抽取记录自带的数值，再用配置默认
func hoursFallback(recHours string, defaultHours float64) float64 {
	if h, err := strconv.ParseFloat(strings.TrimSpace(recHours), 64); err == nil && h > 0 && h < 24 {
		return h
	}
	return defaultHours
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
