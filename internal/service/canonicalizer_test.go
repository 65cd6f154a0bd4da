package service

import (
	"strings"
	"testing"

	"github.com/opencrafts-io/professor/internal/extractor"
)

func TestCourseCodeProblem(t *testing.T) {
	tests := []struct {
		name string
		code string
		ok   bool
	}{
		{"常规代码", "ACS 101", true},
		{"带分组后缀", "BIT1204A", true},
		{"前后空白", "  NSG 210  ", true},
		{"空串", "", false},
		{"纯空白", "   ", false},
		{"超长", strings.Repeat("A", 51), false},
		{"恰好上限", strings.Repeat("A", 50), true},
		{"机构标题", "DAYSTAR UNIVERSITY", false},
		{"学位标题", "BACHELOR OF COMMERCE", false},
		{"院系标题", "SCHOOL OF NURSING", false},
		{"小写关键词也命中", "bachelor of science", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := courseCodeProblem(tt.code)
			if tt.ok && problem != "" {
				t.Errorf("courseCodeProblem(%q) = %q, 期望合法", tt.code, problem)
			}
			if !tt.ok && problem == "" {
				t.Errorf("courseCodeProblem(%q) 期望返回原因, 实际为空", tt.code)
			}
		})
	}
}

func TestCanonicalizeFullRecord(t *testing.T) {
	rec := extractor.Record{
		CourseCode:  " ACS 101 ",
		CourseName:  "Intro to Programming",
		Day:         "MONDAY 01/12/2025",
		Time:        "8.30AM-11.30AM",
		Venue:       "Hall B",
		Campus:      "Athi River",
		Lecturer:    "Dr. Jane",
		Invigilator: "Mr. Smith",
		Coordinator: "Prof. Brown",
	}
	semID := int64(7)
	s := canonicalize(rec, "daystar", &semID, true, 2)

	if s.CourseCode != "ACS 101" {
		t.Errorf("CourseCode = %q, 期望 \"ACS 101\"", s.CourseCode)
	}
	if s.InstitutionID == nil || *s.InstitutionID != "daystar" {
		t.Errorf("InstitutionID = %v, 期望 daystar", s.InstitutionID)
	}
	if s.SemesterID == nil || *s.SemesterID != 7 {
		t.Errorf("SemesterID = %v, 期望 7", s.SemesterID)
	}
	if s.ExamDate == nil || s.ExamDate.Format("2006-01-02") != "2025-12-01" {
		t.Errorf("ExamDate = %v, 期望 2025-12-01", s.ExamDate)
	}
	if s.DayOfWeek == nil || *s.DayOfWeek != "Monday" {
		t.Errorf("DayOfWeek = %v, 期望 Monday", s.DayOfWeek)
	}
	if s.StartTime == nil || *s.StartTime != "08:30" {
		t.Errorf("StartTime = %v, 期望 08:30", s.StartTime)
	}
	if s.EndTime == nil || *s.EndTime != "11:30" {
		t.Errorf("EndTime = %v, 期望 11:30", s.EndTime)
	}
	if s.Hours != 3 {
		t.Errorf("Hours = %v, 期望 3", s.Hours)
	}
	if s.Location == nil || *s.Location != "Hall B" {
		t.Errorf("Location = %v, 期望 Hall B", s.Location)
	}
	if s.Room == nil || *s.Room != "Hall B" {
		t.Errorf("Room = %v, 期望 Hall B", s.Room)
	}
	if s.Building == nil || *s.Building != "Hall" {
		t.Errorf("Building = %v, 期望 Hall（多词场地取首词）", s.Building)
	}
	// instructor 取第一个非空：讲师优先于监考和协调人
	if s.Instructor == nil || *s.Instructor != "Dr. Jane" {
		t.Errorf("Instructor = %v, 期望 Dr. Jane", s.Instructor)
	}
	if s.IsRecurring {
		t.Error("考试记录 IsRecurring 应为 false")
	}
	if s.RawData["course_code"] != " ACS 101 " {
		t.Errorf("RawData 应保留原文, 实际 %v", s.RawData["course_code"])
	}
}

func TestCanonicalizeInstructorPrecedence(t *testing.T) {
	rec := extractor.Record{
		CourseCode:  "NSG 210",
		Invigilator: "Mr. Smith",
		Coordinator: "Prof. Brown",
	}
	s := canonicalize(rec, "", nil, true, 2)
	if s.Instructor == nil || *s.Instructor != "Mr. Smith" {
		t.Errorf("无讲师时 Instructor = %v, 期望监考人 Mr. Smith", s.Instructor)
	}

	rec.Invigilator = ""
	s = canonicalize(rec, "", nil, true, 2)
	if s.Instructor == nil || *s.Instructor != "Prof. Brown" {
		t.Errorf("仅协调人时 Instructor = %v, 期望 Prof. Brown", s.Instructor)
	}
}

func TestCanonicalizeDegraded(t *testing.T) {
	// 日期解析失败但有星期词：只保留 day_of_week
	rec := extractor.Record{
		CourseCode: "BIT 1204",
		Day:        "MONDAY",
		Time:       "TBA",
		Venue:      "Lab1",
	}
	s := canonicalize(rec, "kca", nil, false, 2)

	if s.ExamDate != nil {
		t.Errorf("不可解析日期 ExamDate 应为 nil, 实际 %v", s.ExamDate)
	}
	if s.DayOfWeek == nil || *s.DayOfWeek != "Monday" {
		t.Errorf("DayOfWeek = %v, 期望降级保留 Monday", s.DayOfWeek)
	}
	if s.StartTime != nil || s.EndTime != nil {
		t.Errorf("不可解析时段应置 NULL, 实际 %v-%v", s.StartTime, s.EndTime)
	}
	if s.Hours != 2 {
		t.Errorf("Hours = %v, 期望配置默认 2", s.Hours)
	}
	if s.Building != nil {
		t.Errorf("单词场地不应派生 Building, 实际 %v", s.Building)
	}
	if !s.IsRecurring {
		t.Error("课程表记录 IsRecurring 应为 true")
	}
	// 课程名缺省等于课程代码
	if s.CourseName != "BIT 1204" {
		t.Errorf("CourseName = %q, 期望缺省为课程代码", s.CourseName)
	}
	if s.SemesterID != nil || s.InstitutionID == nil {
		t.Errorf("机构/学期指针不符: inst=%v sem=%v", s.InstitutionID, s.SemesterID)
	}
}

func TestHoursFallback(t *testing.T) {
	tests := []struct {
		recHours string
		def      float64
		want     float64
	}{
		{"3", 2, 3},
		{" 2.5 ", 2, 2.5},
		{"", 2, 2},
		{"abc", 2, 2},
		{"0", 2, 2},
		{"-1", 2, 2},
		{"24", 2, 2},
	}
	for _, tt := range tests {
		if got := hoursFallback(tt.recHours, tt.def); got != tt.want {
			t.Errorf("hoursFallback(%q, %v) = %v, 期望 %v", tt.recHours, tt.def, got, tt.want)
		}
	}
}

func TestCanonicalizeNameTruncated(t *testing.T) {
	rec := extractor.Record{
		CourseCode: "ACS 101",
		CourseName: strings.Repeat("x", 300),
	}
	s := canonicalize(rec, "", nil, true, 2)
	if len(s.CourseName) != 255 {
		t.Errorf("CourseName 长度 = %d, 期望截断到 255", len(s.CourseName))
	}
}

func TestCanonicalizeBoundedColumns(t *testing.T) {
	// 所有 varchar 列在提交前截断到列宽，列宽溢出不应走到
	// 数据库报错再整批回滚
	rec := extractor.Record{
		CourseCode:  "ACS 101",
		Day:         strings.Repeat("d", 150),
		Campus:      strings.Repeat("c", 150),
		Coordinator: strings.Repeat("k", 300),
		Invigilator: strings.Repeat("i", 300),
		Lecturer:    strings.Repeat("l", 300),
		Venue:       "Block " + strings.Repeat("v", 300),
	}
	s := canonicalize(rec, strings.Repeat("n", 80), nil, true, 2)

	if got := len([]rune(s.Day)); got != 100 {
		t.Errorf("Day 长度 = %d, 期望 100", got)
	}
	if got := len([]rune(s.Campus)); got != 100 {
		t.Errorf("Campus 长度 = %d, 期望 100", got)
	}
	if got := len([]rune(s.Coordinator)); got != 255 {
		t.Errorf("Coordinator 长度 = %d, 期望 255", got)
	}
	if got := len([]rune(s.Invigilator)); got != 255 {
		t.Errorf("Invigilator 长度 = %d, 期望 255", got)
	}
	if s.Instructor == nil || len([]rune(*s.Instructor)) != 255 {
		t.Errorf("Instructor = %v, 期望截断到 255", s.Instructor)
	}
	if s.Location == nil || len([]rune(*s.Location)) != 255 {
		t.Errorf("Location = %v, 期望截断到 255", s.Location)
	}
	if s.Room == nil || len([]rune(*s.Room)) != 100 {
		t.Errorf("Room = %v, 期望截断到 100", s.Room)
	}
	if s.InstitutionID == nil || len([]rune(*s.InstitutionID)) != 64 {
		t.Errorf("InstitutionID = %v, 期望截断到 64", s.InstitutionID)
	}
}

func TestClipCountsRunes(t *testing.T) {
	// varchar(n) 按字符计数，截断不能落在多字节字符中间
	s := clip(strings.Repeat("课", 120), 100)
	if got := len([]rune(s)); got != 100 {
		t.Errorf("截断后字符数 = %d, 期望 100", got)
	}
	if s != strings.Repeat("课", 100) {
		t.Error("截断应保持完整字符")
	}

	if clip("short", 100) != "short" {
		t.Error("未超限的值应原样返回")
	}
}
