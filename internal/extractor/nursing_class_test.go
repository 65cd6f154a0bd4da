package extractor

import (
	"testing"

	"github.com/opencrafts-io/professor/internal/grid"
)

func nursingClassWorkbook() *grid.Workbook {
	registry := grid.Grid{Name: "Courses", Rows: [][]grid.Cell{
		trow(0, "", "CODE", "NAME", "LECTURER"),
		trow(1, "", "NSG 101", "Fundamentals of Nursing", "Dr. Mary"),
		trow(2, "", "NSG 205", "Pharmacology", "Dr. Joe"),
	}}

	timetable := grid.Grid{Name: "Timetable", Rows: [][]grid.Cell{
		trow(0, "SCHOOL OF NURSING"),
		trow(1, "SEMESTER ONE"),
		trow(2, ""),
		// 日期行：第 1 列是星期名
		trow(3, "", "MONDAY"),
		// 第 0 列场地，第 1 列 cohort，第 2 列起按时段排课
		trow(4, "Room 1", "C1", "NSG 101 Fundamentals", "NSG 205 Pharmacology", "", "CHAPEL"),
	}}

	return workbook(registry, timetable)
}

func TestExtractNursingClasses(t *testing.T) {
	records := extractNursingClasses(nursingClassWorkbook())

	if len(records) != 2 {
		t.Fatalf("期望 2 条记录, 实际 %d: %+v", len(records), records)
	}

	first := records[0]
	if first.CourseCode != "NSG101" {
		t.Errorf("代码应去空白截 7 位, 实际 %q", first.CourseCode)
	}
	if first.CourseName != "NSG 101 Fundamentals" {
		t.Errorf("课程名错误: %q", first.CourseName)
	}
	if first.Day != "MONDAY" || first.Venue != "Room 1" {
		t.Errorf("Day/Venue 错误: %+v", first)
	}
	// 下一个非空列在第 3 列，结束时刻取该时段的后界
	if first.Time != "8AM-10AM" {
		t.Errorf("时段错误: %q", first.Time)
	}
	if first.Lecturer != "Dr. Mary" {
		t.Errorf("讲师应来自登记表: %q", first.Lecturer)
	}

	second := records[1]
	if second.CourseCode != "NSG205" || second.Lecturer != "Dr. Joe" {
		t.Errorf("第二条记录错误: %+v", second)
	}
	// 下一个非空列是第 5 列的 CHAPEL
	if second.Time != "9AM-12PM" {
		t.Errorf("合并时段错误: %q", second.Time)
	}

	// CHAPEL 是占位噪声，不产出记录
	for _, rec := range records {
		if rec.CourseName == "CHAPEL" {
			t.Error("噪声词不应产出记录")
		}
	}
}
