package extractor

import (
	"testing"
	"time"

	"github.com/opencrafts-io/professor/internal/grid"
)

func schoolExamSheet() grid.Grid {
	examDay := time.Date(2025, 12, 6, 0, 0, 0, 0, time.UTC)
	return grid.Grid{Name: "Main Campus", Rows: [][]grid.Cell{
		{trow(0, "ROOM")[0], dateCell(0, 1, examDay, "12-06-25")},
		trow(1, "Hall A", "8:30-10:30"),
		trow(2, "Hall B", "ACS 101A"),
		// 机构标题混进数据列，结构过滤剔除
		trow(3, "", "DAYSTAR UNIVERSITY"),
		// 星期词切换 day 状态
		trow(4, "", "MONDAY"),
		// 同一时段的重复代码
		trow(5, "", "ACS 101A"),
	}}
}

func TestExtractSchoolExams(t *testing.T) {
	records := extractSchoolExams(workbook(schoolExamSheet()))

	if len(records) != 1 {
		t.Fatalf("期望 1 条记录, 实际 %d: %+v", len(records), records)
	}

	rec := records[0]
	if rec.CourseCode != "ACS 101A" {
		t.Errorf("课程代码错误: %q", rec.CourseCode)
	}
	// 日期单元格展开为 星期 + 日期
	if rec.Day != "SATURDAY 2025/12/06" {
		t.Errorf("Day 错误: %q", rec.Day)
	}
	if rec.Time != "8:30-10:30" {
		t.Errorf("时段错误: %q", rec.Time)
	}
	if rec.Hours != "2" {
		t.Errorf("时长应由时段差得出, 实际 %q", rec.Hours)
	}
	// 考场按行号对齐第一列
	if rec.Venue != "Hall B" {
		t.Errorf("考场错误: %q", rec.Venue)
	}
}

// 时段无法解析时时长退回 "2"
func TestExtractSchoolExams_BadTime(t *testing.T) {
	sheet := grid.Grid{Name: "S", Rows: [][]grid.Cell{
		trow(0, "ROOM", "TBA SLOT"),
		trow(1, "Hall A", "MAT 201"),
	}}

	records := extractSchoolExams(workbook(sheet))
	if len(records) != 1 {
		t.Fatalf("期望 1 条记录, 实际 %d", len(records))
	}
	if records[0].Hours != "2" {
		t.Errorf("兜底时长应为 2, 实际 %q", records[0].Hours)
	}
	if records[0].Time != "" {
		t.Errorf("未出现时段行时 Time 应为空, 实际 %q", records[0].Time)
	}
}
