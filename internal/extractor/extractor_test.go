package extractor

import (
	"testing"
	"time"

	"github.com/opencrafts-io/professor/internal/grid"
)

// ── 测试用网格构造 ──

func trow(r int, values ...string) []grid.Cell {
	cells := make([]grid.Cell, len(values))
	for c, v := range values {
		if v == "" {
			cells[c] = grid.Cell{Kind: grid.Empty, Row: r, Col: c}
		} else {
			cells[c] = grid.Cell{Kind: grid.Text, Text: v, Raw: v, Row: r, Col: c}
		}
	}
	return cells
}

func dateCell(r, c int, t time.Time, display string) grid.Cell {
	return grid.Cell{Kind: grid.Date, Date: t, Text: display, Raw: display, Row: r, Col: c}
}

func numCell(r, c int, n float64, display string) grid.Cell {
	return grid.Cell{Kind: grid.Number, Number: n, Text: display, Raw: display, Row: r, Col: c}
}

func workbook(sheets ...grid.Grid) *grid.Workbook {
	return &grid.Workbook{Sheets: sheets}
}

// ── 版式枚举 ──

func TestParseFormat(t *testing.T) {
	for _, name := range FormatNames() {
		f, err := ParseFormat(name)
		if err != nil {
			t.Errorf("%q 应可解析: %v", name, err)
			continue
		}
		if f.String() != name {
			t.Errorf("%q 往返不一致: %s", name, f.String())
		}
	}

	if _, err := ParseFormat("unknown"); err == nil {
		t.Error("未知版式应当报错")
	}
}

func TestFormat_IsExam(t *testing.T) {
	if FormatNursingClasses.IsExam() {
		t.Error("课程表版式不应是考试")
	}
	for _, f := range []Format{FormatSchoolExams, FormatNursingExams, FormatStrath, FormatKCA} {
		if !f.IsExam() {
			t.Errorf("%s 应是考试版式", f)
		}
	}
}

func TestLooksLikeCourseCode(t *testing.T) {
	valid := []string{"ACS 101", "ACS101A", "BIT 1204", "DCIT110", "NSG-210", "MAT 101AB"}
	for _, v := range valid {
		if !looksLikeCourseCode(v) {
			t.Errorf("%q 应判定为课程代码", v)
		}
	}

	invalid := []string{"DAYSTAR UNIVERSITY", "MONDAY", "8:30-10:30", "BACHELOR OF COMMERCE", ""}
	for _, v := range invalid {
		if looksLikeCourseCode(v) {
			t.Errorf("%q 不应判定为课程代码", v)
		}
	}
}

// Extract 分支覆盖全部版式且空工作簿不恐慌
func TestExtract_EmptyWorkbook(t *testing.T) {
	for _, f := range []Format{FormatSchoolExams, FormatNursingExams, FormatNursingClasses, FormatStrath, FormatKCA} {
		if recs := Extract(f, workbook()); len(recs) != 0 {
			t.Errorf("%s: 空工作簿应产出 0 条, 实际 %d", f, len(recs))
		}
	}
}

func TestRecord_Fields(t *testing.T) {
	rec := Record{
		CourseCode: "ACS 101",
		Time:       "8:30AM-11:30AM",
		Extra:      map[string]string{"school": "SoT", "remarks": ""},
	}
	fields := rec.Fields()
	if fields["course_code"] != "ACS 101" || fields["time"] != "8:30AM-11:30AM" {
		t.Errorf("字段展开缺失: %+v", fields)
	}
	if fields["school"] != "SoT" {
		t.Errorf("附加字段应并入: %+v", fields)
	}
	if _, ok := fields["venue"]; ok {
		t.Error("空字段不应出现")
	}
	if _, ok := fields["remarks"]; ok {
		t.Error("空附加字段不应出现")
	}
}
