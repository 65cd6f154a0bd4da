package extractor

import (
	"strings"

	"github.com/opencrafts-io/professor/internal/grid"
)

// 护理学院课程表版式：双工作表。第一张是课程登记
// （代码 / 名称 / 讲师），第二张是周课表网格，列号即时段。

// nursingSlots 课表网格列号对应的时段边界
var nursingSlots = map[int][2]string{
	2:  {"8AM", "9AM"},
	3:  {"9AM", "10AM"},
	4:  {"10AM", "11AM"},
	5:  {"11AM", "12PM"},
	6:  {"12PM", "1PM"},
	7:  {"1PM", "2PM"},
	8:  {"2PM", "3PM"},
	9:  {"3PM", "4PM"},
	10: {"4PM", "5PM"},
	11: {"5PM", "6PM"},
}

var nursingClassDays = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}

// 非课程的占位文本（礼拜、自学等）
var nursingClassNoise = []string{
	"CHAPEL", "CLP", "SDL", "KEY",
	"CLP-CLINICAL PRACTICE",
	"SDL- SELF DIRECTED LEARNING",
}

func extractNursingClasses(wb *grid.Workbook) []Record {
	registry := nursingCourseRegistry(wb.Sheet(0))

	sheet := wb.Sheet(1)
	if sheet == nil {
		return nil
	}

	var out []Record
	seen := make(map[string]bool)
	day := ""

	for rowIdx, row := range sheet.Rows {
		if rowIdx < 3 {
			continue
		}

		// 日期行：第 1 列是星期名，记下后整行跳过
		if len(row) > 1 && containsFold(nursingClassDays, row[1].Value()) {
			day = strings.ToUpper(row[1].Value())
			continue
		}

		venue := ""
		for idx, cell := range row {
			if idx == 1 {
				continue // cohort 列
			}
			value := cell.Value()
			if value == "" || isNoise(value, nursingClassNoise) {
				continue
			}
			if idx == 0 {
				venue = value
				continue
			}

			slot, ok := nursingSlots[idx]
			if !ok {
				continue
			}

			// 合并单元格占多个时段：结束时刻取下一个非空列的前界
			endIdx := idx + 1
			for rem := idx + 1; rem < len(row); rem++ {
				if !row[rem].IsEmpty() {
					endIdx = rem
					break
				}
			}
			end, ok := nursingSlots[endIdx]
			if !ok {
				end = slot
			}
			courseTime := slot[0] + "-" + end[1]

			courseName := strings.TrimSpace(value)
			codeKey := strings.TrimSpace(truncate(courseName, 7))
			code := strings.ReplaceAll(codeKey, " ", "")

			key := dedupKey(code, courseTime)
			if seen[key] {
				continue
			}
			seen[key] = true

			rec := Record{
				CourseCode: code,
				CourseName: courseName,
				Day:        day,
				Venue:      venue,
				Time:       courseTime,
			}
			if entry, ok := registry[codeKey]; ok {
				rec.Lecturer = entry[1]
			}
			out = append(out, rec)
		}
	}
	return out
}

// nursingCourseRegistry 读第一张工作表的课程登记：代码 → [名称, 讲师]
func nursingCourseRegistry(sheet *grid.Grid) map[string][2]string {
	registry := make(map[string][2]string)
	if sheet == nil {
		return registry
	}
	for _, row := range sheet.Rows {
		if len(row) < 2 {
			continue
		}
		code := row[1].Value()
		if code == "" || code == "CODE" {
			continue
		}
		var name, lecturer string
		if len(row) > 2 {
			name = row[2].Value()
		}
		if len(row) > 3 {
			lecturer = row[3].Value()
		}
		registry[code] = [2]string{name, lecturer}
	}
	return registry
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
