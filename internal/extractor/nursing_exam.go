package extractor

import (
	"strings"

	"github.com/opencrafts-io/professor/internal/grid"
)

// 护理学院考试表版式：固定 11 列表头，上午/下午各占一组列，
// 合并单元格沿列方向粘连（同一天的多行共享 Day/Campus 等）。

var nursingExamHeaders = []string{
	"Day", "Campus", "Coordinator", "Courses", "Hours",
	"Venue", "Invigilators", "Courses_Afternoon",
	"Hours_Afternoon", "Invigilators_Afternoon", "Venue_Afternoon",
}

// 课程列里混入的时段标题文本，视为噪声
var nursingMorningNoise = []string{"8.30AM-11.30AM", "8.30-11.30 AM"}
var nursingAfternoonNoise = []string{"1.30PM-4.30PM", "1.30-4.30PM"}

func extractNursingExams(wb *grid.Workbook) []Record {
	sheet := wb.Sheet(0)
	if sheet == nil {
		return nil
	}

	// 按表头名收集前向填充后的列
	columns := make(map[string][]grid.Cell)
	width := sheet.Width()
	for j := 0; j < width && j < len(nursingExamHeaders); j++ {
		col := grid.ForwardFill(sheet.Column(j))
		columns[nursingExamHeaders[j]] = col
	}

	dayCol := columns["Day"]
	if len(dayCol) == 0 {
		return nil
	}

	cellAt := func(header string, i int) string {
		col := columns[header]
		if i < len(col) {
			return col[i].Value()
		}
		return ""
	}

	half := func(courseHeader, suffix, timeSlot string, noise []string) []Record {
		var out []Record
		seen := make(map[string]bool)
		for i := range dayCol {
			code := cellAt(courseHeader, i)
			if code == "" || isNoise(code, noise) {
				continue
			}
			key := dedupKey(code, timeSlot)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Record{
				CourseCode:  strings.TrimSpace(code),
				Coordinator: cellAt("Coordinator", i),
				Time:        timeSlot,
				Day:         cellAt("Day", i),
				Campus:      cellAt("Campus", i),
				Hours:       cellAt("Hours"+suffix, i),
				Venue:       cellAt("Venue"+suffix, i),
				Invigilator: cellAt("Invigilators"+suffix, i),
			})
		}
		return out
	}

	morning := half("Courses", "", "8:30AM-11:30AM", nursingMorningNoise)
	afternoon := half("Courses_Afternoon", "_Afternoon", "1:30PM-4:30PM", nursingAfternoonNoise)
	return append(morning, afternoon...)
}

func isNoise(value string, noise []string) bool {
	v := strings.TrimSpace(value)
	for _, n := range noise {
		if v == n {
			return true
		}
	}
	return false
}
