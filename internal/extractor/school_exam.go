package extractor

import (
	"strconv"
	"strings"

	"github.com/opencrafts-io/professor/internal/grid"
	"github.com/opencrafts-io/professor/internal/normalize"
)

// Daystar 考试表版式：每张工作表第一列是考场，其余列自上而下
// 依次出现 日期 → 时段 → 课程代码，状态沿列传递。

var schoolExamDays = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY"}

func extractSchoolExams(wb *grid.Workbook) []Record {
	var out []Record

	for s := range wb.Sheets {
		sheet := &wb.Sheets[s]

		// 考场列：行号 → 考场名
		rooms := make(map[int]string)
		for i, cell := range sheet.Column(0) {
			v := cell.Value()
			if v == "" || v == "ROOM" {
				continue
			}
			rooms[i] = v
		}

		seen := make(map[string]bool)
		width := sheet.Width()
		for j := 1; j < width; j++ {
			day := ""
			courseTime := ""
			hours := "2"

			for idx, cell := range sheet.Column(j) {
				if cell.IsEmpty() {
					continue
				}
				value := cell.Value()

				switch {
				case cell.Kind == grid.Date:
					day = strings.ToUpper(cell.Date.Weekday().String()) + " " + cell.Date.Format("2006/01/02")
				case cell.Kind == grid.Text && containsFold(schoolExamDays, firstWord(value)):
					day = value
				case cell.Kind == grid.Text && startsWithDigit(value):
					courseTime = strings.TrimSpace(value)
					tr := normalize.ParseTimeRange(courseTime)
					hours = strconv.Itoa(int(normalize.Hours(tr, 2)))
				case cell.Kind == grid.Text:
					if !looksLikeCourseCode(value) {
						continue
					}
					key := dedupKey(value, courseTime)
					if seen[key] {
						continue
					}
					seen[key] = true
					out = append(out, Record{
						CourseCode: value,
						Day:        day,
						Time:       courseTime,
						Venue:      rooms[idx],
						Hours:      hours,
					})
				}
			}
		}
	}
	return out
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func startsWithDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}
