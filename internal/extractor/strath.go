package extractor

import (
	"strconv"
	"strings"

	"github.com/opencrafts-io/professor/internal/grid"
)

// Strathmore 考试表版式：列位置固定（0 日期 / 2 时段 / 4 课程 /
// 6 班组 / 7 人数 / 8 考场 / 10 讲师），合并单元格向下粘连，
// 出现新班组或新考场时落一条记录。

// strath 列位
const (
	strathColDate     = 0
	strathColTime     = 2
	strathColCourse   = 4
	strathColGroup    = 6
	strathColNumber   = 7
	strathColVenue    = 8
	strathColLecturer = 10
)

func extractStrath(wb *grid.Workbook) []Record {
	sheet := wb.Sheet(0)
	if sheet == nil {
		return nil
	}

	var out []Record
	seen := make(map[string]bool)

	var curDate, curTime, curCourse, curGroup, curNumber, curVenue, curLecturer string

	for rowIdx, row := range sheet.Rows {
		if rowIdx < 3 {
			continue
		}

		at := func(col int) string {
			if col < len(row) {
				return row[col].Value()
			}
			return ""
		}

		dateVal := at(strathColDate)
		timeVal := at(strathColTime)
		courseVal := at(strathColCourse)
		groupVal := at(strathColGroup)
		venueVal := at(strathColVenue)
		lecturerVal := at(strathColLecturer)

		if dateVal != "" {
			curDate = strings.TrimRight(dateVal, ".")
		}
		if timeVal != "" {
			curTime = timeVal
		}
		if courseVal != "" {
			curCourse = courseVal
		}
		if groupVal != "" {
			curGroup = groupVal
		}
		// 人数列 0 也是有效值，用单元格种类判空
		if strathColNumber < len(row) && row[strathColNumber].Kind != grid.Empty {
			curNumber = at(strathColNumber)
		}
		if venueVal != "" {
			curVenue = venueVal
		}
		if lecturerVal != "" {
			curLecturer = lecturerVal
		}

		// 仅当本行带来新班组或新考场时落记录（处理一课多考场）
		if curCourse == "" || curGroup == "" || curVenue == "" {
			continue
		}
		if groupVal == "" && venueVal == "" {
			continue
		}

		code, name := splitStrathCourse(curCourse)
		formattedTime := formatStrathTime(curTime)

		key := dedupKey(code, formattedTime)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, Record{
			CourseCode:   code,
			CourseName:   name,
			Day:          curDate,
			Time:         formattedTime,
			Venue:        curVenue,
			Lecturer:     curLecturer,
			Group:        curGroup,
			StudentCount: curNumber,
			Program:      firstWord(curGroup),
		})
	}
	return out
}

// splitStrathCourse 拆 "CODE: 名称" 形态的课程单元格
func splitStrathCourse(s string) (code, name string) {
	parts := strings.SplitN(s, ":", 2)
	code = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		name = strings.TrimSpace(parts[1])
	}
	return code, name
}

// formatStrathTime 把 24 小时段 "8:00-10:00" 改写成 "8:00AM-10:00AM"；
// 无法识别的原样返回
func formatStrathTime(t string) string {
	if t == "" || !strings.Contains(t, "-") {
		return t
	}
	parts := strings.SplitN(t, "-", 2)
	return strathTo12Hour(strings.TrimSpace(parts[0])) + "-" + strathTo12Hour(strings.TrimSpace(parts[1]))
}

func strathTo12Hour(t string) string {
	upper := strings.ToUpper(t)
	if !strings.Contains(t, ":") || strings.Contains(upper, "AM") || strings.Contains(upper, "PM") {
		return t
	}
	parts := strings.SplitN(t, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return t
	}
	minute := parts[1]
	switch {
	case hour == 0:
		return "12:" + minute + "AM"
	case hour < 12:
		return strconv.Itoa(hour) + ":" + minute + "AM"
	case hour == 12:
		return "12:" + minute + "PM"
	default:
		return strconv.Itoa(hour-12) + ":" + minute + "PM"
	}
}
