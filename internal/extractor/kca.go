package extractor

import (
	"strconv"
	"strings"

	"github.com/opencrafts-io/professor/internal/grid"
	"github.com/opencrafts-io/professor/internal/normalize"
)

// KCA 考试表版式：表头行位置不固定，先按 "UNIT CODE" 探测，
// 再用别名表把同义表头折叠到统一键。课程代码为空的行是上一条
// 记录的续行（多考场 / 多监考 / 多专业），按键追加。

// kcaAliases 统一键 → 各年份表格里出现过的表头别名
var kcaAliases = []struct {
	key      string
	patterns []string
}{
	{"session", []string{"SESSION"}},
	{"date", []string{"DATE"}},
	{"time", []string{"TIME"}},
	{"venue", []string{"ROOM", "VENUE"}},
	{"unit_code", []string{"UNIT_CODE", "UNIT CODE"}},
	{"unit_name", []string{"UNIT_NAME", "UNIT NAME"}},
	{"principal_invigilator", []string{"PRINCIPAL_INVIGILATORS", "PRINCIPAL INVIGILATORS - MAIN", "PRINCIPAL INVIGILATORS (MAIN)", "INVIGILATOR OF THE SESSION"}},
	{"support_invigilator", []string{"SUPPORT_INVIGILATORS", "ADDITIONAL_INVIGILATORS_MAIN", "OTHER INVIGILATORS (MAIN)"}},
	{"student_count", []string{"COUNTER", "COUNT"}},
	{"program", []string{"PROGRAM_NAME", "PROG"}},
	{"mode_of_study", []string{"MODE_OF_STUDY"}},
	{"school", []string{"SCHOOL"}},
	{"department", []string{"DEPARTMENT", "DEPARMENT"}},
	{"trimester", []string{"TRIMESTER"}},
	{"campus", []string{"CAMPUS"}},
	{"session_leader", []string{"SESSION_LEADER"}},
	{"remarks", []string{"REMARKS"}},
}

// kcaAppendKeys 续行里允许追加的键
var kcaAppendKeys = map[string]bool{
	"program":               true,
	"venue":                 true,
	"principal_invigilator": true,
	"support_invigilator":   true,
}

func extractKCA(wb *grid.Workbook) []Record {
	sheet := wb.Sheet(0)
	if sheet == nil {
		return nil
	}

	headerIdx, headers := kcaFindHeader(sheet)
	if headers == nil {
		return nil
	}

	// 统一键 → 列号
	keyCols := make(map[string]int)
	for _, alias := range kcaAliases {
		for _, p := range alias.patterns {
			if col, ok := headers[kcaNormalizeHeader(p)]; ok {
				keyCols[alias.key] = col
				break
			}
		}
	}
	codeCol, ok := keyCols["unit_code"]
	if !ok {
		return nil
	}

	var entries []*kcaEntry
	var pending *kcaEntry

	for rowIdx := headerIdx + 1; rowIdx < len(sheet.Rows); rowIdx++ {
		row := sheet.Rows[rowIdx]
		unitCode := kcaCellValue(row, codeCol)

		if unitCode != "" {
			if pending != nil {
				entries = append(entries, pending)
			}
			pending = &kcaEntry{
				code:   unitCode,
				fields: make(map[string]string),
				lists:  make(map[string][]string),
			}
			for _, alias := range kcaAliases {
				col, ok := keyCols[alias.key]
				if !ok {
					continue
				}
				value := kcaCellValue(row, col)
				switch alias.key {
				case "date":
					value = kcaConvertDate(row, col)
				case "time":
					value = kcaFormatTime(value)
				}
				if kcaAppendKeys[alias.key] {
					if value != "" {
						pending.lists[alias.key] = append(pending.lists[alias.key], value)
					}
				} else {
					pending.fields[alias.key] = value
				}
			}
			// 公式没算出来的场次号按时段倒推
			if strings.HasPrefix(pending.fields["session"], "=IF") {
				pending.fields["session"] = kcaSessionFromTime(pending.fields["time"])
			}
		} else if pending != nil {
			for key := range kcaAppendKeys {
				col, ok := keyCols[key]
				if !ok {
					continue
				}
				if value := kcaCellValue(row, col); value != "" {
					pending.lists[key] = append(pending.lists[key], value)
				}
			}
		}
	}
	if pending != nil {
		entries = append(entries, pending)
	}

	var out []Record
	seen := make(map[string]bool)
	for _, e := range entries {
		if !looksLikeCourseCode(e.code) {
			continue
		}
		timeSlot := e.fields["time"]
		key := dedupKey(e.code, timeSlot)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, Record{
			CourseCode:   e.code,
			CourseName:   e.fields["unit_name"],
			Day:          e.fields["date"],
			Time:         timeSlot,
			Venue:        joinUnique(e.lists["venue"]),
			Invigilator:  joinUnique(e.lists["principal_invigilator"]),
			Campus:       e.fields["campus"],
			Program:      joinUnique(e.lists["program"]),
			StudentCount: e.fields["student_count"],
			Session:      e.fields["session"],
			Extra: map[string]string{
				"school":              e.fields["school"],
				"department":          e.fields["department"],
				"trimester":           e.fields["trimester"],
				"mode_of_study":       e.fields["mode_of_study"],
				"session_leader":      e.fields["session_leader"],
				"remarks":             e.fields["remarks"],
				"support_invigilator": joinUnique(e.lists["support_invigilator"]),
			},
		})
	}
	return out
}

type kcaEntry struct {
	code   string
	fields map[string]string
	lists  map[string][]string
}

// kcaFindHeader 探测表头行：任一单元格含 "UNIT CODE" 即命中，
// 返回行号和 归一化表头 → 列号 映射
func kcaFindHeader(sheet *grid.Grid) (int, map[string]int) {
	for rowIdx, row := range sheet.Rows {
		hit := false
		for _, cell := range row {
			if strings.Contains(strings.ToUpper(cell.Value()), "UNIT CODE") {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		headers := make(map[string]int)
		for col, cell := range row {
			if v := cell.Value(); v != "" {
				headers[kcaNormalizeHeader(v)] = col
			}
		}
		return rowIdx, headers
	}
	return 0, nil
}

func kcaNormalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(h)), " ", "_")
}

func kcaCellValue(row []grid.Cell, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col].Value()
}

// kcaConvertDate 日期列既有日期单元格也有序列数值，统一成 "2006-01-02"
func kcaConvertDate(row []grid.Cell, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	cell := row[col]
	switch cell.Kind {
	case grid.Date:
		return cell.Date.Format("2006-01-02")
	case grid.Number:
		return grid.SerialToDate(cell.Number).Format("2006-01-02")
	}
	return cell.Value()
}

// kcaFormatTime 把各式时段文本统一成 "8:00AM-10:00AM"；解析不动的原样返回
func kcaFormatTime(raw string) string {
	if raw == "" {
		return ""
	}
	tr := normalize.ParseTimeRange(raw)
	if !tr.Resolved {
		return strings.TrimSpace(raw)
	}
	return render12Hour(tr.Start) + "-" + render12Hour(tr.End)
}

func render12Hour(c normalize.Clock) string {
	hour := c.Hour
	ampm := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		ampm = "PM"
	case hour > 12:
		hour -= 12
		ampm = "PM"
	}
	return strconv.Itoa(hour) + ":" + twoDigits(c.Minute) + ampm
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// kcaSessionFromTime 标准时段 → 场次号
func kcaSessionFromTime(formatted string) string {
	switch formatted {
	case "8:00AM-10:00AM":
		return "1"
	case "11:00AM-1:00PM":
		return "2"
	case "2:00PM-4:00PM":
		return "3"
	case "5:00PM-7:00PM":
		return "4"
	}
	return ""
}

// joinUnique 去重后逗号拼接，保持首次出现顺序
func joinUnique(values []string) string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return strings.Join(out, ", ")
}
