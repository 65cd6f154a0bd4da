package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ── 日期归一化 ──────────────────────────────────────────────
//
// 支持四类输入：
//   1. 序数词 + 月名 + 年："6th December 2025"（可带星期前缀）
//   2. 类 ISO 数字："2025-12-01"（可带 " 00:00:00" 尾巴）
//   3. 斜杠日/月/年："06/12/25"、"SAT 6/12/2025"
//   4. 表格序列日期值（Excel 1900 纪元偏移）
//
// 星期几一律由解析出的日历日期派生，绝不从自由文本抄录，
// 避免各地缩写/大小写不一致造成错配。
// ─────────────────────────────────────────────────────────────

// excelEpoch Excel 序列日期纪元（1900 日期系统，含闰年 bug 修正）
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var (
	reOrdinalDate = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]+)\s+(\d{4})`)
	reISODate     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	reDayPrefix   = regexp.MustCompile(`(?i)^[a-z]{3,9}[,.]?\s*(\d{1,2}/\d{1,2}/\d{2,4})`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// ResolvedDate 解析后的日历日期；Resolved 为 false 时仅 Raw 有效
type ResolvedDate struct {
	Date      time.Time
	DayOfWeek string // "Monday" … "Sunday"，由 Date 派生
	Resolved  bool
	Raw       string
}

func resolvedDate(t time.Time, raw string) ResolvedDate {
	return ResolvedDate{
		Date:      t,
		DayOfWeek: t.Weekday().String(),
		Resolved:  true,
		Raw:       raw,
	}
}

func unresolvedDate(raw string) ResolvedDate {
	return ResolvedDate{Resolved: false, Raw: raw}
}

// FromTime 将已知日历日期包装为 ResolvedDate（网格中的日期单元格直达）
func FromTime(t time.Time, raw string) ResolvedDate {
	return resolvedDate(t, raw)
}

// ParseDate 解析自由文本日期；四类语法全部失配时返回 Unresolved
func ParseDate(text string) ResolvedDate {
	raw := text
	s := strings.TrimSpace(text)
	if s == "" {
		return unresolvedDate(raw)
	}

	// 1. 序数词 + 月名 + 年
	if m := reOrdinalDate.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if month, ok := monthsByName[strings.ToLower(m[2])]; ok {
			if t, ok := buildDate(year, month, day); ok {
				return resolvedDate(t, raw)
			}
		}
		return unresolvedDate(raw)
	}

	// 2. 类 ISO（去掉时间尾巴）
	if reISODate.MatchString(s) {
		datePart := strings.Fields(s)[0]
		if t, err := time.Parse("2006-01-02", datePart); err == nil {
			return resolvedDate(t, raw)
		}
		return unresolvedDate(raw)
	}

	// 3. 斜杠日/月/年（可带星期前缀，取最后一个含 "/" 的片段）
	if strings.Contains(s, "/") {
		datePart := s
		if m := reDayPrefix.FindStringSubmatch(s); m != nil {
			datePart = m[1]
		} else if fields := strings.Fields(s); len(fields) > 1 {
			for i := len(fields) - 1; i >= 0; i-- {
				if strings.Contains(fields[i], "/") {
					datePart = fields[i]
					break
				}
			}
		}
		for _, layout := range []string{"2006/01/02", "2/1/06", "2/1/2006", "02/01/06", "02/01/2006"} {
			if t, err := time.Parse(layout, datePart); err == nil {
				return resolvedDate(t, raw)
			}
		}
		return unresolvedDate(raw)
	}

	// 4. 表格序列日期值
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if t, ok := serialDate(n); ok {
			return resolvedDate(t, raw)
		}
		return unresolvedDate(raw)
	}

	return unresolvedDate(raw)
}

// serialDate 序列值换算为日历日期；超出可信区间视为非日期数字
func serialDate(n float64) (time.Time, bool) {
	serial := int(n)
	// 1904 以前 / 2199 以后的序列值按普通数字处理
	if serial < 1500 || serial > 109500 {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, serial), true
}

// buildDate 构造日期并校验日月组合合法（2 月 30 日之类返回 false）
func buildDate(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// WeekdayFromText 在自由文本中探测星期词（仅用于无日历日期可派生的降级场景）
func WeekdayFromText(s string) (string, bool) {
	lower := strings.ToLower(s)
	for _, d := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		if strings.Contains(lower, d) {
			return strings.ToUpper(d[:1]) + d[1:], true
		}
	}
	return "", false
}
