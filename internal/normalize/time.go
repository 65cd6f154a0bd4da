package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ── 时间区间归一化 ──────────────────────────────────────────
//
// 各机构时间表中的时间区间是人手录入的自由文本：
// "8:00AM-10:00AM"、"0800-1000 HRS"、"2.30 pm - 4.30pm"、"11:00AM-14.00"
//
// 设计决策：
//   - 永不返回错误：解析失败得到 Unresolved 标记 + 原文，
//     由调用方决定如何降级（留空、用兜底时长等）
//   - 一侧带 AM/PM 另一侧缺失时，缺失侧继承已有标记
//   - 纯数字串按 HHMM / HMM 解读；小时 ≥24 按 24 取模，
//     分钟 ≥60 进位到小时
//   - 不强制 start < end：源数据偶见跨午标注错误，
//     由 Hours 做环绕修正，解析层保持原样
// ─────────────────────────────────────────────────────────────

var (
	reUnitMarker = regexp.MustCompile(`\b(HRS|HR)\b`)
	reHyphenPad  = regexp.MustCompile(`\s*-\s*`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reAmPm       = regexp.MustCompile(`([AP]M)`)
)

// Clock 时刻（时分）
type Clock struct {
	Hour   int
	Minute int
}

// String 渲染为 HH:MM
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes 距零点的分钟数
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// TimeRange 解析后的时间区间；Resolved 为 false 时仅 Raw 有效
type TimeRange struct {
	Start    Clock
	End      Clock
	Resolved bool
	Raw      string
}

// Format 渲染为规范文本 HH:MM-HH:MM；对规范输出重新解析结果不变
func (tr TimeRange) Format() string {
	if !tr.Resolved {
		return tr.Raw
	}
	return tr.Start.String() + "-" + tr.End.String()
}

// Unresolved 构造未解析标记
func unresolvedRange(raw string) TimeRange {
	return TimeRange{Resolved: false, Raw: raw}
}

// ParseTimeRange 解析自由文本时间区间
// 剥离单位标记（HRS/HR），归一分隔符，按第一个连字符切分后两侧独立解析
func ParseTimeRange(text string) TimeRange {
	raw := text
	clean := strings.ToUpper(strings.TrimSpace(text))
	clean = reUnitMarker.ReplaceAllString(clean, "")
	clean = reHyphenPad.ReplaceAllString(clean, "-")
	clean = reSpaces.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)

	if !strings.Contains(clean, "-") {
		return unresolvedRange(raw)
	}

	parts := strings.SplitN(clean, "-", 2)
	startStr := strings.TrimSpace(parts[0])
	endStr := strings.TrimSpace(parts[1])

	// 摘取两侧各自的 AM/PM 标记；缺失侧继承已有的一侧
	startAmPm := extractAmPm(&startStr)
	endAmPm := extractAmPm(&endStr)
	if startAmPm == "" {
		startAmPm = endAmPm
	}
	if endAmPm == "" {
		endAmPm = startAmPm
	}

	start, okStart := parseClock(startStr, startAmPm)
	end, okEnd := parseClock(endStr, endAmPm)
	if !okStart || !okEnd {
		return unresolvedRange(raw)
	}

	return TimeRange{Start: start, End: end, Resolved: true, Raw: raw}
}

// extractAmPm 摘出并剥离侧文本中的 AM/PM 标记
func extractAmPm(side *string) string {
	m := reAmPm.FindString(*side)
	if m == "" {
		return ""
	}
	*side = strings.TrimSpace(reAmPm.ReplaceAllString(*side, ""))
	return m
}

// parseClock 解析单侧时刻文本
// 支持 "8"、"8:30"、"8.30"、"0800"、"830" 等记法
func parseClock(s, ampm string) (Clock, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ".", ":"))
	if s == "" {
		return Clock{}, false
	}

	var hour, minute int
	switch {
	case strings.Contains(s, ":"):
		parts := strings.SplitN(s, ":", 2)
		h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return Clock{}, false
		}
		hour = h
		if rest := strings.TrimSpace(parts[1]); rest != "" {
			// 分钟段可能还挂着秒（"08:30:00"），只取前两位数字
			digits := leadingDigits(rest)
			if digits == "" {
				return Clock{}, false
			}
			if len(digits) > 2 {
				digits = digits[:2]
			}
			m, err := strconv.Atoi(digits)
			if err != nil {
				return Clock{}, false
			}
			minute = m
		}
	case len(s) == 4 && isDigits(s):
		hour, _ = strconv.Atoi(s[:2])
		minute, _ = strconv.Atoi(s[2:])
	case len(s) == 3 && isDigits(s):
		hour, _ = strconv.Atoi(s[:1])
		minute, _ = strconv.Atoi(s[1:])
	default:
		h, err := strconv.Atoi(s)
		if err != nil {
			return Clock{}, false
		}
		hour = h
	}

	switch ampm {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}

	// 溢出修正：小时取模，分钟进位
	if minute >= 60 {
		hour += minute / 60
		minute = minute % 60
	}
	if hour >= 24 {
		hour = hour % 24
	}
	if hour < 0 || minute < 0 {
		return Clock{}, false
	}

	return Clock{Hour: hour, Minute: minute}, true
}

// Hours 计算区间时长（小时）
// end <= start 时按跨零点环绕修正；未解析时返回兜底值
func Hours(tr TimeRange, fallback float64) float64 {
	if !tr.Resolved {
		return fallback
	}
	diff := tr.End.Minutes() - tr.Start.Minutes()
	if diff == 0 {
		return fallback
	}
	if diff < 0 {
		diff += 24 * 60
	}
	return float64(diff) / 60.0
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func leadingDigits(s string) string {
	for i, r := range s {
		if r < '0' || r > '9' {
			return s[:i]
		}
	}
	return s
}
