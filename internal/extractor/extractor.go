package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/opencrafts-io/professor/internal/grid"
)

// ── 机构抽取器调度 ──────────────────────────────────────────
//
// 每种机构版式一个抽取器，彼此独立、无共享状态。版式集合是
// 封闭枚举：新增机构 = 新增一个枚举值 + 一个实现文件 + 调度分支，
// 编译器保证分支穷尽，不存在字符串散布的动态分派。
//
// 失败策略：无法归类的行直接跳过，不算错误——表格噪声是常态。
// 抽取器永远返回（可能不完整的）记录列表，绝不中途放弃整个文件。
// ─────────────────────────────────────────────────────────────

// Format 机构版式枚举
type Format int

const (
	// FormatSchoolExams Daystar 多表考试时间表（房间列 × 日期/时段格）
	FormatSchoolExams Format = iota
	// FormatNursingExams 护理学院考试表（固定表头、上下午双栏）
	FormatNursingExams
	// FormatNursingClasses 护理学院课程表（双工作表：课程登记 + 周课表格）
	FormatNursingClasses
	// FormatStrath Strathmore 考试表（定位列 + 合并单元格粘连）
	FormatStrath
	// FormatKCA KCA 考试表（表头行探测 + 别名表头映射）
	FormatKCA
)

var formatNames = map[Format]string{
	FormatSchoolExams:    "school_exams",
	FormatNursingExams:   "nursing_exams",
	FormatNursingClasses: "nursing_classes",
	FormatStrath:         "strath",
	FormatKCA:            "kca",
}

// String 版式的传输层标识
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// IsExam 是否为一次性考试版式（课程表版式产出周期性记录）
func (f Format) IsExam() bool {
	return f != FormatNursingClasses
}

// ParseFormat 解析传输层版式标识
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("未知的时间表版式: %q", s)
}

// FormatNames 全部合法的版式标识（错误提示用）
func FormatNames() []string {
	return []string{"school_exams", "nursing_exams", "nursing_classes", "strath", "kca"}
}

// Extract 按版式调度抽取；分支穷尽覆盖全部枚举值
func Extract(f Format, wb *grid.Workbook) []Record {
	switch f {
	case FormatSchoolExams:
		return extractSchoolExams(wb)
	case FormatNursingExams:
		return extractNursingExams(wb)
	case FormatNursingClasses:
		return extractNursingClasses(wb)
	case FormatStrath:
		return extractStrath(wb)
	case FormatKCA:
		return extractKCA(wb)
	default:
		return nil
	}
}

// ── 共享噪声过滤 ──

// reCourseCode 课程代码的宽松结构：字母开头，中间可有空白，随后数字，
// 可挂单字母分组后缀（"ACS 101A"、"DCIT110"）
var reCourseCode = regexp.MustCompile(`^[A-Za-z]{2,6}[ \t]*[-/]?[ \t]*\d{2,4}[A-Za-z]{0,2}$`)

// looksLikeCourseCode 轻量结构校验：字母后跟数字的课程代码形态
func looksLikeCourseCode(s string) bool {
	return reCourseCode.MatchString(strings.TrimSpace(s))
}

// dedupKey 运行内去重键：同一 (course_code, 时段) 只记一次
func dedupKey(code, timeSlot string) string {
	return strings.ToUpper(strings.TrimSpace(code)) + "|" + strings.TrimSpace(timeSlot)
}
