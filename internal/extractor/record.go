package extractor

// Record 抽取器的统一产物：一门课程在一个时段的原始排程信息。
// 字段全部保留表格原文，规范化（时间、日期、字段折叠）在下游完成。
type Record struct {
	CourseCode   string
	CourseName   string
	Day          string // 原文：可能是星期名、日期文本或两者拼接
	Time         string // 原文时段，如 "8.30AM-11.30AM"
	Venue        string
	Campus       string
	Coordinator  string
	Lecturer     string
	Invigilator  string
	Hours        string
	Program      string
	Group        string
	StudentCount string
	Session      string

	// Extra 版式特有的附加列（KCA 的 school/trimester 等），
	// 原样进入 raw_data
	Extra map[string]string
}

// Fields 展开为原始数据字典，空字段省略
func (r Record) Fields() map[string]interface{} {
	m := make(map[string]interface{})
	put := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	put("course_code", r.CourseCode)
	put("course_name", r.CourseName)
	put("day", r.Day)
	put("time", r.Time)
	put("venue", r.Venue)
	put("campus", r.Campus)
	put("coordinator", r.Coordinator)
	put("lecturer", r.Lecturer)
	put("invigilator", r.Invigilator)
	put("hours", r.Hours)
	put("program", r.Program)
	put("group", r.Group)
	put("student_count", r.StudentCount)
	put("session", r.Session)
	for k, v := range r.Extra {
		put(k, v)
	}
	return m
}
