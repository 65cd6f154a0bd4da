package normalize

import "testing"

func TestParseTimeRange_CommonFormats(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"8:00AM-10:00AM", "08:00-10:00"},
		{"8.30AM-11.30AM", "08:30-11:30"},
		{"0800-1000 HRS", "08:00-10:00"},
		{"0800 - 1000HRS", "08:00-10:00"},
		{"2.30 pm - 4.30pm", "14:30-16:30"},
		{"11:00AM-14.00", "11:00-14:00"},
		{"830-1130 AM", "08:30-11:30"},
		{"1:30PM-4:30PM", "13:30-16:30"},
		{"8AM-10AM", "08:00-10:00"},
		{"5pm-7pm", "17:00-19:00"},
		{"08:30:00-11:30:00", "08:30-11:30"},
	}

	for _, tc := range cases {
		tr := ParseTimeRange(tc.input)
		if !tr.Resolved {
			t.Errorf("%q 应当可解析", tc.input)
			continue
		}
		if got := tr.Format(); got != tc.want {
			t.Errorf("%q: 期望 %s, 实际 %s", tc.input, tc.want, got)
		}
	}
}

// 缺失侧继承另一侧的 AM/PM 标记，两个方向都成立
func TestParseTimeRange_AmPmInheritance(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"8:30-11:30AM", "08:30-11:30"},
		{"2-4 PM", "14:00-16:00"},
		{"2PM-4", "14:00-16:00"},
		{"12PM-1", "12:00-13:00"},
		{"12AM-1", "00:00-01:00"},
	}

	for _, tc := range cases {
		tr := ParseTimeRange(tc.input)
		if !tr.Resolved {
			t.Errorf("%q 应当可解析", tc.input)
			continue
		}
		if got := tr.Format(); got != tc.want {
			t.Errorf("%q: 期望 %s, 实际 %s", tc.input, tc.want, got)
		}
	}
}

// 小时取模、分钟进位
func TestParseTimeRange_Overflow(t *testing.T) {
	tr := ParseTimeRange("8:75-25:00")
	if !tr.Resolved {
		t.Fatal("溢出输入应当可解析")
	}
	if got := tr.Format(); got != "09:15-01:00" {
		t.Errorf("期望 09:15-01:00, 实际 %s", got)
	}
}

func TestParseTimeRange_Unresolved(t *testing.T) {
	for _, input := range []string{"", "TBA", "上午another", "8:30"} {
		tr := ParseTimeRange(input)
		if tr.Resolved {
			t.Errorf("%q 不应解析成功", input)
		}
		if tr.Raw != input {
			t.Errorf("%q: 未解析标记应保留原文, 实际 %q", input, tr.Raw)
		}
	}
}

// 规范输出重新解析得到同样的区间
func TestParseTimeRange_Roundtrip(t *testing.T) {
	inputs := []string{"8.30AM-11.30AM", "0800-1000 HRS", "5pm-7pm", "11:00AM-14.00"}
	for _, input := range inputs {
		first := ParseTimeRange(input)
		if !first.Resolved {
			t.Fatalf("%q 应当可解析", input)
		}
		second := ParseTimeRange(first.Format())
		if !second.Resolved || second.Format() != first.Format() {
			t.Errorf("%q: 重解析得到 %s, 期望 %s", input, second.Format(), first.Format())
		}
	}
}

func TestHours(t *testing.T) {
	cases := []struct {
		input    string
		fallback float64
		want     float64
	}{
		{"8.30AM-11.30AM", 2, 3},
		{"0800-1000 HRS", 2, 2},
		{"2.30 pm - 4.30pm", 2, 2},
		{"11:00PM-1:00AM", 2, 2},      // 跨零点环绕
		{"10:00AM-10:00AM", 2.5, 2.5}, // 零长度区间用兜底
		{"TBA", 1.5, 1.5},             // 未解析用兜底
	}

	for _, tc := range cases {
		if got := Hours(ParseTimeRange(tc.input), tc.fallback); got != tc.want {
			t.Errorf("%q: 期望 %v 小时, 实际 %v", tc.input, tc.want, got)
		}
	}
}
