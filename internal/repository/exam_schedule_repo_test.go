package repository

import (
	"regexp"
	"testing"
)

// 以 Go 正则 + (?i) 近似 PostgreSQL 的 ~* 语义验证模式构造
func mustMatch(t *testing.T, pattern, stored string) {
	t.Helper()
	re := regexp.MustCompile("(?i)" + pattern)
	if !re.MatchString(stored) {
		t.Errorf("模式 %q 应匹配 %q", pattern, stored)
	}
}

func mustNotMatch(t *testing.T, pattern, stored string) {
	t.Helper()
	re := regexp.MustCompile("(?i)" + pattern)
	if re.MatchString(stored) {
		t.Errorf("模式 %q 不应匹配 %q", pattern, stored)
	}
}

func TestBuildCodePattern(t *testing.T) {
	// 空白差异互查
	p := BuildCodePattern("ACS101")
	mustMatch(t, p, "ACS 101")
	mustMatch(t, p, "acs101")
	mustMatch(t, p, "A C S 1 0 1")

	// 查询侧空白被压缩
	p = BuildCodePattern("  ACS  101 ")
	mustMatch(t, p, "ACS101")

	// 查询带分组后缀：后缀剥掉后命中所有分组
	p = BuildCodePattern("ACS101A")
	mustMatch(t, p, "ACS 101")
	mustMatch(t, p, "ACS 101B")
	mustMatch(t, p, "acs101a")

	// 存储侧带分组后缀也能被无后缀查询命中
	p = BuildCodePattern("BIT 1204")
	mustMatch(t, p, "BIT1204A")
	mustMatch(t, p, "BIT 1204")

	// 不同课程不互相污染
	p = BuildCodePattern("ACS101")
	mustNotMatch(t, p, "ACS 1011")
	mustNotMatch(t, p, "ACS 102")
	mustNotMatch(t, p, "XACS 101")

	// 多字母后缀不按分组剥离
	p = BuildCodePattern("MAT 101AB")
	mustMatch(t, p, "MAT 101AB")
	mustNotMatch(t, p, "MAT 101")
}

func TestBuildCodePatternEscapes(t *testing.T) {
	// 特殊字符按字面处理
	p := BuildCodePattern("NSG-210")
	mustMatch(t, p, "NSG-210")
	mustMatch(t, p, "NSG - 210")
	mustNotMatch(t, p, "NSGX210")

	if BuildCodePattern("   ") != "" {
		t.Error("纯空白查询应产出空模式")
	}
}

func TestBuildCodePatternSuffixHeuristic(t *testing.T) {
	tests := []struct {
		code    string
		trimmed bool
	}{
		{"ACS101A", true},
		{"ACS101", false},
		{"ACS101AB", false}, // 双尾字母视为代码本体
		{"101A", false},     // 无字母前缀不剥
	}
	for _, tt := range tests {
		got := reCodeWithGroupSuffix.MatchString(tt.code)
		if got != tt.trimmed {
			t.Errorf("后缀判定 %q = %v, 期望 %v", tt.code, got, tt.trimmed)
		}
	}
}
