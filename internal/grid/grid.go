package grid

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ── 表格网格读取器 ──────────────────────────────────────────
//
// 职责：把上传的表格文件展开为二维单元格网格，供各机构抽取器消费。
//
// 设计决策：
//   - 每个单元格同时保留原始值与显示值：日期/数字列的语义归类
//     依赖两者差异（数字序列值 + 日期格式化显示 → 日期单元格）
//   - 合并单元格的视觉值通过 ForwardFill 重建：沿行/列扫描，
//     空格继承最近一个非空值
//   - 容器本身不可解析（损坏、未知二进制签名）返回 ErrFormat；
//     内容层面的噪声不是错误，由抽取器自行跳过
// ─────────────────────────────────────────────────────────────

// ErrFormat 容器不可解析（损坏文件、未知格式）
var ErrFormat = errors.New("表格文件格式不可解析")

// Kind 单元格值的变体类型
type Kind int

const (
	// Empty 空单元格
	Empty Kind = iota
	// Text 文本
	Text
	// Number 数值
	Number
	// Date 日期（Excel 序列值 + 日期格式化显示）
	Date
	// Bool 布尔
	Bool
)

// excelEpoch Excel 序列日期纪元（1900 日期系统，含闰年 bug 修正）
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Cell 单个单元格：变体值 + 网格内坐标
type Cell struct {
	Kind   Kind
	Text   string  // 显示值（格式化后）
	Raw    string  // 原始存储值
	Number float64 // Kind 为 Number/Date 时有效
	Date   time.Time
	Row    int
	Col    int
}

// IsEmpty 判断是否为空单元格（含纯空白文本）
func (c Cell) IsEmpty() bool {
	return c.Kind == Empty || strings.TrimSpace(c.Text) == ""
}

// Value 返回去除首尾空白的显示值
func (c Cell) Value() string {
	return strings.TrimSpace(c.Text)
}

// Grid 一个工作表的二维单元格网格
type Grid struct {
	Name string
	Rows [][]Cell
}

// Workbook 一个工作簿的有序工作表集合
type Workbook struct {
	Sheets []Grid
}

// Sheet 按序号取工作表；越界返回 nil
func (w *Workbook) Sheet(i int) *Grid {
	if i < 0 || i >= len(w.Sheets) {
		return nil
	}
	return &w.Sheets[i]
}

// Row 返回第 i 行；越界返回 nil
func (g *Grid) Row(i int) []Cell {
	if i < 0 || i >= len(g.Rows) {
		return nil
	}
	return g.Rows[i]
}

// Column 返回第 j 列（按最大行宽补齐空单元格）
func (g *Grid) Column(j int) []Cell {
	col := make([]Cell, len(g.Rows))
	for i, row := range g.Rows {
		if j < len(row) {
			col[i] = row[j]
		} else {
			col[i] = Cell{Kind: Empty, Row: i, Col: j}
		}
	}
	return col
}

// Width 网格最大行宽
func (g *Grid) Width() int {
	width := 0
	for _, row := range g.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// ForwardFill 合并单元格重建：每个位置取该行/列中最近一个非空值，
// 之前无非空值则保持空。[A, "", "", B, ""] → [A, A, A, B, B]
func ForwardFill(line []Cell) []Cell {
	filled := make([]Cell, len(line))
	var last Cell
	hasLast := false
	for i, c := range line {
		if !c.IsEmpty() {
			last = c
			hasLast = true
		}
		if hasLast {
			filled[i] = last
			filled[i].Row = c.Row
			filled[i].Col = c.Col
		} else {
			filled[i] = c
		}
	}
	return filled
}

// Read 打开表格文件并展开为 Workbook
// 仅容器级失败返回错误（包装 ErrFormat）
func Read(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		g, err := readSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("%w: 读取工作表 %s 失败: %v", ErrFormat, name, err)
		}
		wb.Sheets = append(wb.Sheets, *g)
	}
	return wb, nil
}

// readSheet 读取单个工作表，原始值与格式化值各取一遍以归类变体
func readSheet(f *excelize.File, name string) (*Grid, error) {
	rawRows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	fmtRows, err := f.GetRows(name)
	if err != nil {
		return nil, err
	}

	g := &Grid{Name: name}
	for i, rawRow := range rawRows {
		var fmtRow []string
		if i < len(fmtRows) {
			fmtRow = fmtRows[i]
		}
		cells := make([]Cell, len(rawRow))
		for j, raw := range rawRow {
			display := raw
			if j < len(fmtRow) {
				display = fmtRow[j]
			}
			cells[j] = classify(raw, display, i, j)
		}
		g.Rows = append(g.Rows, cells)
	}
	return g, nil
}

// classify 根据原始值与显示值归类单元格变体
func classify(raw, display string, row, col int) Cell {
	c := Cell{Text: display, Raw: raw, Row: row, Col: col}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		c.Kind = Empty
		return c
	}

	switch trimmed {
	case "TRUE", "FALSE":
		c.Kind = Bool
		return c
	}

	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		c.Number = n
		// 原始值是数字但显示值被格式化为日期样式 → 日期单元格
		if display != raw && looksLikeDateDisplay(display) {
			c.Kind = Date
			c.Date = SerialToDate(n)
			return c
		}
		c.Kind = Number
		return c
	}

	c.Kind = Text
	return c
}

// SerialToDate 将 Excel 序列日期值换算为日历日期
func SerialToDate(serial float64) time.Time {
	return excelEpoch.AddDate(0, 0, int(serial))
}

// looksLikeDateDisplay 日期格式化显示的粗判：含分隔符或月份缩写
func looksLikeDateDisplay(s string) bool {
	if strings.ContainsAny(s, "/-") {
		return true
	}
	upper := strings.ToUpper(s)
	for _, m := range []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"} {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}
