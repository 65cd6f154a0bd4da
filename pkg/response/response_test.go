package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pageEnvelope struct {
	Code int `json:"code"`
	Data struct {
		List       []string   `json:"list"`
		Pagination Pagination `json:"pagination"`
	} `json:"data"`
}

func renderPage(t *testing.T, total int64, page, pageSize int) (*httptest.ResponseRecorder, pageEnvelope) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OKPage(c, []string{}, total, page, pageSize)

	var env pageEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	return w, env
}

func TestOKPageTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		pageSize   int
		totalPages int
	}{
		{"整除", 40, 20, 2},
		{"有余数进一页", 41, 20, 3},
		{"空结果", 0, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, env := renderPage(t, tt.total, 1, tt.pageSize)
			if env.Data.Pagination.TotalPages != tt.totalPages {
				t.Errorf("total_pages = %d, 期望 %d", env.Data.Pagination.TotalPages, tt.totalPages)
			}
		})
	}
}

func TestOKPageClampsBadPagination(t *testing.T) {
	// page_size=0 曾触发除零 panic，这里必须正常渲染
	w, env := renderPage(t, 10, 0, 0)

	if w.Code != http.StatusOK {
		t.Errorf("状态码 = %d, 期望 200", w.Code)
	}
	if env.Data.Pagination.PageSize < 1 {
		t.Errorf("page_size = %d, 期望钳制到 >= 1", env.Data.Pagination.PageSize)
	}
	if env.Data.Pagination.Page < 1 {
		t.Errorf("page = %d, 期望钳制到 >= 1", env.Data.Pagination.Page)
	}
	if env.Data.Pagination.TotalPages < 1 {
		t.Errorf("total_pages = %d, 期望 >= 1", env.Data.Pagination.TotalPages)
	}
}
