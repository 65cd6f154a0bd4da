package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opencrafts-io/professor/internal/dto"
	"github.com/opencrafts-io/professor/internal/service"
	"github.com/opencrafts-io/professor/pkg/response"
)

// IngestHandler 摄入模块 Handler
type IngestHandler struct {
	svc service.IngestService
}

// NewIngestHandler 创建 IngestHandler 实例
func NewIngestHandler(svc service.IngestService) *IngestHandler {
	return &IngestHandler{svc: svc}
}

// Parse 解析表格文件（只解析不落库）
// POST /api/v1/timetable/parse
//
// multipart/form-data: file + format
func (h *IngestHandler) Parse(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 20000, "请上传时间表文件（field=file）")
		return
	}
	defer file.Close()

	format := c.PostForm("format")
	if format == "" {
		response.BadRequest(c, 20001, "缺少 format 参数")
		return
	}

	resp, err := h.svc.Parse(c.Request.Context(), file, format)
	if err != nil {
		handleIngestError(c, err)
		return
	}
	response.OK(c, resp)
}

// Ingest 摄入时间表
// POST /api/v1/timetable/ingest
//
// 支持两种方式：
//   - 文件上传: multipart/form-data, file + format + 可选 institution_id / semester_id
//   - 结构化批量: application/json, IngestBatchRequest
func (h *IngestHandler) Ingest(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()

		format := c.PostForm("format")
		if format == "" {
			response.BadRequest(c, 20001, "缺少 format 参数")
			return
		}

		semesterID, ok := optionalSemesterID(c.PostForm("semester_id"))
		if !ok {
			response.BadRequest(c, 20002, "semester_id 必须是正整数")
			return
		}

		resp, err := h.svc.ParseAndUpsert(c.Request.Context(), file, format, c.PostForm("institution_id"), semesterID)
		if err != nil {
			handleIngestError(c, err)
			return
		}
		response.OK(c, resp)
		return
	}

	var req dto.IngestBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 20003, "请求参数错误", err.Error())
		return
	}

	resp, err := h.svc.IngestBatch(c.Request.Context(), &req)
	if err != nil {
		handleIngestError(c, err)
		return
	}
	response.OK(c, resp)
}

// optionalSemesterID 解析可选的学期参数；空串视为未提供
func optionalSemesterID(raw string) (*int64, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil, false
	}
	return &id, true
}

// handleIngestError 摄入模块错误码映射
func handleIngestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIngestUnknownFormat):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20004, "未知的时间表版式", err.Error())
	case errors.Is(err, service.ErrIngestFileUnreadable):
		response.ErrorWithDetails(c, http.StatusInternalServerError, 20005, "表格文件解析失败", err.Error())
	case errors.Is(err, service.ErrIngestInvalidEntry):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20006, "摄入条目校验失败", err.Error())
	case errors.Is(err, service.ErrIngestPersistFailed):
		response.ErrorWithDetails(c, http.StatusInternalServerError, 20007, "时间表写入失败", err.Error())
	default:
		response.InternalError(c)
	}
}
