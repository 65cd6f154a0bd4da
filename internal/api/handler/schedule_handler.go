package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencrafts-io/professor/internal/dto"
	"github.com/opencrafts-io/professor/internal/service"
	"github.com/opencrafts-io/professor/pkg/response"
)

// ScheduleHandler 查询模块 Handler
type ScheduleHandler struct {
	svc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler 实例
func NewScheduleHandler(svc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// ByCodes 按课程代码集合查询
// POST /api/v1/timetable/by-codes
func (h *ScheduleHandler) ByCodes(c *gin.Context) {
	var req dto.ByCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 21000, "请求参数错误", err.Error())
		return
	}

	schedules, err := h.svc.ByCodes(c.Request.Context(), &req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, gin.H{"count": len(schedules), "schedules": schedules})
}

// ByInstitution 按机构查询
// GET /api/v1/timetable/by-institution?institution_id=&semester_id=
func (h *ScheduleHandler) ByInstitution(c *gin.Context) {
	semesterID, ok := optionalSemesterID(c.Query("semester_id"))
	if !ok {
		response.BadRequest(c, 21001, "semester_id 必须是正整数")
		return
	}

	schedules, err := h.svc.ByInstitution(c.Request.Context(), c.Query("institution_id"), semesterID)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, gin.H{"count": len(schedules), "schedules": schedules})
}

// List 分页列表
// GET /api/v1/timetable?course_code=&institution_id=&semester_id=&page=&page_size=
func (h *ScheduleHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 21002, "查询参数错误", err.Error())
		return
	}

	schedules, total, err := h.svc.List(c.Request.Context(), &query)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OKPage(c, schedules, total, query.Page, query.PageSize)
}

// ExportICS 导出 iCalendar
// GET /api/v1/timetable/export.ics
func (h *ScheduleHandler) ExportICS(c *gin.Context) {
	var query dto.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 21002, "查询参数错误", err.Error())
		return
	}

	payload, err := h.svc.ExportICS(c.Request.Context(), &query)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="timetable.ics"`)
	c.String(http.StatusOK, payload)
}

// handleScheduleError 查询模块错误码映射
func handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleInstitutionRequired):
		response.BadRequest(c, 21003, err.Error())
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 21004, err.Error())
	default:
		response.InternalError(c)
	}
}
