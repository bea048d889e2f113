package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/dto"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/service"
	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// Mark 标记考勤（企业导师）
// POST /api/v1/students/:studentId/attendance
func (h *AttendanceHandler) Mark(c *gin.Context) {
	markerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	record, err := h.attendanceSvc.Mark(c.Request.Context(), student, markerID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, record)
}

// List 考勤记录列表（按日期倒序）
// GET /api/v1/students/:studentId/attendance
func (h *AttendanceHandler) List(c *gin.Context) {
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	records, total, err := h.attendanceSvc.List(c.Request.Context(), student.StudentID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OKPage(c, records, total, req.GetLimit(), req.GetOffset())
}

// handleAttendanceError 统一处理考勤模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttendanceDateInvalid):
		response.BadRequest(c, 16001, "INVALID_ATTENDANCE_DATE", "考勤日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrDuplicateAttendance):
		response.Conflict(c, 16002, "DUPLICATE_ATTENDANCE", "该日期考勤已标记")
	default:
		response.InternalError(c)
	}
}
