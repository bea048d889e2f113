package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/dto"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/service"
	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/response"
)

// NotificationHandler 站内通知模块 HTTP 处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List 当前用户的通知列表
// GET /api/v1/notifications?unread_only=true
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "参数校验失败")
		return
	}

	notifications, total, err := h.notificationSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OKPage(c, notifications, total, req.GetLimit(), req.GetOffset())
}

// UnreadCount 未读通知数量
// GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationSvc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, dto.UnreadCountResponse{Unread: count})
}

// MarkRead 标记单条通知已读
// POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "VALIDATION_ERROR", "通知ID不能为空")
		return
	}

	if err := h.notificationSvc.MarkRead(c.Request.Context(), userID, id); err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, nil)
}

// MarkAllRead 标记全部通知已读
// POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleNotificationError 统一处理通知模块业务错误
func (h *NotificationHandler) handleNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		response.NotFound(c, 17001, "NOTIFICATION_NOT_FOUND", "通知不存在")
	default:
		response.InternalError(c)
	}
}
