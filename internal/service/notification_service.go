package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ese345/SIWES-PORTAL-sub001/internal/dto"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/model"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/repository"
)

var (
	// ErrNotificationNotFound 通知不存在或不属于当前用户
	ErrNotificationNotFound = errors.New("通知不存在")
)

// Notifier 通知投递接口
// 业务服务在状态变更完成后调用，投递失败只记录日志，不影响主流程
type Notifier interface {
	Notify(ctx context.Context, userID, notifType, severity, title, content string, relatedType, relatedID *string) error
}

// NotificationService 站内通知服务
type NotificationService interface {
	Notifier
	List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) Notify(ctx context.Context, userID, notifType, severity, title, content string, relatedType, relatedID *string) error {
	notification := &model.Notification{
		UserID:      userID,
		Type:        notifType,
		Severity:    severity,
		Title:       title,
		Content:     content,
		RelatedType: relatedType,
		RelatedID:   relatedID,
	}
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Error("创建通知失败",
			zap.String("user_id", userID),
			zap.String("type", notifType),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	notifications, total, err := s.repo.Notification.ListByUser(ctx, userID, req.UnreadOnly, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		resp = append(resp, toNotificationResponse(&notifications[i]))
	}
	return resp, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.Notification.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("统计未读通知失败", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.repo.Notification.MarkRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("标记通知已读失败", zap.String("notification_id", notificationID), zap.Error(err))
		return err
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repo.Notification.MarkAllRead(ctx, userID); err != nil {
		s.logger.Error("标记全部通知已读失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:          n.NotificationID,
		Type:        n.Type,
		Severity:    n.Severity,
		Title:       n.Title,
		Content:     n.Content,
		IsRead:      n.IsRead,
		RelatedType: n.RelatedType,
		RelatedID:   n.RelatedID,
		CreatedAt:   n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
