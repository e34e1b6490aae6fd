package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"

	"admission-portal/backend/config"
)

// ErrProducerNotReady 生产者未初始化
var ErrProducerNotReady = errors.New("kafka 生产者未就绪")

func saslMechanism(cfg *config.KafkaConfig) sasl.Mechanism {
	if cfg.Username == "" {
		return nil
	}
	return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}
}

func tlsConfig(cfg *config.KafkaConfig) *tls.Config {
	if !cfg.TLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// ── Producer ──

// Producer 同步写入单个 topic
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 创建 Kafka 生产者
func NewProducer(cfg *config.KafkaConfig) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			WriteTimeout: 10 * time.Second,
			Transport: &kafka.Transport{
				SASL: saslMechanism(cfg),
				TLS:  tlsConfig(cfg),
			},
		},
	}
}

// Publish 写入一条消息；key 相同的消息落在同一分区
func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	if p == nil || p.writer == nil {
		return ErrProducerNotReady
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
}

// Close 关闭生产者
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// ── Consumer ──

// Handler 处理单条消息
type Handler func(ctx context.Context, msg kafka.Message) error

// messageReader 由 *kafka.Reader 实现
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// 拉取失败后的重试间隔
const fetchRetryDelay = time.Second

// Consumer 消费者组读取器
type Consumer struct {
	reader     messageReader
	logger     *zap.Logger
	retryDelay time.Duration
}

// NewConsumer 创建 Kafka 消费者
func NewConsumer(cfg *config.KafkaConfig, logger *zap.Logger) *Consumer {
	dialer := &kafka.Dialer{
		Timeout:       10 * time.Second,
		DualStack:     true,
		TLS:           tlsConfig(cfg),
		SASLMechanism: saslMechanism(cfg),
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	return newConsumer(reader, logger)
}

func newConsumer(reader messageReader, logger *zap.Logger) *Consumer {
	return &Consumer{reader: reader, logger: logger, retryDelay: fetchRetryDelay}
}

// Run 循环拉取消息直到 ctx 取消
// 处理失败的消息只记录日志，不提交偏移量，通知本身是尽力投递
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("读取消息失败", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryDelay):
			}
			continue
		}

		if err := handle(ctx, msg); err != nil {
			c.logger.Warn("消息处理失败",
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("提交偏移量失败: %w", err)
		}
	}
}

// Close 关闭消费者
func (c *Consumer) Close() error {
	return c.reader.Close()
}
