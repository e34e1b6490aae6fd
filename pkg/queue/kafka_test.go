package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"

	"admission-portal/backend/config"
)

func TestSASLMechanism(t *testing.T) {
	if m := saslMechanism(&config.KafkaConfig{}); m != nil {
		t.Errorf("未配置用户名时不应启用 SASL: %v", m)
	}

	m := saslMechanism(&config.KafkaConfig{Username: "u", Password: "p"})
	p, ok := m.(plain.Mechanism)
	if !ok || p.Username != "u" || p.Password != "p" {
		t.Errorf("应使用 SASL/PLAIN: %#v", m)
	}
}

func TestTLSConfig(t *testing.T) {
	if tlsConfig(&config.KafkaConfig{}) != nil {
		t.Error("未开启 TLS 时应返回 nil")
	}
	if c := tlsConfig(&config.KafkaConfig{TLS: true}); c == nil || c.MinVersion != tls.VersionTLS12 {
		t.Errorf("TLS 配置错误: %#v", c)
	}
}

func TestProducer_NilSafe(t *testing.T) {
	var p *Producer
	if err := p.Publish(context.Background(), nil, []byte("x")); !errors.Is(err, ErrProducerNotReady) {
		t.Errorf("期望 ErrProducerNotReady，实际 %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("nil 生产者 Close 不应报错: %v", err)
	}
}

// ── Consumer ──

type fetchStep struct {
	msg kafka.Message
	err error
}

// scriptedReader 依次返回预设结果，用完后阻塞到 ctx 取消
type scriptedReader struct {
	mu        sync.Mutex
	steps     []fetchStep
	fetches   int
	committed []int64
	commitErr error
	onDrain   func()
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	r.fetches++
	if len(r.steps) > 0 {
		step := r.steps[0]
		r.steps = r.steps[1:]
		r.mu.Unlock()
		return step.msg, step.err
	}
	onDrain := r.onDrain
	r.mu.Unlock()

	if onDrain != nil {
		onDrain()
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.commitErr != nil {
		return r.commitErr
	}
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptedReader) Close() error { return nil }

func msgAt(offset int64) fetchStep {
	return fetchStep{msg: kafka.Message{Topic: "t", Offset: offset, Value: []byte("v")}}
}

func TestConsumer_Run(t *testing.T) {
	errFetch := errors.New("broker unavailable")
	errHandle := errors.New("smtp down")

	tests := []struct {
		name          string
		steps         []fetchStep
		failOffsets   map[int64]bool
		wantHandled   []int64
		wantCommitted []int64
	}{
		{
			name:          "all messages committed",
			steps:         []fetchStep{msgAt(0), msgAt(1)},
			wantHandled:   []int64{0, 1},
			wantCommitted: []int64{0, 1},
		},
		{
			name:          "handler failure skips commit",
			steps:         []fetchStep{msgAt(0), msgAt(1), msgAt(2)},
			failOffsets:   map[int64]bool{1: true},
			wantHandled:   []int64{0, 1, 2},
			wantCommitted: []int64{0, 2},
		},
		{
			name:          "fetch error retried",
			steps:         []fetchStep{{err: errFetch}, msgAt(5)},
			wantHandled:   []int64{5},
			wantCommitted: []int64{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			reader := &scriptedReader{steps: tt.steps, onDrain: cancel}
			c := newConsumer(reader, zap.NewNop())
			c.retryDelay = time.Millisecond

			var handled []int64
			err := c.Run(ctx, func(_ context.Context, m kafka.Message) error {
				handled = append(handled, m.Offset)
				if tt.failOffsets[m.Offset] {
					return errHandle
				}
				return nil
			})
			if err != nil {
				t.Fatalf("ctx 取消后应返回 nil，实际 %v", err)
			}
			if !equalOffsets(handled, tt.wantHandled) {
				t.Errorf("handled = %v, want %v", handled, tt.wantHandled)
			}
			if !equalOffsets(reader.committed, tt.wantCommitted) {
				t.Errorf("committed = %v, want %v", reader.committed, tt.wantCommitted)
			}
		})
	}
}

func TestConsumer_Run_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	reader := &scriptedReader{steps: []fetchStep{{err: errors.New("broker unavailable")}}}
	c := newConsumer(reader, zap.NewNop())
	c.retryDelay = time.Hour

	start := time.Now()
	if err := c.Run(ctx, func(context.Context, kafka.Message) error { return nil }); err != nil {
		t.Fatalf("ctx 取消后应返回 nil，实际 %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("退避等待中应及时响应 ctx 取消")
	}
	if reader.fetches != 1 {
		t.Errorf("退避期间不应再次拉取，实际拉取 %d 次", reader.fetches)
	}
}

func TestConsumer_Run_CommitError(t *testing.T) {
	reader := &scriptedReader{steps: []fetchStep{msgAt(0)}, commitErr: errors.New("coordinator moved")}
	c := newConsumer(reader, zap.NewNop())

	err := c.Run(context.Background(), func(context.Context, kafka.Message) error { return nil })
	if err == nil {
		t.Fatal("提交偏移量失败应返回错误")
	}
}

func equalOffsets(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
