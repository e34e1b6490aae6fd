package notify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"admission-portal/backend/config"
)

type fakeMailer struct {
	to, subject, body string
	err               error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	f.to, f.subject, f.body = to, subject, body
	return f.err
}

type fakePublisher struct {
	key, value []byte
	err        error
}

func (f *fakePublisher) Publish(_ context.Context, key, value []byte) error {
	f.key, f.value = key, value
	return f.err
}

func testMessage() *Message {
	return &Message{
		To:            "alice@example.com",
		Subject:       "Admission Application Status Update",
		Body:          "Dear Alice,",
		ApplicantName: "Alice",
		CourseName:    "Computer Science",
		Status:        "SELECTED",
	}
}

func TestLogSender_NeverFails(t *testing.T) {
	s := NewLogSender(zap.NewNop())
	if err := s.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("log 渠道不应返回错误: %v", err)
	}
	if s.Channel() != config.NotifyChannelLog {
		t.Errorf("channel = %s", s.Channel())
	}
}

func TestMailSender_PassesFields(t *testing.T) {
	m := &fakeMailer{}
	s := NewMailSender(m)
	if err := s.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.to != "alice@example.com" || m.subject != "Admission Application Status Update" || m.body != "Dear Alice," {
		t.Errorf("字段传递错误: %+v", m)
	}
}

func TestMailSender_PropagatesError(t *testing.T) {
	boom := errors.New("smtp down")
	s := NewMailSender(&fakeMailer{err: boom})
	if err := s.Send(context.Background(), testMessage()); !errors.Is(err, boom) {
		t.Errorf("期望透传错误，实际 %v", err)
	}
}

func TestQueueSender_EncodesMessage(t *testing.T) {
	pub := &fakePublisher{}
	s := NewQueueSender(pub)
	if err := s.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(pub.key) != "alice@example.com" {
		t.Errorf("key = %s", pub.key)
	}

	got, err := Decode(pub.value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CourseName != "Computer Science" || got.Status != "SELECTED" {
		t.Errorf("解码结果错误: %+v", got)
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Error("非法 JSON 应返回错误")
	}
	if _, err := Decode([]byte(`{"subject":"x"}`)); err == nil {
		t.Error("缺少收件人应返回错误")
	}
}

func TestNew_Channels(t *testing.T) {
	cfg := &config.Config{}

	cfg.Notify.Channel = config.NotifyChannelLog
	s, err := New(cfg, zap.NewNop(), nil)
	if err != nil || s.Channel() != config.NotifyChannelLog {
		t.Fatalf("log: %v %v", s, err)
	}

	cfg.Notify.Channel = config.NotifyChannelSMTP
	s, err = New(cfg, zap.NewNop(), nil)
	if err != nil || s.Channel() != config.NotifyChannelSMTP {
		t.Fatalf("smtp: %v %v", s, err)
	}

	cfg.Notify.Channel = config.NotifyChannelKafka
	if _, err := New(cfg, zap.NewNop(), nil); err == nil {
		t.Error("kafka 渠道缺少 producer 应返回错误")
	}

	cfg.Notify.Channel = "pigeon"
	if _, err := New(cfg, zap.NewNop(), nil); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("期望 ErrUnknownChannel，实际 %v", err)
	}
}
