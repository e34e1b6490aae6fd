package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"admission-portal/backend/config"
)

func TestBuildMessage_Headers(t *testing.T) {
	msg := string(BuildMessage("office@school.edu", "Admission Team", "alice@x.com", "Admission Application Status Update", "line1\nline2"))

	if !strings.Contains(msg, "From: \"Admission Team\" <office@school.edu>\r\n") {
		t.Errorf("From 头不正确: %q", msg)
	}
	if !strings.Contains(msg, "To: alice@x.com\r\n") {
		t.Error("缺少 To 头")
	}
	if !strings.Contains(msg, "Subject: Admission Application Status Update\r\n") {
		t.Error("ASCII 主题不应被编码")
	}
	if !strings.HasSuffix(msg, "\r\n\r\nline1\r\nline2") {
		t.Errorf("正文换行应转换为 CRLF: %q", msg)
	}
}

func TestBuildMessage_EncodesNonASCIISubject(t *testing.T) {
	msg := string(BuildMessage("office@school.edu", "", "a@x.com", "录取通知", "body"))

	if !strings.Contains(msg, "Subject: =?utf-8?q?") {
		t.Errorf("非 ASCII 主题应使用 Q 编码: %q", msg)
	}
	if !strings.Contains(msg, "From: office@school.edu\r\n") {
		t.Error("未配置发件人名称时 From 应为纯地址")
	}
}

func TestSend_InvalidRecipient(t *testing.T) {
	s := NewSMTPSender(&config.MailConfig{SMTPHost: "127.0.0.1", SMTPPort: 1, From: "a@b.c"})

	err := s.Send(context.Background(), "not-an-address", "s", "b")
	if !errors.Is(err, ErrInvalidRecipient) {
		t.Errorf("期望 ErrInvalidRecipient，实际: %v", err)
	}
}
