package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "config-test-secret-0123456789"

func TestLoad_DefaultsWithEnvSecret(t *testing.T) {
	t.Setenv("ADMISSION_AUTH_JWT_SECRET", testSecret)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("显式指定的配置文件不存在时应返回错误")
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("默认端口应为 8080，实际 %d", cfg.Server.Port)
	}
	if cfg.Notify.Channel != NotifyChannelLog {
		t.Errorf("默认通知渠道应为 log，实际 %s", cfg.Notify.Channel)
	}
	if cfg.Auth.AccessTokenTTL != 8*time.Hour {
		t.Errorf("默认 TTL 应为 8h，实际 %s", cfg.Auth.AccessTokenTTL)
	}
	if cfg.RateLimit.SubmitLimit != 10 || cfg.RateLimit.SubmitWindow != time.Minute {
		t.Errorf("默认限流错误: %+v", cfg.RateLimit)
	}
	if cfg.Auth.JWTSecret != testSecret {
		t.Error("环境变量应覆盖 jwt_secret")
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.Join([]string{
		"server:",
		"  port: 9090",
		"auth:",
		"  jwt_secret: " + testSecret,
		"notify:",
		"  channel: kafka",
		"  timeout: 3s",
		"kafka:",
		"  brokers: [\"k1:9092\", \"k2:9092\"]",
		"  topic: notices",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADMISSION_SERVER_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("环境变量应覆盖配置文件，实际端口 %d", cfg.Server.Port)
	}
	if cfg.Notify.Channel != NotifyChannelKafka || cfg.Notify.Timeout != 3*time.Second {
		t.Errorf("notify 配置错误: %+v", cfg.Notify)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Topic != "notices" {
		t.Errorf("kafka 配置错误: %+v", cfg.Kafka)
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{JWTSecret: testSecret},
		Notify: NotifyConfig{Channel: NotifyChannelLog},
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("合法配置不应报错: %v", err)
	}

	cases := map[string]func(*Config){
		"empty secret":   func(c *Config) { c.Auth.JWTSecret = "" },
		"short secret":   func(c *Config) { c.Auth.JWTSecret = "short" },
		"bad port":       func(c *Config) { c.Server.Port = 70000 },
		"bad channel":    func(c *Config) { c.Notify.Channel = "sms" },
		"kafka no topic": func(c *Config) { c.Notify.Channel = NotifyChannelKafka; c.Kafka.Brokers = []string{"k:9092"} },
		"negative limit": func(c *Config) { c.RateLimit.SubmitLimit = -1 },
	}
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: 应校验失败", name)
		}
	}
}

func TestDSN(t *testing.T) {
	c := &DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "admission", SSLMode: "disable", Timezone: "UTC"}
	want := "host=db port=5432 user=u password=p dbname=admission sslmode=disable TimeZone=UTC"
	if got := c.DSN(); got != want {
		t.Errorf("DSN = %q", got)
	}
}
