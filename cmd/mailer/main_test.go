package main

import (
	"path/filepath"
	"testing"
)

func TestRun_ConfigErrorReturned(t *testing.T) {
	t.Setenv("ADMISSION_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if err := run(); err == nil {
		t.Fatal("配置文件不存在时 run 应返回错误")
	}
}
