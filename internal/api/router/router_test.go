package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"admission-portal/backend/config"
	"admission-portal/backend/internal/api/handler"
	"admission-portal/backend/pkg/jwt"
)

func setupTestRouter() (http.Handler, *jwt.Manager) {
	cfg := &config.Config{}
	cfg.Server.CORS.AllowOrigins = []string{"http://localhost:5173"}
	cfg.Auth = config.AuthConfig{JWTSecret: "router-test-secret-0123456789", AccessTokenTTL: time.Minute}

	mgr := jwt.NewManager(&cfg.Auth)
	// 以下用例只覆盖在进入 Handler 之前结束的请求
	h := &handler.Handler{
		Application: &handler.ApplicationHandler{},
		Course:      &handler.CourseHandler{},
		Student:     &handler.StudentHandler{},
		Export:      &handler.ExportHandler{},
	}
	return Setup(cfg, h, mgr, nil, zap.NewNop()), mgr
}

func request(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r, _ := setupTestRouter()

	if w := request(r, "GET", "/health", ""); w.Code != http.StatusOK {
		t.Errorf("/health expected 200, got %d", w.Code)
	}

	w := request(r, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "admission_students_materialized_total") {
		t.Error("/metrics 缺少业务指标")
	}
}

func TestRouter_StaffRoutesRequireToken(t *testing.T) {
	r, _ := setupTestRouter()

	for _, path := range []string{
		"/api/v1/applications",
		"/api/v1/applications/pending",
		"/api/v1/students",
		"/api/v1/courses",
		"/api/v1/export/applications",
	} {
		if w := request(r, "GET", path, ""); w.Code != http.StatusUnauthorized {
			t.Errorf("%s expected 401, got %d", path, w.Code)
		}
	}
}

func TestRouter_CourseMutationAdminOnly(t *testing.T) {
	r, mgr := setupTestRouter()
	token, _ := mgr.GenerateAccessToken("staff-1", jwt.RoleStaff, 0)

	for _, tc := range []struct{ method, path string }{
		{"POST", "/api/v1/courses"},
		{"PUT", "/api/v1/courses/c-1"},
		{"DELETE", "/api/v1/courses/c-1"},
	} {
		if w := request(r, tc.method, tc.path, token); w.Code != http.StatusForbidden {
			t.Errorf("%s %s expected 403, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestRouter_SecurityAndRequestIDHeaders(t *testing.T) {
	r, _ := setupTestRouter()

	w := request(r, "GET", "/health", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("响应应带 X-Request-ID")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("响应应带安全头")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r, _ := setupTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/v1/applications", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}
