package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry 应用自有的 Prometheus 注册表
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "admission",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "admission",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms ~ 2.5s
		},
		[]string{"method", "path"},
	)

	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "admission",
			Name:      "status_transitions_total",
			Help:      "Application status transitions by target status.",
		},
		[]string{"status"},
	)

	studentsMaterialized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "admission",
			Name:      "students_materialized_total",
			Help:      "Student records created from selected applications.",
		},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "admission",
			Name:      "notifications_total",
			Help:      "Status change notifications by channel and result.",
		},
		[]string{"channel", "result"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		statusTransitions,
		studentsMaterialized,
		notifications,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware 采集 HTTP 请求计数与耗时
// path 使用路由模板（如 /api/v1/applications/:id），未匹配路由记为 unmatched
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		if path == "/metrics" {
			return
		}
		method := c.Request.Method

		httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordStatusTransition 记录一次状态流转
func RecordStatusTransition(status string) {
	statusTransitions.WithLabelValues(status).Inc()
}

// RecordStudentMaterialized 记录一次学生档案生成
func RecordStudentMaterialized() {
	studentsMaterialized.Inc()
}

// RecordNotification 记录一次通知投递结果
func RecordNotification(channel string, success bool) {
	result := "sent"
	if !success {
		result = "failed"
	}
	notifications.WithLabelValues(channel, result).Inc()
}
