package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	CourseName  string `json:"course_name" binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Duration    int    `json:"duration"    binding:"required,min=1,max=120"`
	Level       string `json:"level"       binding:"required,max=50"`
	Active      *bool  `json:"active"` // 缺省为 true
}

// UpdateCourseRequest 更新课程请求（整体覆盖所有可变字段）
type UpdateCourseRequest struct {
	CourseName  string `json:"course_name" binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Duration    int    `json:"duration"    binding:"required,min=1,max=120"`
	Level       string `json:"level"       binding:"required,max=50"`
	Active      *bool  `json:"active"      binding:"required"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID          string `json:"id"`
	CourseName  string `json:"course_name"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration"`
	Level       string `json:"level"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
