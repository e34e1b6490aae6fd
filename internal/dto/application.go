package dto

// ── 申请模块 DTO ──

// SubmitApplicationRequest 提交申请请求
type SubmitApplicationRequest struct {
	ApplicantName         string `json:"applicant_name"         binding:"required,max=100"`
	Email                 string `json:"email"                  binding:"required,email,max=255"`
	PhoneNumber           string `json:"phone_number"           binding:"required,len=10,numeric"`
	Address               string `json:"address"                binding:"required,max=500"`
	AdditionalInformation string `json:"additional_information" binding:"omitempty,max=1000"`
	CourseID              string `json:"course_id"              binding:"required"`
}

// UpdateStatusRequest 更新申请状态请求
// status 为 REJECTED 时 rejection_reason 必填（Service 层校验）
type UpdateStatusRequest struct {
	Status          string `json:"status"           binding:"required,oneof=PENDING SELECTED REJECTED"`
	RejectionReason string `json:"rejection_reason" binding:"omitempty,max=500"`
}

// ApplicationListRequest 申请列表查询参数
type ApplicationListRequest struct {
	PaginationRequest
	CourseID string `form:"course_id"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING SELECTED REJECTED"`
}

// ApplicationResponse 申请信息响应
type ApplicationResponse struct {
	ID                    string          `json:"id"`
	ApplicantName         string          `json:"applicant_name"`
	Email                 string          `json:"email"`
	PhoneNumber           string          `json:"phone_number"`
	Address               string          `json:"address"`
	AdditionalInformation string          `json:"additional_information,omitempty"`
	Status                string          `json:"status"`
	RejectionReason       string          `json:"rejection_reason,omitempty"`
	Course                *CourseResponse `json:"course,omitempty"`
	CreatedAt             string          `json:"created_at"`
	UpdatedAt             string          `json:"updated_at"`
	StatusChangedAt       string          `json:"status_changed_at,omitempty"`
}

// ApplicationStatisticsResponse 申请统计
type ApplicationStatisticsResponse struct {
	TotalApplications    int64 `json:"total_applications"`
	PendingApplications  int64 `json:"pending_applications"`
	SelectedApplications int64 `json:"selected_applications"`
	RejectedApplications int64 `json:"rejected_applications"`
}

// ExportApplicationsRequest 导出申请查询参数
type ExportApplicationsRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING SELECTED REJECTED"`
}
