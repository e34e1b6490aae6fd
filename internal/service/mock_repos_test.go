package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admission-portal/backend/internal/model"
	"admission-portal/backend/internal/notify"
	"admission-portal/backend/internal/repository"
)

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses   map[string]*model.Course
	createErr error
	updateErr error
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	if course.CourseID == "" {
		course.CourseID = uuid.NewString()
	}
	now := time.Now()
	course.CreatedAt, course.UpdatedAt = now, now
	cp := *course
	m.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByName(_ context.Context, name string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.CourseName == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context, filter repository.CourseFilter) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if filter.ActiveOnly && !c.Active {
			continue
		}
		if filter.Level != "" && c.Level != filter.Level {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseName < result[j].CourseName })
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cp := *course
	m.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.courses, id)
	return nil
}

// ── Mock ApplicationRepository ──

type mockApplicationRepo struct {
	apps      map[string]*model.Application
	courses   *mockCourseRepo
	createErr error
	updateErr error
	seq       int
}

func newMockApplicationRepo(courses *mockCourseRepo) *mockApplicationRepo {
	return &mockApplicationRepo{apps: make(map[string]*model.Application), courses: courses}
}

// withCourse 模拟 Preload("Course")
func (m *mockApplicationRepo) withCourse(a *model.Application) *model.Application {
	cp := *a
	if c, ok := m.courses.courses[a.CourseID]; ok {
		cc := *c
		cp.Course = &cc
	}
	return &cp
}

func (m *mockApplicationRepo) Create(_ context.Context, app *model.Application) error {
	if m.createErr != nil {
		return m.createErr
	}
	if app.ApplicationID == "" {
		app.ApplicationID = uuid.NewString()
	}
	// 保证创建时间严格递增，便于校验排序
	m.seq++
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Minute)
	app.CreatedAt, app.UpdatedAt = now, now
	cp := *app
	cp.Course = nil
	m.apps[app.ApplicationID] = &cp
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id string) (*model.Application, error) {
	if a, ok := m.apps[id]; ok {
		return m.withCourse(a), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) GetByEmail(_ context.Context, email string) (*model.Application, error) {
	for _, a := range m.apps {
		if a.Email == email {
			return m.withCourse(a), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) sorted(keep func(*model.Application) bool, less func(a, b *model.Application) bool) []model.Application {
	var list []*model.Application
	for _, a := range m.apps {
		if keep(a) {
			list = append(list, a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return less(list[i], list[j]) })
	result := make([]model.Application, 0, len(list))
	for _, a := range list {
		result = append(result, *m.withCourse(a))
	}
	return result
}

func (m *mockApplicationRepo) List(_ context.Context, filter repository.ApplicationFilter) ([]model.Application, int64, error) {
	all := m.sorted(func(a *model.Application) bool {
		if filter.CourseID != "" && a.CourseID != filter.CourseID {
			return false
		}
		return filter.Status == "" || a.Status == filter.Status
	}, func(a, b *model.Application) bool { return a.CreatedAt.After(b.CreatedAt) })

	total := int64(len(all))
	if filter.Limit > 0 {
		if filter.Offset >= len(all) {
			return []model.Application{}, total, nil
		}
		end := filter.Offset + filter.Limit
		if end > len(all) {
			end = len(all)
		}
		all = all[filter.Offset:end]
	}
	return all, total, nil
}

func (m *mockApplicationRepo) ListPending(_ context.Context) ([]model.Application, error) {
	return m.sorted(func(a *model.Application) bool { return a.Status == model.StatusPending },
		func(a, b *model.Application) bool { return a.CreatedAt.Before(b.CreatedAt) }), nil
}

func (m *mockApplicationRepo) ListSelected(_ context.Context) ([]model.Application, error) {
	return m.sorted(func(a *model.Application) bool { return a.Status == model.StatusSelected },
		func(a, b *model.Application) bool { return a.StatusChangedAt.After(*b.StatusChangedAt) }), nil
}

func (m *mockApplicationRepo) Update(_ context.Context, app *model.Application) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cp := *app
	cp.Course = nil
	m.apps[app.ApplicationID] = &cp
	return nil
}

func (m *mockApplicationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.apps)), nil
}

func (m *mockApplicationRepo) CountByStatus(_ context.Context, status model.ApplicationStatus) (int64, error) {
	var n int64
	for _, a := range m.apps {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students  map[string]*model.Student
	courses   *mockCourseRepo
	createErr error
}

func newMockStudentRepo(courses *mockCourseRepo) *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student), courses: courses}
}

func (m *mockStudentRepo) withCourse(st *model.Student) model.Student {
	cp := *st
	if c, ok := m.courses.courses[st.CourseID]; ok {
		cc := *c
		cp.Course = &cc
	}
	return cp
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	if student.StudentID == "" {
		student.StudentID = uuid.NewString()
	}
	student.CreatedAt = time.Now()
	cp := *student
	m.students[student.StudentID] = &cp
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if st, ok := m.students[id]; ok {
		cp := m.withCourse(st)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByApplicationID(_ context.Context, applicationID string) (*model.Student, error) {
	for _, st := range m.students {
		if st.ApplicationID == applicationID {
			cp := *st
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) ListByEnrollmentStatus(_ context.Context, status string) ([]model.Student, error) {
	var result []model.Student
	for _, st := range m.students {
		if st.EnrollmentStatus == status {
			result = append(result, m.withCourse(st))
		}
	}
	return result, nil
}

func (m *mockStudentRepo) ListByCourse(_ context.Context, courseID string) ([]model.Student, error) {
	var result []model.Student
	for _, st := range m.students {
		if st.CourseID == courseID {
			result = append(result, m.withCourse(st))
		}
	}
	return result, nil
}

func (m *mockStudentRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	var n int64
	for _, st := range m.students {
		if st.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

// ── Mock notify.Sender ──

type recordingSender struct {
	mu   sync.Mutex
	sent []*notify.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg *notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) Channel() string { return "test" }

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *recordingSender) last() *notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return nil
	}
	return s.sent[len(s.sent)-1]
}

// ── 测试辅助 ──

type testEnv struct {
	repo    *repository.Repository
	courses *mockCourseRepo
	apps    *mockApplicationRepo
	studs   *mockStudentRepo
	sender  *recordingSender
}

func newTestEnv() *testEnv {
	courses := newMockCourseRepo()
	apps := newMockApplicationRepo(courses)
	studs := newMockStudentRepo(courses)
	return &testEnv{
		repo: &repository.Repository{
			Course:      courses,
			Application: apps,
			Student:     studs,
		},
		courses: courses,
		apps:    apps,
		studs:   studs,
		sender:  &recordingSender{},
	}
}

func (e *testEnv) addCourse(name string, active bool) *model.Course {
	c := &model.Course{CourseName: name, Duration: 48, Level: "Undergraduate", Active: active}
	_ = e.courses.Create(context.Background(), c)
	return c
}
