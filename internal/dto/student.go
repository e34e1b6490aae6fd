package dto

// StudentResponse 学生档案响应
type StudentResponse struct {
	ID               string          `json:"id"`
	StudentName      string          `json:"student_name"`
	Email            string          `json:"email"`
	PhoneNumber      string          `json:"phone_number"`
	Address          string          `json:"address"`
	CourseID         string          `json:"course_id"`
	Course           *CourseResponse `json:"course,omitempty"`
	ApplicationID    string          `json:"application_id"`
	EnrollmentStatus string          `json:"enrollment_status"`
	CreatedAt        string          `json:"created_at"`
}
