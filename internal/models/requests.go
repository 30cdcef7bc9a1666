package models

// Request payloads. Pointer fields are optional and only applied when present.

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateEmployeeRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Position string `json:"position" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateEmployeeRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=1"`
	Position *string `json:"position" validate:"omitempty,min=1"`
}

type UpdateAdminRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=1"`
}

type PostJobRequest struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description" validate:"required"`
	Company     string       `json:"company" validate:"required"`
	Location    string       `json:"location"`
	SalaryRange *SalaryRange `json:"salaryRange"`
	JobType     JobType      `json:"jobType" validate:"omitempty,oneof=Full-time Part-time Contract Internship"`
}

type UpdateJobRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Company     *string      `json:"company"`
	Location    *string      `json:"location"`
	SalaryRange *SalaryRange `json:"salaryRange"`
	JobType     *JobType     `json:"jobType" validate:"omitempty,oneof=Full-time Part-time Contract Internship"`
	IsActive    *bool        `json:"isActive"`
}

func (r UpdateJobRequest) Update() JobUpdate {
	return JobUpdate{
		Title:       r.Title,
		Description: r.Description,
		Company:     r.Company,
		Location:    r.Location,
		SalaryRange: r.SalaryRange,
		JobType:     r.JobType,
		IsActive:    r.IsActive,
	}
}
