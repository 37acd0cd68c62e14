package models

import "time"

// ProjectStatus values.
const (
	ProjectPlanning   = "planning"
	ProjectInProgress = "in_progress"
	ProjectCompleted  = "completed"
	ProjectOnHold     = "on_hold"
)

// ProjectTypes are the selectable project kinds.
var ProjectTypes = []Option{
	{Value: "research", Label: "Research"},
	{Value: "development", Label: "Development"},
	{Value: "design", Label: "Design"},
	{Value: "analysis", Label: "Analysis"},
	{Value: "other", Label: "Other"},
}

// Option is a value/label pair for client dropdowns.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Project is a row of projects.
type Project struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	ProjectType *string   `db:"project_type" json:"project_type"`
	Status      string    `db:"status" json:"status"`
	Progress    int       `db:"progress" json:"progress"`
	CourseID    *string   `db:"course_id" json:"course_id"`
	CreatedBy   *string   `db:"created_by" json:"created_by"`
	StartDate   *Date     `db:"start_date" json:"start_date"`
	DueDate     *Date     `db:"due_date" json:"due_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ProjectDetail adds the course name and code.
type ProjectDetail struct {
	Project
	CourseName *string `db:"course_name" json:"course_name"`
	CourseCode *string `db:"course_code" json:"course_code"`
}

// ProjectRequest creates a project.
type ProjectRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	ProjectType *string `json:"project_type"`
	Status      string  `json:"status" validate:"omitempty,oneof=planning in_progress completed on_hold"`
	CourseID    *string `json:"course_id"`
	CreatedBy   *string `json:"created_by"`
	StartDate   *Date   `json:"start_date"`
	DueDate     *Date   `json:"due_date"`
}

// ProjectUpdateRequest patches a project.
type ProjectUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	ProjectType *string `json:"project_type"`
	Status      *string `json:"status" validate:"omitempty,oneof=planning in_progress completed on_hold"`
	CourseID    *string `json:"course_id"`
	StartDate   *Date   `json:"start_date"`
	DueDate     *Date   `json:"due_date"`
}

// ProgressRequest sets a project's completion percentage.
type ProgressRequest struct {
	Progress *int `json:"progress" validate:"required,gte=0,lte=100"`
}

// ProjectMember is a row of project_members.
type ProjectMember struct {
	ID        string    `db:"id" json:"id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	JoinedAt  time.Time `db:"joined_at" json:"joined_at"`
}

// ProjectMemberDetail is a member with their profile.
type ProjectMemberDetail struct {
	ProjectMember
	User UserSummary `db:"user" json:"user"`
}

// MemberRequest adds a user to a project.
type MemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role"`
}
