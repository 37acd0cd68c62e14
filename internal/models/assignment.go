package models

import "time"

// AssignmentStatus classifies an assignment by its due date.
type AssignmentStatus string

const (
	AssignmentOverdue  AssignmentStatus = "overdue"
	AssignmentDueSoon  AssignmentStatus = "due_soon"
	AssignmentUpcoming AssignmentStatus = "upcoming"
)

// Assignment is a row of assignments.
type Assignment struct {
	ID          string    `db:"id" json:"id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	Class       *string   `db:"class" json:"class"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
	MaxPoints   *int      `db:"max_points" json:"max_points"`
	CreatedBy   *string   `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AssignmentDetail is an assignment with its course and computed due status.
type AssignmentDetail struct {
	Assignment
	CourseName   *string          `db:"course_name" json:"course_name"`
	CourseCode   *string          `db:"course_code" json:"course_code"`
	Status       AssignmentStatus `db:"-" json:"status"`
	DaysUntilDue int              `db:"-" json:"days_until_due"`
}

// AssignmentFilter narrows assignment listings. Zero values are ignored.
type AssignmentFilter struct {
	CourseID  string
	CreatedBy string
	// Student scopes to the student's class or enrolled courses.
	StudentID    string
	StudentClass string
	DueAfter     *time.Time
	DueBefore    *time.Time
	Query        string
	Ascending    bool
	Limit        uint64
}

// AssignmentRequest creates an assignment.
type AssignmentRequest struct {
	CourseID    string  `json:"course_id" validate:"required"`
	Class       *string `json:"class"`
	Section     *string `json:"section"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	DueDate     string  `json:"due_date" validate:"required"`
	MaxPoints   *int    `json:"max_points" validate:"omitempty,gte=0"`
	CreatedBy   string  `json:"created_by" validate:"required"`
}

// AssignmentUpdateRequest patches an assignment; UserID is the acting user.
type AssignmentUpdateRequest struct {
	CourseID    *string `json:"course_id"`
	Class       *string `json:"class"`
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	MaxPoints   *int    `json:"max_points" validate:"omitempty,gte=0"`
	UserID      string  `json:"user_id"`
}

// Submission statuses.
const (
	SubmissionSubmitted = "submitted"
	SubmissionGraded    = "graded"
)

// Submission is a row of assignment_submissions.
type Submission struct {
	ID           string    `db:"id" json:"id"`
	AssignmentID string    `db:"assignment_id" json:"assignment_id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	Content      *string   `db:"content" json:"content"`
	FileURL      *string   `db:"file_url" json:"file_url"`
	Status       string    `db:"status" json:"status"`
	Grade        *float64  `db:"grade" json:"grade"`
	SubmittedAt  time.Time `db:"submitted_at" json:"submitted_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SubmissionRequest creates or replaces a student's submission.
type SubmissionRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	Content   *string `json:"content"`
	FileURL   *string `json:"file_url" validate:"omitempty,url"`
}
