package models

import "time"

// Course is a row of courses.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Dept        *string   `db:"dept" json:"dept"`
	FacultyID   *string   `db:"faculty_id" json:"faculty_id"`
	Credits     *int      `db:"credits" json:"credits"`
	Description *string   `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CourseDetail adds the teaching faculty's name.
type CourseDetail struct {
	Course
	FacultyName *string `db:"faculty_name" json:"faculty_name"`
}

// CourseOverview summarises a course's workload.
type CourseOverview struct {
	Course           CourseDetail `json:"course"`
	AssignmentsCount int          `json:"assignments_count"`
	ClassesCount     int          `json:"classes_count"`
}

// Enrollment statuses.
const (
	EnrollmentActive  = "active"
	EnrollmentDropped = "dropped"
)

// Enrollment is a row of enrollments.
type Enrollment struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	Status     string    `db:"status" json:"status"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// EnrolledStudent is a course roster entry.
type EnrolledStudent struct {
	UserSummary
	RollNo     *string   `db:"roll_no" json:"roll_no"`
	Status     string    `db:"status" json:"status"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// EnrollRequest enrolls a student in a course.
type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}
