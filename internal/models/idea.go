package models

import (
	"time"

	"github.com/lib/pq"
)

// Idea is a row of ideas.
type Idea struct {
	ID         string         `db:"id" json:"id"`
	Title      string         `db:"title" json:"title"`
	Content    *string        `db:"content" json:"content"`
	Category   *string        `db:"category" json:"category"`
	Tags       pq.StringArray `db:"tags" json:"tags"`
	CourseID   *string        `db:"course_id" json:"course_id"`
	ProjectID  *string        `db:"project_id" json:"project_id"`
	CreatedBy  *string        `db:"created_by" json:"created_by"`
	IsFavorite bool           `db:"is_favorite" json:"is_favorite"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// IdeaDetail adds the linked course name and project title.
type IdeaDetail struct {
	Idea
	CourseName   *string `db:"course_name" json:"course_name"`
	ProjectTitle *string `db:"project_title" json:"project_title"`
}

// IdeaRequest creates an idea.
type IdeaRequest struct {
	Title     string   `json:"title" validate:"required"`
	Content   *string  `json:"content"`
	Category  *string  `json:"category"`
	Tags      []string `json:"tags"`
	CourseID  *string  `json:"course_id"`
	ProjectID *string  `json:"project_id"`
	CreatedBy *string  `json:"created_by"`
}

// IdeaUpdateRequest patches an idea.
type IdeaUpdateRequest struct {
	Title     *string   `json:"title" validate:"omitempty,min=1"`
	Content   *string   `json:"content"`
	Category  *string   `json:"category"`
	Tags      *[]string `json:"tags"`
	CourseID  *string   `json:"course_id"`
	ProjectID *string   `json:"project_id"`
}
