package models

import (
	"time"

	"github.com/lib/pq"
)

// Resource is a row of resources: uploaded course material or an external link.
type Resource struct {
	ID            string         `db:"id" json:"id"`
	Title         string         `db:"title" json:"title"`
	Description   *string        `db:"description" json:"description"`
	ResourceType  string         `db:"resource_type" json:"resource_type"`
	Category      *string        `db:"category" json:"category"`
	Class         *string        `db:"class" json:"class"`
	FileURL       *string        `db:"file_url" json:"file_url"`
	FileName      *string        `db:"file_name" json:"file_name"`
	FileSize      *int64         `db:"file_size" json:"file_size"`
	FileType      *string        `db:"file_type" json:"file_type"`
	CourseID      *string        `db:"course_id" json:"course_id"`
	UploadedBy    *string        `db:"uploaded_by" json:"uploaded_by"`
	IsExternal    bool           `db:"is_external" json:"is_external"`
	ExternalURL   *string        `db:"external_url" json:"external_url"`
	Tags          pq.StringArray `db:"tags" json:"tags"`
	DownloadCount int            `db:"download_count" json:"download_count"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// ResourceDetail adds course and uploader names.
type ResourceDetail struct {
	Resource
	CourseName   *string `db:"course_name" json:"course_name"`
	CourseCode   *string `db:"course_code" json:"course_code"`
	UploaderName *string `db:"uploader_name" json:"uploader_name"`
}

// ResourceFilter narrows resource listings. Zero values are ignored.
type ResourceFilter struct {
	ResourceType string
	Category     string
	CourseID     string
	UploadedBy   string
	Query        string
	// StudentID scopes to resources of the student's class or enrolled courses.
	StudentID    string
	StudentClass string
}

// ResourceRequest creates a resource.
type ResourceRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  *string  `json:"description"`
	ResourceType string   `json:"resource_type" validate:"required"`
	Category     *string  `json:"category" validate:"omitempty,oneof=syllabus announcements materials"`
	Class        *string  `json:"class"`
	Section      *string  `json:"section"`
	FileURL      *string  `json:"file_url"`
	FileName     *string  `json:"file_name"`
	FileSize     *int64   `json:"file_size" validate:"omitempty,gte=0"`
	FileType     *string  `json:"file_type"`
	CourseID     *string  `json:"course_id"`
	UploadedBy   string   `json:"uploaded_by" validate:"required"`
	IsExternal   bool     `json:"is_external"`
	ExternalURL  *string  `json:"external_url" validate:"required_if=IsExternal true,omitempty,url"`
	Tags         []string `json:"tags"`
}

// ResourceUpdateRequest patches a resource; UserID is the acting user.
type ResourceUpdateRequest struct {
	Title        *string   `json:"title" validate:"omitempty,min=1"`
	Description  *string   `json:"description"`
	ResourceType *string   `json:"resource_type"`
	Category     *string   `json:"category" validate:"omitempty,oneof=syllabus announcements materials"`
	Class        *string   `json:"class"`
	CourseID     *string   `json:"course_id"`
	ExternalURL  *string   `json:"external_url" validate:"omitempty,url"`
	Tags         *[]string `json:"tags"`
	UserID       string    `json:"user_id"`
}

// ResourceDownload is a row of resource_downloads.
type ResourceDownload struct {
	ID           string    `db:"id" json:"id"`
	ResourceID   string    `db:"resource_id" json:"resource_id"`
	UserID       *string   `db:"user_id" json:"user_id"`
	DownloadedAt time.Time `db:"downloaded_at" json:"downloaded_at"`
}
