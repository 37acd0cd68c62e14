package models

import "time"

// File is a row of files; FilePath is the object storage key.
type File struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	FileType   *string   `db:"file_type" json:"file_type"`
	FilePath   string    `db:"file_path" json:"file_path"`
	FileSize   int64     `db:"file_size" json:"file_size"`
	MimeType   *string   `db:"mime_type" json:"mime_type"`
	CourseID   *string   `db:"course_id" json:"course_id"`
	UploadedBy *string   `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// FileDetail adds the course name.
type FileDetail struct {
	File
	CourseName *string `db:"course_name" json:"course_name"`
}

// FileFilter narrows file listings.
type FileFilter struct {
	Query    string
	FileType string
	CourseID string
}

// FileUpdateRequest renames or retypes a file.
type FileUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	FileType *string `json:"file_type"`
	CourseID *string `json:"course_id"`
}

// DownloadLink is a signed, expiring URL for a stored file.
type DownloadLink struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
