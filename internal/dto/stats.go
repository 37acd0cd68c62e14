package dto

// OverviewStats counts the main entities.
type OverviewStats struct {
	TotalUsers       int `json:"total_users" db:"total_users"`
	TotalCourses     int `json:"total_courses" db:"total_courses"`
	TotalAssignments int `json:"total_assignments" db:"total_assignments"`
	TotalResources   int `json:"total_resources" db:"total_resources"`
	TotalProjects    int `json:"total_projects" db:"total_projects"`
}

// AssignmentStats compares assignments with submissions.
type AssignmentStats struct {
	TotalAssignments int     `json:"total_assignments" db:"total_assignments"`
	TotalSubmissions int     `json:"total_submissions" db:"total_submissions"`
	GradedCount      int     `json:"graded_submissions" db:"graded_submissions"`
	OverdueCount     int     `json:"overdue_assignments" db:"overdue_assignments"`
	AverageGrade     float64 `json:"average_grade" db:"average_grade"`
}

// AcademicStats aggregates student performance.
type AcademicStats struct {
	StudentCount     int     `json:"student_count" db:"student_count"`
	FacultyCount     int     `json:"faculty_count" db:"faculty_count"`
	AverageCGPA      float64 `json:"average_cgpa" db:"average_cgpa"`
	TotalEnrollments int     `json:"total_enrollments" db:"total_enrollments"`
	ActiveCourses    int     `json:"active_courses" db:"active_courses"`
}

// Bucket is one group of a GROUP BY count.
type Bucket struct {
	Key   string `json:"key" db:"key"`
	Count int    `json:"count" db:"count"`
}

// ResourceStats breaks resources down by type and category.
type ResourceStats struct {
	TotalResources int            `json:"total_resources"`
	TotalDownloads int            `json:"total_downloads"`
	ByType         map[string]int `json:"by_type"`
	ByCategory     map[string]int `json:"by_category"`
}

// ProjectStats breaks projects down by status.
type ProjectStats struct {
	TotalProjects   int            `json:"total_projects"`
	ByStatus        map[string]int `json:"by_status"`
	AverageProgress float64        `json:"average_progress"`
}

// BucketMap folds buckets into a map, naming NULL keys "unspecified".
func BucketMap(buckets []Bucket) map[string]int {
	out := make(map[string]int, len(buckets))
	for _, b := range buckets {
		key := b.Key
		if key == "" {
			key = "unspecified"
		}
		out[key] += b.Count
	}
	return out
}
