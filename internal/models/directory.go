package models

// Department is a row of departments.
type Department struct {
	ID   string `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// ClassSection is a row of the class table: one student cohort such as "CSE-A".
type ClassSection struct {
	ID           string  `db:"id" json:"id"`
	AcademicYear *string `db:"academic_year" json:"academic_year"`
	Section      *string `db:"section" json:"section"`
	Dept         *string `db:"dept" json:"dept"`
	Class        string  `db:"class" json:"class"`
}
