package models

import "time"

// UserRole is the portal role stored in users.role.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleFaculty UserRole = "faculty"
	RoleAdmin   UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// User represents a row of the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Role         UserRole   `db:"role" json:"role"`
	RollNo       *string    `db:"roll_no" json:"roll_no"`
	Dept         *string    `db:"dept" json:"dept"`
	Class        *string    `db:"class" json:"class"`
	CGPA         *float64   `db:"cgpa" json:"cgpa"`
	TotalCredits *int       `db:"total_credits" json:"total_credits"`
	AvatarURL    *string    `db:"avatar_url" json:"avatar_url"`
	Phone        *string    `db:"phone" json:"phone"`
	Bio          *string    `db:"bio" json:"bio"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserView is the public shape of a user. The legacy clients still read student_id and gpa.
type UserView struct {
	User
	StudentID *string  `json:"student_id"`
	GPA       *float64 `json:"gpa"`
}

// View returns the response shape of u.
func (u *User) View() UserView {
	return UserView{User: *u, StudentID: u.RollNo, GPA: u.CGPA}
}

// Views maps a slice of users to their response shape.
func Views(users []User) []UserView {
	out := make([]UserView, 0, len(users))
	for i := range users {
		out = append(out, users[i].View())
	}
	return out
}

// UserSummary is the short profile embedded in social and messaging responses.
type UserSummary struct {
	ID        string   `db:"id" json:"id"`
	Email     string   `db:"email" json:"email"`
	FirstName string   `db:"first_name" json:"first_name"`
	LastName  string   `db:"last_name" json:"last_name"`
	Role      UserRole `db:"role" json:"role"`
	AvatarURL *string  `db:"avatar_url" json:"avatar_url"`
	Class     *string  `db:"class" json:"class"`
	Dept      *string  `db:"dept" json:"dept"`
}

// UpdateProfileRequest carries the self-service profile fields.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1"`
	Phone     *string `json:"phone"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

// UserStats aggregates users per role.
type UserStats struct {
	TotalUsers int            `json:"total_users"`
	ByRole     map[string]int `json:"by_role"`
}

// UserActivityStats counts a user's enrollments and submissions.
type UserActivityStats struct {
	EnrollmentsCount int `db:"enrollments_count" json:"enrollments_count"`
	SubmissionsCount int `db:"submissions_count" json:"submissions_count"`
}

// RoleCount is one row of a GROUP BY role query.
type RoleCount struct {
	Role  string `db:"role"`
	Count int    `db:"count"`
}

// UserPreferences holds a user's display and notification settings.
type UserPreferences struct {
	ID                   string    `db:"id" json:"id"`
	UserID               string    `db:"user_id" json:"user_id"`
	Theme                *string   `db:"theme" json:"theme"`
	NotificationsEnabled bool      `db:"notifications_enabled" json:"notifications_enabled"`
	EmailNotifications   bool      `db:"email_notifications" json:"email_notifications"`
	Language             *string   `db:"language" json:"language"`
	Timezone             *string   `db:"timezone" json:"timezone"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}
