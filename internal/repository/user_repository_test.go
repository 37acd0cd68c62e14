package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/models"
)

var userRowColumns = []string{"id", "email", "password_hash", "first_name", "last_name", "role", "roll_no", "dept", "class",
	"cgpa", "total_credits", "avatar_url", "phone", "bio", "is_active", "last_login", "created_at", "updated_at"}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("user-1", "ana@aie.edu", "hash", "Ana", "Putri", "student", "21AIE001", "AIE", "AIE-A",
			3.6, 80, nil, nil, nil, true, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE LOWER(email) = LOWER($1)")).
		WithArgs("Ana@AIE.edu").
		WillReturnRows(rows)

	user, err := NewUserRepository(db).FindByEmail(context.Background(), "Ana@AIE.edu")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, models.RoleStudent, user.Role)
	require.NotNil(t, user.RollNo)
	assert.Equal(t, "21AIE001", *user.RollNo)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := NewUserRepository(db).FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{Email: "dosen@aie.edu", FirstName: "Budi", LastName: "Santoso", Role: models.RoleFaculty, IsActive: true}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositorySearchExcludesCurrentUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("user-2", "bima@aie.edu", "hash", "Bima", "Arya", "student", "21AIE002", "AIE", "AIE-A",
			nil, nil, nil, nil, nil, true, nil, now, now)
	mock.ExpectQuery(`SELECT .* FROM users WHERE \(first_name ILIKE \$1 OR last_name ILIKE \$2 OR email ILIKE \$3\) AND is_active = \$4 AND id <> \$5 ORDER BY first_name, last_name LIMIT 20`).
		WithArgs("%bi%", "%bi%", "%bi%", true, "user-1").
		WillReturnRows(rows)

	users, err := NewUserRepository(db).Search(context.Background(), "bi", "user-1", 20)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "user-2", users[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdateProfileMissingUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET first_name")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewUserRepository(db).UpdateProfile(context.Background(), &models.User{ID: "ghost"})
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryPreferencesFiltersByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "theme", "notifications_enabled", "email_notifications", "language", "timezone", "created_at", "updated_at"}).
		AddRow("pref-1", "user-1", "dark", true, false, "en", "Asia/Kolkata", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_preferences WHERE user_id = $1 ORDER BY created_at")).
		WithArgs("user-1").
		WillReturnRows(rows)

	prefs, err := NewUserRepository(db).Preferences(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.True(t, prefs[0].NotificationsEnabled)
	assert.False(t, prefs[0].EmailNotifications)
	require.NotNil(t, prefs[0].Theme)
	assert.Equal(t, "dark", *prefs[0].Theme)
	require.NoError(t, mock.ExpectationsWereMet())
}
