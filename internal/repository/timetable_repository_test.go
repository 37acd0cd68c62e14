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

var sessionRowColumns = []string{"id", "course_id", "room", "class", "day_of_week", "start_time", "end_time", "created_at",
	"course_name", "course_code", "faculty_id"}

func TestTimetableRepositoryListByClassAndDay(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	rows := sqlmock.NewRows(sessionRowColumns).
		AddRow("tt-1", "course-1", "R101", "AIE-A", "monday", "09:00:00", "10:30:00", time.Now(), "Machine Learning", "AIE301", "fac-1")
	mock.ExpectQuery(`FROM timetable t LEFT JOIN courses c ON c.id = t.course_id WHERE t.class = \$1 AND t.day_of_week = \$2 ORDER BY t.start_time, t.class`).
		WithArgs("AIE-A", models.Monday).
		WillReturnRows(rows)

	sessions, err := NewTimetableRepository(db).List(context.Background(), models.TimetableFilter{Class: "AIE-A", Day: models.Monday})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, models.Monday, sessions[0].DayOfWeek)
	assert.Equal(t, "09:00:00", sessions[0].StartTime)
	require.NotNil(t, sessions[0].CourseName)
	assert.Equal(t, "Machine Learning", *sessions[0].CourseName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListEmptyIsNotNil(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery("FROM timetable t").WillReturnRows(sqlmock.NewRows(sessionRowColumns))

	sessions, err := NewTimetableRepository(db).List(context.Background(), models.TimetableFilter{})
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestTimetableRepositoryListOverridesForDate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	saturday, err := models.ParseDate("2026-03-14")
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "date", "class", "tt_followed", "created_at"}).
		AddRow("sat-1", saturday.Time, "AIE-A", "wednesday", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, date, class, tt_followed, created_at FROM saturday_class WHERE date = $1 AND class = $2")).
		WithArgs("2026-03-14", "AIE-A").
		WillReturnRows(rows)

	overrides, err := NewTimetableRepository(db).ListOverrides(context.Background(), &saturday, "AIE-A")
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, models.Wednesday, overrides[0].TTFollowed)
	assert.Equal(t, "2026-03-14", overrides[0].Date.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryOverrideExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	saturday, err := models.ParseDate("2026-03-14")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM saturday_class")).
		WithArgs("2026-03-14", "AIE-A", "").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewTimetableRepository(db).OverrideExists(context.Background(), saturday, "AIE-A", "")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTimetableRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable WHERE id = $1")).
		WithArgs("tt-x").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewTimetableRepository(db).Delete(context.Background(), "tt-x")
	require.ErrorIs(t, err, sql.ErrNoRows)
}
