package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdeaRepositoryTagsDistinctSorted(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT tag FROM ideas, unnest(tags) AS tag")).
		WillReturnRows(sqlmock.NewRows([]string{"tag"}).AddRow("ai").AddRow("robotics"))

	tags, err := NewIdeaRepository(db).Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "robotics"}, tags)
}

func TestIdeaRepositoryToggleFavorite(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE ideas SET is_favorite = NOT is_favorite")).
		WithArgs("idea-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"is_favorite"}).AddRow(true))

	favorite, err := NewIdeaRepository(db).ToggleFavorite(context.Background(), "idea-1")
	require.NoError(t, err)
	assert.True(t, favorite)
}

func TestIdeaRepositoryToggleFavoriteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE ideas SET is_favorite")).
		WillReturnError(sql.ErrNoRows)

	_, err := NewIdeaRepository(db).ToggleFavorite(context.Background(), "nope")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestIdeaRepositoryListSearchesTitleContentAndTags(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (i.title ILIKE $1 OR i.content ILIKE $2 OR array_to_string(i.tags, ' ') ILIKE $3) AND i.category = $4")).
		WithArgs("%drone%", "%drone%", "%drone%", "research").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ideas, err := NewIdeaRepository(db).List(context.Background(), "drone", "research")
	require.NoError(t, err)
	assert.Empty(t, ideas)
	require.NoError(t, mock.ExpectationsWereMet())
}
