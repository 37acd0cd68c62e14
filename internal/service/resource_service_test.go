package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type mockResourceRepo struct {
	resources   map[string]*models.ResourceDetail
	lastFilter  models.ResourceFilter
	downloadErr error
	downloads   int
}

func (m *mockResourceRepo) List(ctx context.Context, filter models.ResourceFilter) ([]models.ResourceDetail, error) {
	m.lastFilter = filter
	return []models.ResourceDetail{}, nil
}

func (m *mockResourceRepo) FindByID(ctx context.Context, id string) (*models.ResourceDetail, error) {
	if r, ok := m.resources[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockResourceRepo) Create(ctx context.Context, res *models.Resource) error {
	res.ID = "res-new"
	m.resources[res.ID] = &models.ResourceDetail{Resource: *res}
	return nil
}

func (m *mockResourceRepo) Update(ctx context.Context, res *models.Resource) error {
	m.resources[res.ID].Resource = *res
	return nil
}

func (m *mockResourceRepo) Delete(ctx context.Context, id string) error {
	delete(m.resources, id)
	return nil
}

func (m *mockResourceRepo) RecordDownload(ctx context.Context, resourceID, userID string) (int, error) {
	if _, ok := m.resources[resourceID]; !ok {
		return 0, sql.ErrNoRows
	}
	m.downloads++
	return m.downloads, m.downloadErr
}

func (m *mockResourceRepo) DownloadStats(ctx context.Context, resourceID string) (int, int, error) {
	return m.downloads, m.downloads, nil
}

func newResourceService(repo *mockResourceRepo, notifier Notifier) *ResourceService {
	users := stubUsers{
		"fac-1": newUser("fac-1", models.RoleFaculty, ""),
		"fac-2": newUser("fac-2", models.RoleFaculty, ""),
		"adm-1": newUser("adm-1", models.RoleAdmin, ""),
		"stu-1": newUser("stu-1", models.RoleStudent, "AIE-B"),
	}
	return NewResourceService(repo, users, notifier, nil, nil)
}

func TestResourceCreateNormalizesTagsAndNotifiesCourse(t *testing.T) {
	repo := &mockResourceRepo{resources: map[string]*models.ResourceDetail{}}
	notifier := &recordingNotifier{}
	svc := newResourceService(repo, notifier)
	course := "course-1"

	created, err := svc.Create(context.Background(), models.ResourceRequest{
		Title: "Lecture 1", ResourceType: "pdf", UploadedBy: "fac-1", CourseID: &course,
		Tags: []string{" Go ", "go", "", "Concurrency"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "concurrency"}, []string(created.Tags))

	ev := notifier.last()
	assert.Equal(t, models.NotifResource, ev.Type)
	assert.Equal(t, "course-1", ev.Audience.CourseID)
	assert.Equal(t, "res-new", ev.Links.ResourceID)

	_, err = svc.Create(context.Background(), models.ResourceRequest{
		Title: "Link", ResourceType: "link", UploadedBy: "fac-1", IsExternal: true,
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestResourceListScopesStudent(t *testing.T) {
	repo := &mockResourceRepo{resources: map[string]*models.ResourceDetail{}}
	svc := newResourceService(repo, nil)

	_, err := svc.My(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "stu-1", repo.lastFilter.StudentID)
	assert.Equal(t, "AIE-B", repo.lastFilter.StudentClass)

	_, err = svc.My(context.Background(), "fac-1")
	require.NoError(t, err)
	assert.Equal(t, "fac-1", repo.lastFilter.UploadedBy)
}

func TestResourceOwnershipAndDownloads(t *testing.T) {
	owner := "fac-1"
	repo := &mockResourceRepo{resources: map[string]*models.ResourceDetail{
		"r1": {Resource: models.Resource{ID: "r1", Title: "Notes", UploadedBy: &owner}},
	}}
	svc := newResourceService(repo, nil)
	title := "Notes v2"

	_, err := svc.Update(context.Background(), "r1", models.ResourceUpdateRequest{Title: &title, UserID: "fac-2"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	updated, err := svc.Update(context.Background(), "r1", models.ResourceUpdateRequest{Title: &title, UserID: "adm-1"})
	require.NoError(t, err)
	assert.Equal(t, "Notes v2", updated.Title)

	res, err := svc.Download(context.Background(), "r1", "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.DownloadCount)

	repo.downloadErr = errors.New("log insert failed")
	res, err = svc.Download(context.Background(), "r1", "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.DownloadCount)

	_, err = svc.Download(context.Background(), "missing", "")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	require.Error(t, svc.Delete(context.Background(), "r1", "stu-1"))
	require.NoError(t, svc.Delete(context.Background(), "r1", "fac-1"))
}
