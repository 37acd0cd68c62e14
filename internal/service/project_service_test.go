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

type mockProjectRepo struct {
	projects map[string]*models.ProjectDetail
	members  map[string]bool
}

func (m *mockProjectRepo) List(ctx context.Context, status string) ([]models.ProjectDetail, error) {
	return []models.ProjectDetail{}, nil
}

func (m *mockProjectRepo) FindByID(ctx context.Context, id string) (*models.ProjectDetail, error) {
	if p, ok := m.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProjectRepo) Create(ctx context.Context, p *models.Project) error {
	p.ID = "p-new"
	m.projects[p.ID] = &models.ProjectDetail{Project: *p}
	return nil
}

func (m *mockProjectRepo) Update(ctx context.Context, p *models.Project) error {
	m.projects[p.ID].Project = *p
	return nil
}

func (m *mockProjectRepo) UpdateProgress(ctx context.Context, id string, progress int) error {
	p, ok := m.projects[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.Progress = progress
	return nil
}

func (m *mockProjectRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockProjectRepo) Members(ctx context.Context, projectID string) ([]models.ProjectMemberDetail, error) {
	return []models.ProjectMemberDetail{}, nil
}

func (m *mockProjectRepo) MemberExists(ctx context.Context, projectID, userID string) (bool, error) {
	return m.members[projectID+"/"+userID], nil
}

func (m *mockProjectRepo) AddMember(ctx context.Context, member *models.ProjectMember) error {
	m.members[member.ProjectID+"/"+member.UserID] = true
	return nil
}

func (m *mockProjectRepo) RemoveMember(ctx context.Context, projectID, userID string) error {
	if !m.members[projectID+"/"+userID] {
		return sql.ErrNoRows
	}
	delete(m.members, projectID+"/"+userID)
	return nil
}

func newProjectService() (*ProjectService, *mockProjectRepo) {
	repo := &mockProjectRepo{projects: map[string]*models.ProjectDetail{}, members: map[string]bool{}}
	users := stubUsers{"u1": newUser("u1", models.RoleStudent, "AIE-A")}
	return NewProjectService(repo, users, nil, nil), repo
}

func TestProjectCreateDefaultsToPlanning(t *testing.T) {
	svc, _ := newProjectService()

	project, err := svc.Create(context.Background(), models.ProjectRequest{Title: "Robot arm"})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectPlanning, project.Status)

	_, err = svc.Create(context.Background(), models.ProjectRequest{Title: "x", Status: "abandoned"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestProjectProgressBounds(t *testing.T) {
	svc, _ := newProjectService()
	project, err := svc.Create(context.Background(), models.ProjectRequest{Title: "Robot arm"})
	require.NoError(t, err)

	over, zero := 101, 0
	_, err = svc.SetProgress(context.Background(), project.ID, models.ProgressRequest{Progress: &over})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.SetProgress(context.Background(), project.ID, models.ProgressRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	updated, err := svc.SetProgress(context.Background(), project.ID, models.ProgressRequest{Progress: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Progress)

	_, err = svc.SetProgress(context.Background(), "missing", models.ProgressRequest{Progress: &zero})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestProjectMembers(t *testing.T) {
	svc, _ := newProjectService()
	project, err := svc.Create(context.Background(), models.ProjectRequest{Title: "Robot arm"})
	require.NoError(t, err)

	member, err := svc.AddMember(context.Background(), project.ID, models.MemberRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "member", member.Role)

	_, err = svc.AddMember(context.Background(), project.ID, models.MemberRequest{UserID: "u1", Role: "lead"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.AddMember(context.Background(), project.ID, models.MemberRequest{UserID: "ghost"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	require.NoError(t, svc.RemoveMember(context.Background(), project.ID, "u1"))
	assert.True(t, errors.Is(svc.RemoveMember(context.Background(), project.ID, "u1"), appErrors.ErrNotFound))
}
