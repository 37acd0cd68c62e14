package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail      *models.User
	findByEmailErr   error
	emailTaken       bool
	rollNoTaken      bool
	created          *models.User
	createErr        error
	lastLoginUpdated bool
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.userByEmail != nil && m.userByEmail.ID == id {
		return m.userByEmail, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return m.emailTaken, nil
}

func (m *mockAuthRepo) RollNoExists(ctx context.Context, rollNo string) (bool, error) {
	return m.rollNoTaken, nil
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "new-user"
	m.created = user
	return nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

type mockDepartments struct {
	byCode  map[string]*models.Department
	classes map[string]bool
}

func (m *mockDepartments) FindDepartmentByCode(ctx context.Context, code string) (*models.Department, error) {
	if d, ok := m.byCode[code]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDepartments) FindClass(ctx context.Context, code string) (*models.ClassSection, error) {
	if m.classes[code] {
		return &models.ClassSection{ID: "cls-" + code, Class: code}, nil
	}
	return nil, sql.ErrNoRows
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	depts := &mockDepartments{
		byCode:  map[string]*models.Department{"aie": {ID: "d-1", Code: "AIE", Name: "Artificial Intelligence"}},
		classes: map[string]bool{"AIE-A": true, "AIE-B": true},
	}
	return NewAuthService(repo, depts, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "aie-portal",
	})
}

func hashed(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: &models.User{
		ID: "user-1", Email: "ana@aie.edu", PasswordHash: hashed(t, "password123"), Role: models.RoleStudent, IsActive: true,
	}}
	svc := newAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@aie.edu", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.True(t, repo.lastLoginUpdated)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthServiceLoginWrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "user-1", PasswordHash: hashed(t, "right"), IsActive: true}}
	svc := newAuthService(repo)

	_, wrongPassword := svc.Login(context.Background(), models.LoginRequest{Email: "ana@aie.edu", Password: "wrong"})
	require.Error(t, wrongPassword)

	repo.userByEmail = nil
	_, unknown := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@aie.edu", Password: "wrong"})
	require.Error(t, unknown)

	assert.Equal(t, appErrors.FromError(wrongPassword).Status, appErrors.FromError(unknown).Status)
	assert.Equal(t, appErrors.FromError(wrongPassword).Message, appErrors.FromError(unknown).Message)
	assert.True(t, errors.Is(unknown, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceLoginMissingFields(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{})
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@aie.edu"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "user-1", PasswordHash: hashed(t, "pw"), IsActive: false}}
	_, err := newAuthService(repo).Login(context.Background(), models.LoginRequest{Email: "a@aie.edu", Password: "pw"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInactiveAccount))
}

func TestAuthServiceRegisterStudentRequiresRollNo(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{})
	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: "new@aie.edu", Password: "pw", FirstName: "New", LastName: "Student", Role: models.RoleStudent,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceRegisterRejectsInvalidPayload(t *testing.T) {
	cases := map[string]models.RegisterRequest{
		"unknown role": {
			Email: "t@aie.edu", Password: "pw", FirstName: "T", LastName: "U", Role: models.UserRole("teacher"),
		},
		"missing first name": {
			Email: "n@aie.edu", Password: "pw", LastName: "U", Role: models.RoleFaculty,
		},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &mockAuthRepo{}
			_, err := newAuthService(repo).Register(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrValidation))
			assert.Nil(t, repo.created)
		})
	}
}

func TestAuthServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{emailTaken: true})
	rollNo := "21AIE010"
	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: "dup@aie.edu", Password: "pw", FirstName: "D", LastName: "U", Role: models.RoleStudent, RollNo: &rollNo,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestAuthServiceRegisterRejectsDuplicateRollNo(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{rollNoTaken: true})
	rollNo := "21AIE010"
	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: "x@aie.edu", Password: "pw", FirstName: "X", LastName: "Y", Role: models.RoleStudent, RollNo: &rollNo,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestAuthServiceRegisterResolvesDepartmentAndSectionAlias(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo)
	rollNo, dept, section := "21AIE011", "aie", "AIE-B"

	view, err := svc.Register(context.Background(), models.RegisterRequest{
		Email: "s@aie.edu", Password: "pw", FirstName: "S", LastName: "T", Role: models.RoleStudent,
		RollNo: &rollNo, Dept: &dept, Section: &section,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "AIE", *repo.created.Dept)
	assert.Equal(t, "AIE-B", *repo.created.Class)
	assert.NotEqual(t, "pw", repo.created.PasswordHash)
	assert.Equal(t, "new-user", view.ID)
	assert.Equal(t, &rollNo, view.StudentID)
}

func TestAuthServiceRegisterUnknownDepartment(t *testing.T) {
	dept := "XYZ"
	_, err := newAuthService(&mockAuthRepo{}).Register(context.Background(), models.RegisterRequest{
		Email: "f@aie.edu", Password: "pw", FirstName: "F", LastName: "G", Role: models.RoleFaculty, Dept: &dept,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceRegisterUnknownClass(t *testing.T) {
	rollNo, class := "21AIE012", "ZZZ-9"
	_, err := newAuthService(&mockAuthRepo{}).Register(context.Background(), models.RegisterRequest{
		Email: "c@aie.edu", Password: "pw", FirstName: "C", LastName: "D", Role: models.RoleStudent, RollNo: &rollNo, Class: &class,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	_, err := newAuthService(&mockAuthRepo{}).ValidateToken("not-a-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
