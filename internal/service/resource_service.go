package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type resourceRepository interface {
	List(ctx context.Context, filter models.ResourceFilter) ([]models.ResourceDetail, error)
	FindByID(ctx context.Context, id string) (*models.ResourceDetail, error)
	Create(ctx context.Context, res *models.Resource) error
	Update(ctx context.Context, res *models.Resource) error
	Delete(ctx context.Context, id string) error
	RecordDownload(ctx context.Context, resourceID, userID string) (int, error)
	DownloadStats(ctx context.Context, resourceID string) (counter, logged int, err error)
}

// ResourceQuery scopes resource listings.
type ResourceQuery struct {
	FacultyID    string `form:"faculty_id"`
	StudentID    string `form:"student_id"`
	ResourceType string `form:"type"`
	Category     string `form:"category"`
	CourseID     string `form:"course_id"`
	Query        string `form:"q"`
}

// ResourceStats reports how often a resource was downloaded.
type ResourceStats struct {
	ResourceID    string `json:"resource_id"`
	DownloadCount int    `json:"download_count"`
	LoggedCount   int    `json:"logged_downloads"`
}

// ResourceService manages course materials and their download counters.
type ResourceService struct {
	repo      resourceRepository
	users     actorLookup
	notifier  Notifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResourceService constructs a ResourceService.
func NewResourceService(repo resourceRepository, users actorLookup, notifier Notifier, validate *validator.Validate, logger *zap.Logger) *ResourceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ResourceService{repo: repo, users: users, notifier: notifier, validator: validate, logger: logger}
}

// List returns resources for the query's student (class or enrolled courses), faculty member
// (uploaded by) or, without either, every resource matching the remaining filters.
func (s *ResourceService) List(ctx context.Context, q ResourceQuery) ([]models.ResourceDetail, error) {
	filter := models.ResourceFilter{
		ResourceType: q.ResourceType,
		Category:     q.Category,
		CourseID:     q.CourseID,
		Query:        strings.TrimSpace(q.Query),
	}
	switch {
	case q.StudentID != "":
		student, err := s.users.FindByID(ctx, q.StudentID)
		if err != nil {
			return nil, lookupError(err, "student")
		}
		filter.StudentID = student.ID
		filter.StudentClass = deref(student.Class)
	case q.FacultyID != "":
		filter.UploadedBy = q.FacultyID
	}

	resources, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list resources")
	}
	return resources, nil
}

// My lists what a faculty member uploaded, or what a student can see.
func (s *ResourceService) My(ctx context.Context, userID string) ([]models.ResourceDetail, error) {
	user, err := requireActor(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleStudent {
		return s.List(ctx, ResourceQuery{StudentID: user.ID})
	}
	return s.List(ctx, ResourceQuery{FacultyID: user.ID})
}

// Search matches title, description and tags. An empty query returns nothing.
func (s *ResourceService) Search(ctx context.Context, q string) ([]models.ResourceDetail, error) {
	if strings.TrimSpace(q) == "" {
		return []models.ResourceDetail{}, nil
	}
	return s.List(ctx, ResourceQuery{Query: q})
}

// Get returns one resource.
func (s *ResourceService) Get(ctx context.Context, id string) (*models.ResourceDetail, error) {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "resource")
	}
	return resource, nil
}

// Stats returns the download counter of a resource.
func (s *ResourceService) Stats(ctx context.Context, id string) (*ResourceStats, error) {
	counter, logged, err := s.repo.DownloadStats(ctx, id)
	if err != nil {
		return nil, lookupError(err, "resource")
	}
	return &ResourceStats{ResourceID: id, DownloadCount: counter, LoggedCount: logged}, nil
}

// Download counts a download and returns the resource with the new counter.
func (s *ResourceService) Download(ctx context.Context, id, userID string) (*models.ResourceDetail, error) {
	count, err := s.repo.RecordDownload(ctx, id, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "resource not found")
		}
		if count == 0 {
			return nil, appErrors.Internal(err, "failed to record download")
		}
		s.logger.Warn("download history not recorded", zap.String("resource_id", id), zap.Error(err))
	}
	resource, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resource.DownloadCount = count
	return resource, nil
}

// Create adds a resource and notifies its class or course.
func (s *ResourceService) Create(ctx context.Context, req models.ResourceRequest) (*models.ResourceDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "title, resource_type and uploaded_by are required")
	}
	uploader, err := requireActor(ctx, s.users, req.UploadedBy)
	if err != nil {
		return nil, err
	}
	class := req.Class
	if deref(class) == "" {
		class = req.Section
	}

	resource := &models.Resource{
		Title:        req.Title,
		Description:  req.Description,
		ResourceType: req.ResourceType,
		Category:     req.Category,
		Class:        strPtr(deref(class)),
		FileURL:      req.FileURL,
		FileName:     req.FileName,
		FileSize:     req.FileSize,
		FileType:     req.FileType,
		CourseID:     strPtr(deref(req.CourseID)),
		UploadedBy:   &uploader.ID,
		IsExternal:   req.IsExternal,
		ExternalURL:  req.ExternalURL,
		Tags:         pq.StringArray(normalizeTags(req.Tags)),
	}
	if err := s.repo.Create(ctx, resource); err != nil {
		return nil, writeError(err, "create resource")
	}
	created, err := s.Get(ctx, resource.ID)
	if err != nil {
		return nil, err
	}
	s.notifyCreated(ctx, created, uploader.ID)
	return created, nil
}

func (s *ResourceService) notifyCreated(ctx context.Context, r *models.ResourceDetail, actorID string) {
	if s.notifier == nil {
		return
	}
	var audience models.Audience
	switch {
	case deref(r.Class) != "":
		audience.Class = *r.Class
	case deref(r.CourseID) != "":
		audience.CourseID = *r.CourseID
	default:
		return
	}
	s.notifier.Notify(ctx, models.NotificationEvent{
		Type:     models.NotifResource,
		Title:    "New resource available",
		Message:  r.Title,
		ActorID:  actorID,
		Meta:     map[string]interface{}{"resource_type": r.ResourceType, "course_id": deref(r.CourseID)},
		Links:    models.NotificationLinks{ResourceID: r.ID},
		Audience: audience,
	})
}

// Update patches a resource; only the uploader or an admin may change it.
func (s *ResourceService) Update(ctx context.Context, id string, req models.ResourceUpdateRequest) (*models.ResourceDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid resource update")
	}
	current, err := s.authorize(ctx, id, req.UserID)
	if err != nil {
		return nil, err
	}
	resource := current.Resource
	if req.Title != nil {
		resource.Title = *req.Title
	}
	if req.Description != nil {
		resource.Description = req.Description
	}
	if req.ResourceType != nil {
		resource.ResourceType = *req.ResourceType
	}
	if req.Category != nil {
		resource.Category = req.Category
	}
	if req.Class != nil {
		resource.Class = strPtr(*req.Class)
	}
	if req.CourseID != nil {
		resource.CourseID = strPtr(*req.CourseID)
	}
	if req.ExternalURL != nil {
		resource.ExternalURL = req.ExternalURL
	}
	if req.Tags != nil {
		resource.Tags = pq.StringArray(normalizeTags(*req.Tags))
	}
	if err := s.repo.Update(ctx, &resource); err != nil {
		return nil, writeError(err, "update resource")
	}
	return s.Get(ctx, id)
}

// Delete removes a resource; only the uploader or an admin may delete it.
func (s *ResourceService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.authorize(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "delete resource")
	}
	return nil
}

func (s *ResourceService) authorize(ctx context.Context, id, userID string) (*models.ResourceDetail, error) {
	actor, err := requireActor(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	resource, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && deref(resource.UploadedBy) != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the uploader or an admin can modify this resource")
	}
	return resource, nil
}

// normalizeTags trims, lower-cases and de-duplicates tags, keeping their order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
