package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
	"github.com/noah-isme/aie-portal-api/pkg/storage"
)

type fileRepository interface {
	List(ctx context.Context, filter models.FileFilter) ([]models.FileDetail, error)
	FindByID(ctx context.Context, id string) (*models.FileDetail, error)
	Create(ctx context.Context, f *models.File) error
	Update(ctx context.Context, f *models.File) error
	Delete(ctx context.Context, id string) error
}

type downloadSigner interface {
	Sign(fileID, key string) (string, time.Time, error)
	Verify(token string) (storage.Grant, error)
}

// FileUpload is an incoming multipart file.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
	UploadedBy  string
	CourseID    string
}

// FileService keeps file metadata in the database and the bytes in object storage.
type FileService struct {
	repo         fileRepository
	store        storage.ObjectStore
	signer       downloadSigner
	validator    *validator.Validate
	logger       *zap.Logger
	maxSize      int64
	downloadPath string
}

// NewFileService constructs a FileService. Download links are built as downloadPath + token.
func NewFileService(repo fileRepository, store storage.ObjectStore, signer downloadSigner, maxSize int64, downloadPath string, validate *validator.Validate, logger *zap.Logger) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FileService{
		repo:         repo,
		store:        store,
		signer:       signer,
		validator:    validate,
		logger:       logger,
		maxSize:      maxSize,
		downloadPath: downloadPath,
	}
}

// MaxSize is the upload limit in bytes.
func (s *FileService) MaxSize() int64 {
	return s.maxSize
}

// List returns files matching filter, newest first.
func (s *FileService) List(ctx context.Context, filter models.FileFilter) ([]models.FileDetail, error) {
	files, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list files")
	}
	return files, nil
}

// Get returns one file's metadata.
func (s *FileService) Get(ctx context.Context, id string) (*models.FileDetail, error) {
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "file")
	}
	return file, nil
}

// Upload stores the bytes and then the row. A failed insert removes the stored object.
func (s *FileService) Upload(ctx context.Context, in FileUpload) (*models.FileDetail, error) {
	name := sanitizeFileName(in.Name)
	if name == "" || in.Body == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if in.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}
	if s.maxSize > 0 && in.Size > s.maxSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds the %d byte limit", s.maxSize))
	}

	contentType := in.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		if guessed := mime.TypeByExtension(filepath.Ext(name)); guessed != "" {
			contentType = guessed
		}
	}
	id := uuid.NewString()
	key := path.Join("files", id, name)

	if err := s.store.Put(ctx, key, in.Body, in.Size, contentType); err != nil {
		return nil, appErrors.Internal(err, "failed to store file")
	}

	fileType := classifyFile(name, contentType)
	file := &models.File{
		ID:         id,
		Name:       name,
		FileType:   &fileType,
		FilePath:   key,
		FileSize:   in.Size,
		MimeType:   strPtr(contentType),
		CourseID:   strPtr(in.CourseID),
		UploadedBy: strPtr(in.UploadedBy),
	}
	if err := s.repo.Create(ctx, file); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("orphaned upload", zap.String("key", key), zap.Error(delErr))
		}
		return nil, writeError(err, "save file")
	}
	return s.Get(ctx, id)
}

// Update renames, retypes or re-links a file. The stored object keeps its key.
func (s *FileService) Update(ctx context.Context, id string, req models.FileUpdateRequest) (*models.FileDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid file update")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	file := current.File
	if req.Name != nil {
		if file.Name = sanitizeFileName(*req.Name); file.Name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name must not be empty")
		}
	}
	if req.FileType != nil {
		file.FileType = strPtr(*req.FileType)
	}
	if req.CourseID != nil {
		file.CourseID = strPtr(*req.CourseID)
	}
	if err := s.repo.Update(ctx, &file); err != nil {
		return nil, writeError(err, "update file")
	}
	return s.Get(ctx, id)
}

// Delete removes the row and then the object; a leftover object is only logged.
func (s *FileService) Delete(ctx context.Context, id string) error {
	file, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "delete file")
	}
	if err := s.store.Delete(ctx, file.FilePath); err != nil {
		s.logger.Warn("stored object not removed", zap.String("file_id", id), zap.String("key", file.FilePath), zap.Error(err))
	}
	return nil
}

// DownloadLink signs an expiring URL for a file.
func (s *FileService) DownloadLink(ctx context.Context, id string) (*models.DownloadLink, error) {
	file, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Sign(file.ID, file.FilePath)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to sign download link")
	}
	return &models.DownloadLink{DownloadURL: s.downloadPath + token, ExpiresAt: expiresAt}, nil
}

// Open verifies a download token and opens the stored object. The caller closes the reader.
func (s *FileService) Open(ctx context.Context, token string) (*models.FileDetail, io.ReadCloser, error) {
	grant, err := s.signer.Verify(token)
	switch {
	case errors.Is(err, storage.ErrTokenExpired):
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "download link expired")
	case err != nil:
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	file, err := s.Get(ctx, grant.FileID)
	if err != nil {
		return nil, nil, err
	}
	if file.FilePath != grant.Key {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	body, err := s.store.Get(ctx, file.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "file content not found")
		}
		return nil, nil, appErrors.Internal(err, "failed to open file")
	}
	return file, body, nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// classifyFile buckets a file by MIME type, falling back to its extension.
func classifyFile(name, contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	case strings.HasPrefix(contentType, "audio/"):
		return "audio"
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".doc", ".docx", ".txt", ".md", ".odt", ".rtf":
		return "document"
	case ".ppt", ".pptx", ".key", ".odp":
		return "presentation"
	case ".xls", ".xlsx", ".csv", ".ods":
		return "spreadsheet"
	case ".zip", ".tar", ".gz", ".rar", ".7z":
		return "archive"
	case ".go", ".py", ".js", ".ts", ".java", ".c", ".cpp", ".ipynb":
		return "code"
	}
	return "other"
}
