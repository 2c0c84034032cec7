package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"aeroportal/internal/models"
	"aeroportal/internal/utils/logger"

	"gorm.io/gorm"
)

var ErrNoUpload = errors.New("no file payload provided")

// FileService implements the secure file lifecycle: store an uploaded
// artifact with metadata, gate downloads behind an optional password, and
// remove artifact plus row on delete.
type FileService struct {
	db      *gorm.DB
	storage Storage
	log     *logger.Logger
}

func NewFileService(db *gorm.DB, storage Storage) *FileService {
	return &FileService{
		db:      db,
		storage: storage,
		log:     logger.New("file_service"),
	}
}

// CreateFileInput carries the upload plus its metadata. Password length and
// the secure/password pairing are enforced by the validation boundary.
type CreateFileInput struct {
	DisplayName string
	Category    string
	Description string
	IsSecure    bool
	Password    string
	FileName    string
	Size        int64
	Contents    io.Reader
}

func (s *FileService) Create(ctx context.Context, in CreateFileInput) (*models.File, error) {
	if in.Contents == nil {
		return nil, ErrNoUpload
	}

	storedPath := fmt.Sprintf("files/%s", StoredFilename(in.FileName))
	if err := s.storage.Save(ctx, storedPath, in.Contents); err != nil {
		return nil, s.log.Error("Failed to store artifact", err)
	}

	passwordHash, err := HashResourcePassword(in.IsSecure, in.Password)
	if err != nil {
		return nil, err
	}

	file := &models.File{
		DisplayName: in.DisplayName,
		Category:    in.Category,
		Description: in.Description,
		FilePath:    storedPath,
		Size:        in.Size,
		IsSecure:    in.IsSecure,
		Password:    passwordHash,
	}

	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		// The artifact must not outlive a failed insert.
		_ = s.storage.Delete(ctx, storedPath)
		return nil, err
	}

	return file, nil
}

func (s *FileService) Get(ctx context.Context, id string) (*models.File, error) {
	var file models.File
	if err := s.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// List returns all files, newest first.
func (s *FileService) List(ctx context.Context) ([]models.File, error) {
	var files []models.File
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// Recent returns the n newest files.
func (s *FileService) Recent(ctx context.Context, n int) ([]models.File, error) {
	var files []models.File
	if err := s.db.WithContext(ctx).Order("created_at desc").Limit(n).Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// TotalSize sums the stored byte sizes across all files.
func (s *FileService) TotalSize(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.File{}).
		Select("COALESCE(SUM(size), 0)").Scan(&total).Error
	return total, err
}

// VerifyPassword is the stateless password check used by the preview-unlock
// endpoint. It never unlocks anything; Download re-runs the same check.
func (s *FileService) VerifyPassword(file *models.File, password string) bool {
	return VerifyResourcePassword(file.IsSecure, file.Password, password)
}

// Download re-checks the password inline and streams the artifact. The
// returned name has the timestamp prefix stripped.
func (s *FileService) Download(ctx context.Context, file *models.File, password string) (io.ReadCloser, string, error) {
	if !VerifyResourcePassword(file.IsSecure, file.Password, password) {
		return nil, "", ErrIncorrectPassword
	}

	exists, err := s.storage.Exists(ctx, file.FilePath)
	if err != nil {
		return nil, "", err
	}
	if !exists {
		return nil, "", ErrArtifactMissing
	}

	reader, err := s.storage.Open(ctx, file.FilePath)
	if err != nil {
		return nil, "", err
	}

	return reader, DownloadName(file.FilePath), nil
}

// Delete removes the artifact if it is still present (absence is fine) and
// then removes the metadata row.
func (s *FileService) Delete(ctx context.Context, file *models.File) error {
	if err := s.storage.Delete(ctx, file.FilePath); err != nil {
		return s.log.Error("Failed to delete artifact", err)
	}
	return s.db.WithContext(ctx).Delete(&models.File{}, "id = ?", file.ID).Error
}
