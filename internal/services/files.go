package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vrdaw-dev/vrdaw/internal/common"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/models"
	"github.com/vrdaw-dev/vrdaw/internal/realtime"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/audiofiles"
	"github.com/vrdaw-dev/vrdaw/internal/storage"
	"gorm.io/datatypes"
)

var (
	ErrNoFilePart    = common.Errorf(common.ErrBadRequest, "No file part in the request")
	ErrEmptyFilename = common.Errorf(common.ErrBadRequest, "No file selected")
)

const maxFilenameLen = 255

// UploadInput is an uploaded file as received from the client.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type FileService struct {
	projects *ProjectService
	files    audiofiles.Repository
	blobs    storage.BlobStore
	events   EventPublisher
	logger   logging.Logger
}

func NewFileService(projects *ProjectService, files audiofiles.Repository, blobs storage.BlobStore, events EventPublisher, logger logging.Logger) *FileService {
	return &FileService{
		projects: projects,
		files:    files,
		blobs:    blobs,
		events:   publisherOrNop(events),
		logger:   logger,
	}
}

// Upload stores the blob under a fresh unique name and records it on the
// project. The blob is written before the row; if the row cannot be
// written the blob is removed again.
func (s *FileService) Upload(ctx context.Context, projectID, callerID uint, in *UploadInput) (*models.AudioFile, error) {
	if _, err := s.projects.CheckOwnership(ctx, projectID, callerID); err != nil {
		return nil, err
	}

	if in == nil || in.Content == nil {
		return nil, ErrNoFilePart
	}

	if strings.TrimSpace(in.Filename) == "" {
		return nil, ErrEmptyFilename
	}

	if len(in.Filename) > maxFilenameLen {
		return nil, common.Errorf(common.ErrBadRequest, "Filename must be at most %d characters", maxFilenameLen)
	}

	blobName := storage.NewBlobName(in.Filename)

	path, err := s.blobs.Put(ctx, blobName, in.Content)
	if err != nil {
		return nil, fmt.Errorf("error storing blob: %w", err)
	}

	meta, err := json.Marshal(models.AudioFileMetadata{
		ContentType: in.ContentType,
		Size:        in.Size,
		StorageName: blobName,
	})
	if err != nil {
		s.discardBlob(ctx, blobName)
		return nil, fmt.Errorf("error encoding metadata: %w", err)
	}

	file, err := s.files.Create(ctx, &models.AudioFile{
		Name:      in.Filename,
		Path:      path,
		ProjectID: projectID,
		Metadata:  datatypes.JSON(meta),
	})
	if err != nil {
		s.discardBlob(ctx, blobName)
		return nil, fmt.Errorf("error recording file: %w", err)
	}

	s.logger.Info(ctx, "file uploaded",
		"project_id", projectID, "file_id", file.ID, "name", file.Name, "size", in.Size)

	s.events.Publish(projectID, realtime.EventFileUploaded, file.Name)

	return file, nil
}

// List returns the files recorded on projectID, oldest first. Callers check
// access first.
func (s *FileService) List(ctx context.Context, projectID uint) ([]models.AudioFile, error) {
	files, err := s.files.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return files, nil
}

func (s *FileService) discardBlob(ctx context.Context, name string) {
	// the request context may already be done; cleanup must still run
	if err := s.blobs.Delete(context.WithoutCancel(ctx), name); err != nil {
		s.logger.Error(ctx, "failed to remove orphaned blob", "blob", name, "error", err)
	}
}
