package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrdaw-dev/vrdaw/internal/common"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/models"
	"github.com/vrdaw-dev/vrdaw/internal/realtime"
	"github.com/vrdaw-dev/vrdaw/internal/storage"
)

func wavUpload(name string) *UploadInput {
	return &UploadInput{
		Filename:    name,
		ContentType: "audio/wav",
		Size:        4,
		Content:     strings.NewReader("RIFF"),
	}
}

func TestUpload_StoresBlobAndRow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	p := env.project(t, alice, "Song1")

	events, cancel := env.hub.Subscribe(p.ID)
	defer cancel()

	f, err := env.files.Upload(context.Background(), p.ID, alice.ID, wavUpload("Kick Drum.WAV"))
	require.NoError(t, err)

	assert.Equal(t, "Kick Drum.WAV", f.Name)
	assert.Equal(t, p.ID, f.ProjectID)
	assert.Equal(t, env.uploadDir, filepath.Dir(f.Path))
	assert.Equal(t, ".wav", filepath.Ext(f.Path))
	assert.NotContains(t, f.Path, "Kick")

	data, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data))

	var meta models.AudioFileMetadata
	require.NoError(t, json.Unmarshal(f.Metadata, &meta))
	assert.Equal(t, "audio/wav", meta.ContentType)
	assert.Equal(t, int64(4), meta.Size)
	assert.Equal(t, filepath.Base(f.Path), meta.StorageName)

	select {
	case ev := <-events:
		assert.Equal(t, realtime.EventFileUploaded, ev.Type)
		assert.Equal(t, "Kick Drum.WAV", ev.Message)
	default:
		t.Fatal("expected a file_uploaded event")
	}
}

func TestUpload_UniqueStorageNames(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	p := env.project(t, alice, "Song1")

	a, err := env.files.Upload(context.Background(), p.ID, alice.ID, wavUpload("take.wav"))
	require.NoError(t, err)
	b, err := env.files.Upload(context.Background(), p.ID, alice.ID, wavUpload("take.wav"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path)
	assert.Equal(t, a.Name, b.Name)
}

func TestUpload_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	p := env.project(t, alice, "Song1")
	ctx := context.Background()

	_, err := env.files.Upload(ctx, p.ID, alice.ID, nil)
	assert.ErrorIs(t, err, ErrNoFilePart)

	_, err = env.files.Upload(ctx, p.ID, alice.ID, &UploadInput{Filename: "x.wav"})
	assert.ErrorIs(t, err, ErrNoFilePart)

	_, err = env.files.Upload(ctx, p.ID, alice.ID, wavUpload(""))
	assert.ErrorIs(t, err, common.ErrBadRequest)

	_, err = env.files.Upload(ctx, p.ID, alice.ID, wavUpload(strings.Repeat("a", 300)+".wav"))
	assert.ErrorIs(t, err, common.ErrBadRequest)

	assert.Zero(t, env.count(t, &models.AudioFile{}))

	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpload_Ownership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	p := env.project(t, alice, "Song1")
	ctx := context.Background()

	_, err := env.files.Upload(ctx, p.ID, bob.ID, wavUpload("x.wav"))
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = env.files.Upload(ctx, p.ID+1, alice.ID, wavUpload("x.wav"))
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.Zero(t, env.count(t, &models.AudioFile{}))
}

type failingFiles struct{}

func (failingFiles) Create(context.Context, *models.AudioFile) (*models.AudioFile, error) {
	return nil, errors.New("disk full")
}

func (failingFiles) ListByProject(context.Context, uint) ([]models.AudioFile, error) {
	return nil, nil
}

func TestUpload_RowFailureRemovesBlob(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	p := env.project(t, alice, "Song1")

	blobs, err := storage.NewLocalStore(env.uploadDir)
	require.NoError(t, err)
	svc := NewFileService(env.projects, failingFiles{}, blobs, nil, logging.Discard())

	_, err = svc.Upload(context.Background(), p.ID, alice.ID, wavUpload("x.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "blob must not outlive a failed insert")
}

func TestList_ReturnsProjectFilesInOrder(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	song1 := env.project(t, alice, "Song1")
	song2 := env.project(t, alice, "Song2")
	ctx := context.Background()

	_, err := env.files.Upload(ctx, song1.ID, alice.ID, wavUpload("a.wav"))
	require.NoError(t, err)
	_, err = env.files.Upload(ctx, song2.ID, alice.ID, wavUpload("other.wav"))
	require.NoError(t, err)
	_, err = env.files.Upload(ctx, song1.ID, alice.ID, wavUpload("b.wav"))
	require.NoError(t, err)

	files, err := env.files.List(ctx, song1.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.wav", files[0].Name)
	assert.Equal(t, "b.wav", files[1].Name)

	files, err = env.files.List(ctx, song2.ID+1)
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}
