package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vrdaw-dev/vrdaw/internal/auth"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/models"
	"github.com/vrdaw-dev/vrdaw/internal/realtime"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/audiofiles"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/collaborations"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/projects"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/users"
	"github.com/vrdaw-dev/vrdaw/internal/storage"
	"github.com/vrdaw-dev/vrdaw/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	uploadDir string
	hub       *realtime.Hub
	issuer    *auth.Issuer

	users    *UserService
	projects *ProjectService
	files    *FileService
	collabs  *CollaborationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := testutil.NewDB(t)
	dir := t.TempDir()
	blobs, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	logger := logging.Discard()
	hub := realtime.NewHub()
	issuer := auth.NewIssuer("test-secret", time.Hour)
	userRepo := users.NewGormRepository(gdb)

	ps := NewProjectService(projects.NewGormRepository(gdb))

	return &testEnv{
		db:        gdb,
		uploadDir: dir,
		hub:       hub,
		issuer:    issuer,
		users:     NewUserService(userRepo, auth.NewPasswordHasher(bcrypt.MinCost), issuer, logger),
		projects:  ps,
		files:     NewFileService(ps, audiofiles.NewGormRepository(gdb), blobs, hub, logger),
		collabs:   NewCollaborationService(ps, userRepo, collaborations.NewGormRepository(gdb), hub, logger),
	}
}

func (e *testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()

	u, err := e.users.Register(context.Background(), RegisterInput{
		Username: username,
		Password: "pw-" + username,
		Email:    username + "@x.com",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) project(t *testing.T, owner *models.User, name string) *models.Project {
	t.Helper()

	p, err := e.projects.Create(context.Background(), owner.ID, name)
	require.NoError(t, err)
	return p
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}
