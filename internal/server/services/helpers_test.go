package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/securevault/internal/cryptox"
	"github.com/dmitrijs2005/securevault/internal/dbx"
	"github.com/dmitrijs2005/securevault/internal/logging"
	"github.com/dmitrijs2005/securevault/internal/server/filestore"
	"github.com/dmitrijs2005/securevault/internal/server/metrics"
	"github.com/dmitrijs2005/securevault/internal/server/models"
	"github.com/dmitrijs2005/securevault/internal/server/repositories/activity"
	"github.com/dmitrijs2005/securevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/securevault/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	metrics  *metrics.Metrics
	activity *ActivityService
	creds    *CredentialService
	files    *FileService
	backend  *filestore.LocalBackend
}

// newTestEnv wires the services over a migrated SQLite file and a temp
// upload root.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nil)
}

func newTestEnvWith(t *testing.T, wrap func(repomanager.RepositoryManager) repomanager.RepositoryManager) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := dbx.Open(dbx.DialectSQLite, filepath.Join(dir, "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var rm repomanager.RepositoryManager = repomanager.NewRepositoryManager(dbx.DialectSQLite)
	require.NoError(t, rm.RunMigrations(context.Background(), db))
	if wrap != nil {
		rm = wrap(rm)
	}

	backend, err := filestore.NewLocalBackend(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	mtr := metrics.New()
	act := NewActivityService(db, rm, logging.Nop(), mtr)

	return &testEnv{
		db:       db,
		rm:       rm,
		metrics:  mtr,
		activity: act,
		creds:    NewCredentialService(db, rm, cryptox.SHA256Hasher{}, act, logging.Nop()),
		files:    NewFileService(backend, act, logging.Nop()),
		backend:  backend,
	}
}

// all returns every activity record, newest first.
func (e *testEnv) all(t *testing.T) []*models.ActivityRecord {
	t.Helper()
	recs, err := e.activity.Query(context.Background(), nil, 0)
	require.NoError(t, err)
	return recs
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// failingActivityManager delegates to a real manager but breaks appends.
type failingActivityManager struct {
	repomanager.RepositoryManager
}

func (m failingActivityManager) Activity(db dbx.DBTX) activity.Repository {
	return failingActivityRepo{}
}

type failingActivityRepo struct{}

func (failingActivityRepo) Append(context.Context, *models.ActivityRecord) (*models.ActivityRecord, error) {
	return nil, errors.New("disk I/O error")
}

func (failingActivityRepo) Query(context.Context, *string, int) ([]*models.ActivityRecord, error) {
	return nil, errors.New("disk I/O error")
}

// brokenUsersManager makes every users query fail.
type brokenUsersManager struct {
	repomanager.RepositoryManager
}

func (m brokenUsersManager) Users(db dbx.DBTX) users.Repository { return brokenUsersRepo{} }

type brokenUsersRepo struct{}

func (brokenUsersRepo) Create(context.Context, *models.User) error { return errBoom{} }
func (brokenUsersRepo) GetByUserID(context.Context, string) (*models.User, error) {
	return nil, errBoom{}
}
func (brokenUsersRepo) UpdatePassword(context.Context, string, string) error { return errBoom{} }
func (brokenUsersRepo) ListUserIDs(context.Context) ([]string, error)        { return nil, errBoom{} }
