package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_OverwriteAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.files.Upload(ctx, "alice", "b.txt", []byte("one")))
	require.NoError(t, env.files.Upload(ctx, "alice", "B.txt", []byte("x")))
	require.NoError(t, env.files.Upload(ctx, "alice", "b.txt", []byte("second")))

	names, err := env.files.List(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"B.txt", "b.txt"}, names)

	data, err := env.files.Download(ctx, "alice", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	recs := env.all(t)
	require.Len(t, recs, 3)
	assert.Equal(t, models.ActionUpload, recs[0].Action)
	assert.Equal(t, "Uploaded b.txt", recs[0].DetailsOrEmpty())
}

func TestList_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, n := range []string{"Report.pdf", "notes.txt", "old_report.txt"} {
		require.NoError(t, env.files.Upload(ctx, "alice", n, nil))
	}

	names, err := env.files.List(ctx, "alice", "REPORT")
	require.NoError(t, err)
	assert.Equal(t, []string{"Report.pdf", "old_report.txt"}, names)

	names, err = env.files.List(ctx, "alice", "zzz")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestList_IsolatedPerOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.files.Upload(ctx, "alice", "secret.txt", []byte("s")))

	names, err := env.files.List(ctx, "bob", "")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = env.files.Download(ctx, "bob", "secret.txt")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestRename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.files.Upload(ctx, "alice", "a.txt", []byte("a")))
	require.NoError(t, env.files.Upload(ctx, "alice", "b.txt", []byte("b")))

	err := env.files.Rename(ctx, "alice", "a.txt", "b.txt")
	assert.True(t, errors.Is(err, common.ErrorAlreadyExists), "got %v", err)

	err = env.files.Rename(ctx, "alice", "missing.txt", "c.txt")
	assert.True(t, errors.Is(err, common.ErrorNotFound), "got %v", err)

	err = env.files.Rename(ctx, "alice", "a.txt", "../escape")
	assert.True(t, errors.Is(err, common.ErrorInvalidInput), "got %v", err)

	before := len(env.all(t))
	require.NoError(t, env.files.Rename(ctx, "alice", "a.txt", "c.txt"))

	names, err := env.files.List(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "c.txt"}, names)

	recs := env.all(t)
	require.Len(t, recs, before+1, "failed renames are not logged")
	assert.Equal(t, models.ActionRename, recs[0].Action)
	assert.Equal(t, "a.txt → c.txt", recs[0].DetailsOrEmpty())
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.files.Upload(ctx, "alice", "a.txt", []byte("a")))
	require.NoError(t, env.files.Delete(ctx, "alice", "a.txt"))

	err := env.files.Delete(ctx, "alice", "a.txt")
	assert.True(t, errors.Is(err, common.ErrorNotFound), "got %v", err)

	recs := env.all(t)
	require.Len(t, recs, 2)
	assert.Equal(t, models.ActionDelete, recs[0].Action)
	assert.Equal(t, "Deleted a.txt", recs[0].DetailsOrEmpty())
}

func TestUsage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.files.Usage(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.Usage{}, u)

	require.NoError(t, env.files.Upload(ctx, "alice", "a", make([]byte, 1024)))
	require.NoError(t, env.files.Upload(ctx, "alice", "b", make([]byte, 2048)))

	u, err = env.files.Usage(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, u.FileCount)
	assert.Equal(t, int64(3072), u.TotalBytes)
	assert.InDelta(t, 3072.0/(200*1024*1024)*100, u.Percent(), 1e-9)
}

func TestAdminBrowse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.files.Upload(ctx, "bob", "x", nil))
	require.NoError(t, env.files.Upload(ctx, "alice", "y", nil))
	require.NoError(t, env.files.Upload(ctx, "alice", "a", nil))

	owners, err := env.files.ListAllOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, owners)

	files, err := env.files.ListFilesOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "y"}, files)
}

func TestAdminBrowse_UnknownOwnerLeavesNoNamespace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.files.Upload(ctx, "bob", "x", nil))

	files, err := env.files.ListFilesOf(ctx, "bbo")
	require.NoError(t, err)
	assert.Empty(t, files)

	u, err := env.files.Usage(ctx, "bbo")
	require.NoError(t, err)
	assert.Zero(t, u.FileCount)

	owners, err := env.files.ListAllOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, owners)
}

func TestFileNames_Validated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		assert.True(t, errors.Is(env.files.Upload(ctx, "alice", name, nil), common.ErrorInvalidInput), name)
		assert.True(t, errors.Is(env.files.Delete(ctx, "alice", name), common.ErrorInvalidInput), name)
	}
	_, err := env.files.List(ctx, "../alice", "")
	assert.True(t, errors.Is(err, common.ErrorInvalidInput))
	assert.Empty(t, env.all(t))
}

// signup, login and upload leave three records, newest first, and the file
// is listed.
func TestScenario_SignupLoginUpload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.creds.CreateAccount(ctx, "alice", "a@x", "pw"))
	id, err := env.creds.Authenticate(ctx, "alice", "pw")
	require.NoError(t, err)
	require.NoError(t, env.files.Upload(ctx, id, "a.txt", []byte("hi")))

	names, err := env.files.List(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, names)

	recs, err := env.activity.Recent(ctx, "alice", 0)
	require.NoError(t, err)
	var actions []string
	for _, r := range recs {
		actions = append(actions, r.Action)
	}
	assert.Equal(t, []string{models.ActionUpload, models.ActionLogin, models.ActionSignup}, actions)
}
