package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	pb "github.com/dmitrijs2005/securevault/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "report.bin")
	require.NoError(t, os.WriteFile(fp, []byte{1, 2, 3}, 0o600))

	fc := &fakeClient{}
	app, out := newTestApp(fc, "")

	require.NoError(t, app.Upload(context.Background(), fp))
	assert.Equal(t, []byte{1, 2, 3}, fc.upload["report.bin"])
	assert.Contains(t, out.String(), "Uploaded: report.bin")

	assert.ErrorIs(t, app.Upload(context.Background(), ""), common.ErrorInvalidInput)
	assert.Error(t, app.Upload(context.Background(), filepath.Join(t.TempDir(), "missing")))
}

func TestFiles(t *testing.T) {
	fc := &fakeClient{files: []string{"B.txt", "b.txt"}}
	app, out := newTestApp(fc, "")

	require.NoError(t, app.Files(context.Background(), "txt"))
	assert.Equal(t, "txt", fc.search)
	assert.Contains(t, out.String(), "Total Files: 2")
	assert.Contains(t, out.String(), "  B.txt\n  b.txt\n")

	fc.files = nil
	out.Reset()
	require.NoError(t, app.Files(context.Background(), ""))
	assert.Contains(t, out.String(), "No files found.")
}

func TestDownload(t *testing.T) {
	dir := t.TempDir()
	fc := &fakeClient{content: []byte("hello")}
	app, _ := newTestApp(fc, "")
	app.config.DownloadDir = filepath.Join(dir, "downloads")

	require.NoError(t, app.Download(context.Background(), "a.txt", ""))
	got, err := os.ReadFile(filepath.Join(dir, "downloads", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	require.NoError(t, app.Download(context.Background(), "a.txt", dir))
	_, err = os.Stat(filepath.Join(dir, "a.txt"))
	assert.NoError(t, err)

	require.NoError(t, app.Download(context.Background(), "a.txt", filepath.Join(dir, "copy.txt")))
	_, err = os.Stat(filepath.Join(dir, "copy.txt"))
	assert.NoError(t, err)

	assert.ErrorIs(t, app.Download(context.Background(), "", ""), common.ErrorInvalidInput)
}

func TestDownload_ErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	fc := &fakeClient{err: common.ErrorNotFound}
	app, _ := newTestApp(fc, "")
	app.config.DownloadDir = dir

	assert.ErrorIs(t, app.Download(context.Background(), "a.txt", ""), common.ErrorNotFound)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRenameAndDelete(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(fc, "")

	require.NoError(t, app.Rename(context.Background(), "a.txt", "c.txt"))
	assert.Equal(t, [2]string{"a.txt", "c.txt"}, fc.renamed)
	assert.Contains(t, out.String(), "Renamed a.txt to c.txt")

	require.NoError(t, app.Delete(context.Background(), "c.txt"))
	assert.Equal(t, "c.txt", fc.deleted)

	assert.ErrorIs(t, app.Rename(context.Background(), "a.txt", ""), common.ErrorInvalidInput)
	assert.ErrorIs(t, app.Delete(context.Background(), ""), common.ErrorInvalidInput)
}

func TestAccount(t *testing.T) {
	fc := &fakeClient{account: &pb.AccountResponse{
		UserID: "alice", Email: "a@x.io", FileCount: 2,
		UsedMB: 1.5, LimitMB: 200, UsedPercent: 0.75,
		Recent: []*pb.ActivityEntry{
			{Action: "upload", Details: "Uploaded a.txt", TS: time.Now()},
		},
	}}
	app, out := newTestApp(fc, "")

	require.NoError(t, app.Account(context.Background()))
	s := out.String()
	assert.Contains(t, s, "User ID: alice")
	assert.Contains(t, s, "Files:   2")
	assert.Contains(t, s, "Storage: 1.50 MB of 200 MB (0.8%)")
	assert.Contains(t, s, "| upload | Uploaded a.txt")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()

	t.Run("document", func(t *testing.T) {
		fc := &fakeClient{exportR: &pb.ExportActivityResponse{Content: []byte("%PDF"), Extension: "pdf"}}
		app, out := newTestApp(fc, "")
		app.config.DownloadDir = dir

		require.NoError(t, app.Export(context.Background(), nil))
		assert.Equal(t, &pb.ExportActivityRequest{Format: pb.FormatDocument}, fc.export)
		_, err := os.Stat(filepath.Join(dir, "activity_log.pdf"))
		assert.NoError(t, err)
		assert.NotContains(t, out.String(), "instead")
	})

	t.Run("csv all to dest", func(t *testing.T) {
		fc := &fakeClient{exportR: &pb.ExportActivityResponse{Content: []byte("a,b\n"), Extension: "csv"}}
		app, _ := newTestApp(fc, "")
		dest := filepath.Join(dir, "all.csv")

		require.NoError(t, app.Export(context.Background(), []string{"CSV", "all", dest}))
		assert.Equal(t, &pb.ExportActivityRequest{Format: pb.FormatCSV, All: true}, fc.export)
		_, err := os.Stat(dest)
		assert.NoError(t, err)
	})

	t.Run("substituted", func(t *testing.T) {
		fc := &fakeClient{exportR: &pb.ExportActivityResponse{Content: []byte("a,b\n"), Extension: "csv", Substituted: true}}
		app, out := newTestApp(fc, "")

		require.NoError(t, app.Export(context.Background(), []string{"pdf", filepath.Join(dir, "mine.pdf")}))
		assert.Contains(t, out.String(), "exported as CSV instead")
		_, err := os.Stat(filepath.Join(dir, "mine.csv"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "mine.pdf"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("forbidden", func(t *testing.T) {
		fc := &fakeClient{err: common.ErrorForbidden}
		app, _ := newTestApp(fc, "")
		assert.ErrorIs(t, app.Export(context.Background(), []string{"all"}), common.ErrorForbidden)
	})
}

func stubMultiline(t *testing.T, text string) {
	t.Helper()
	orig := getMultiline
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return text, nil }
	t.Cleanup(func() { getMultiline = orig })
}

func TestSupport(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(fc, "")
	stubInputs(t, nil, "2")
	stubMultiline(t, "cannot upload")

	require.NoError(t, app.Support(context.Background()))
	assert.Equal(t, [2]string{"Upload Issue", "cannot upload"}, fc.support)
	assert.Contains(t, out.String(), "Support request sent.")
}

func TestSupport_EmptyMessage(t *testing.T) {
	fc := &fakeClient{}
	app, _ := newTestApp(fc, "")
	stubInputs(t, nil, "bug")
	stubMultiline(t, "   ")

	assert.ErrorIs(t, app.Support(context.Background()), common.ErrorInvalidInput)
	assert.Empty(t, fc.calls)
}

func TestIssueType(t *testing.T) {
	for in, want := range map[string]string{
		"1":            "Login Issue",
		"4":            "Other",
		"bug":          "Bug",
		"upload issue": "Upload Issue",
	} {
		got, err := issueType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "0", "5", "billing"} {
		_, err := issueType(in)
		assert.ErrorIs(t, err, common.ErrorInvalidInput, in)
	}
}

func TestAdmin(t *testing.T) {
	fc := &fakeClient{owners: []string{"alice", "bob"}, files: []string{"x.txt"}}
	app, out := newTestApp(fc, "")

	require.NoError(t, app.Admin(context.Background(), ""))
	assert.Contains(t, out.String(), "Users with files: 2")

	require.NoError(t, app.Admin(context.Background(), "bob"))
	assert.Equal(t, "bob", fc.owner)
	assert.Contains(t, out.String(), "Files of bob: 1\n  x.txt")
}
