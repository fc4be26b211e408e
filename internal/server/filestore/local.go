package filestore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/filex"
	"github.com/dmitrijs2005/securevault/internal/server/models"
)

// StagingDir is the directory under the local root that holds uploads in
// flight. It is never reported as an owner and is not a valid userid.
const StagingDir = ".staging"

// LocalBackend stores <root>/<owner>/<filename> on the local filesystem.
// Writes are staged in <root>/.staging and renamed into the namespace, so a
// partial upload never shows up in List.
type LocalBackend struct {
	root    string
	staging string
}

func NewLocalBackend(root string) (*LocalBackend, error) {
	abs, err := filex.EnsureDir(root)
	if err != nil {
		return nil, unavailable("init upload root", err)
	}
	staging, err := filex.EnsureDir(filepath.Join(abs, StagingDir))
	if err != nil {
		return nil, unavailable("init staging dir", err)
	}
	return &LocalBackend{root: abs, staging: staging}, nil
}

func (b *LocalBackend) Root() string { return b.root }

func (b *LocalBackend) namespace(owner string) string {
	return filepath.Join(b.root, owner)
}

func (b *LocalBackend) ensureNamespace(owner string) (string, error) {
	dir := b.namespace(owner)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", unavailable("create namespace", err)
	}
	return dir, nil
}

func (b *LocalBackend) Put(_ context.Context, owner, name string, content []byte) error {
	dir, err := b.ensureNamespace(owner)
	if err != nil {
		return err
	}
	if err := filex.WriteFileStaged(filepath.Join(dir, name), b.staging, content, 0o640); err != nil {
		return unavailable("write file", err)
	}
	return nil
}

func (b *LocalBackend) Get(_ context.Context, owner, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(b.namespace(owner), name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, unavailable("read file", err)
	}
	return data, nil
}

func (b *LocalBackend) Exists(_ context.Context, owner, name string) (bool, error) {
	ok, err := filex.Exists(filepath.Join(b.namespace(owner), name))
	if err != nil {
		return false, unavailable("stat file", err)
	}
	return ok, nil
}

// List never creates the namespace: a missing directory is an owner with no
// files.
func (b *LocalBackend) List(_ context.Context, owner string) ([]models.FileInfo, error) {
	entries, err := os.ReadDir(b.namespace(owner))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.FileInfo{}, nil
		}
		return nil, unavailable("list files", err)
	}

	files := make([]models.FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		files = append(files, models.FileInfo{Name: e.Name(), Size: info.Size()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	return files, nil
}

func (b *LocalBackend) Rename(_ context.Context, owner, oldName, newName string) error {
	dir := b.namespace(owner)
	if err := os.Rename(filepath.Join(dir, oldName), filepath.Join(dir, newName)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrorNotFound
		}
		return unavailable("rename file", err)
	}
	return nil
}

func (b *LocalBackend) Delete(_ context.Context, owner, name string) error {
	if err := os.Remove(filepath.Join(b.namespace(owner), name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrorNotFound
		}
		return unavailable("delete file", err)
	}
	return nil
}

func (b *LocalBackend) Owners(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, unavailable("list owners", err)
	}

	var owners []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != StagingDir {
			owners = append(owners, e.Name())
		}
	}
	sort.Strings(owners)

	return owners, nil
}
