package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/filex"
)

// Upload stores the local file at path under its base name, replacing any
// existing file with that name.
func (a *App) Upload(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("usage: upload <path>: %w", common.ErrorInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	if err := a.client.Upload(ctx, name, data); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded: %s\n", name)
	return nil
}

// Files lists own files, optionally filtered by a case-insensitive
// substring.
func (a *App) Files(ctx context.Context, search string) error {
	files, err := a.client.ListFiles(ctx, search)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Total Files: %d\n", len(files))
	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files found.")
		return nil
	}
	for _, f := range files {
		fmt.Fprintf(a.out, "  %s\n", f)
	}
	return nil
}

// Download fetches a file and writes it to dest. An empty dest means the
// configured download directory; a directory dest keeps the file name.
func (a *App) Download(ctx context.Context, name, dest string) error {
	if name == "" {
		return fmt.Errorf("usage: download <name> [dest]: %w", common.ErrorInvalidInput)
	}

	content, err := a.client.Download(ctx, name)
	if err != nil {
		return err
	}

	path, err := a.destination(dest, name)
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(path, content, 0o600); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}

func (a *App) Rename(ctx context.Context, oldName, newName string) error {
	if oldName == "" || newName == "" {
		return fmt.Errorf("usage: rename <old> <new>: %w", common.ErrorInvalidInput)
	}
	if err := a.client.Rename(ctx, oldName, newName); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Renamed %s to %s\n", oldName, newName)
	return nil
}

func (a *App) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("usage: delete <name>: %w", common.ErrorInvalidInput)
	}
	if err := a.client.Delete(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", name)
	return nil
}

// destination resolves where a downloaded artifact is written and makes
// sure its directory exists.
func (a *App) destination(dest, name string) (string, error) {
	if dest == "" {
		dest = filepath.Join(a.config.DownloadDir, name)
	} else if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		dest = filepath.Join(dest, name)
	}
	if _, err := filex.EnsureDir(filepath.Dir(dest)); err != nil {
		return "", err
	}
	return dest, nil
}
