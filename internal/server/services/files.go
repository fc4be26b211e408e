package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/logging"
	"github.com/dmitrijs2005/securevault/internal/server/filestore"
	"github.com/dmitrijs2005/securevault/internal/server/models"
)

// FileService manages each owner's files on top of a filestore.Backend and
// records every mutation in the activity log.
type FileService struct {
	backend  filestore.Backend
	activity *ActivityService
	logger   logging.Logger
}

func NewFileService(backend filestore.Backend, activity *ActivityService, logger logging.Logger) *FileService {
	return &FileService{
		backend:  backend,
		activity: activity,
		logger:   logger.With("module", "files"),
	}
}

// Upload stores content as owner/filename, replacing an existing file of
// the same name.
func (s *FileService) Upload(ctx context.Context, owner, filename string, content []byte) error {
	if err := validatePair(owner, filename); err != nil {
		return err
	}

	if err := s.backend.Put(ctx, owner, filename, content); err != nil {
		return backendError("upload", err)
	}

	s.logger.Debug(ctx, "file uploaded", "owner", owner, "name", filename, "size", len(content))
	s.activity.Record(ctx, owner, models.ActionUpload, "Uploaded "+filename)
	return nil
}

// List returns the owner's filenames in lexicographic order, keeping only
// names containing search (case-insensitive) when search is non-empty.
func (s *FileService) List(ctx context.Context, owner, search string) ([]string, error) {
	files, err := s.files(ctx, owner)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(search)
	names := make([]string, 0, len(files))
	for _, f := range files {
		if needle == "" || strings.Contains(strings.ToLower(f.Name), needle) {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)

	return names, nil
}

func (s *FileService) Download(ctx context.Context, owner, filename string) ([]byte, error) {
	if err := validatePair(owner, filename); err != nil {
		return nil, err
	}

	data, err := s.backend.Get(ctx, owner, filename)
	if err != nil {
		return nil, backendError("download", err)
	}
	return data, nil
}

// Rename fails with common.ErrorNotFound when oldName is missing and
// common.ErrorAlreadyExists when newName is taken.
func (s *FileService) Rename(ctx context.Context, owner, oldName, newName string) error {
	if err := validatePair(owner, oldName); err != nil {
		return err
	}
	if err := filestore.ValidateName(newName); err != nil {
		return err
	}

	ok, err := s.backend.Exists(ctx, owner, oldName)
	if err != nil {
		return backendError("rename", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrorNotFound, oldName)
	}

	if oldName != newName {
		taken, err := s.backend.Exists(ctx, owner, newName)
		if err != nil {
			return backendError("rename", err)
		}
		if taken {
			return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, newName)
		}
	}

	if err := s.backend.Rename(ctx, owner, oldName, newName); err != nil {
		return backendError("rename", err)
	}

	s.activity.Record(ctx, owner, models.ActionRename, oldName+" → "+newName)
	return nil
}

func (s *FileService) Delete(ctx context.Context, owner, filename string) error {
	if err := validatePair(owner, filename); err != nil {
		return err
	}

	if err := s.backend.Delete(ctx, owner, filename); err != nil {
		return backendError("delete", err)
	}

	s.activity.Record(ctx, owner, models.ActionDelete, "Deleted "+filename)
	return nil
}

func (s *FileService) Usage(ctx context.Context, owner string) (models.Usage, error) {
	files, err := s.files(ctx, owner)
	if err != nil {
		return models.Usage{}, err
	}

	u := models.Usage{FileCount: len(files)}
	for _, f := range files {
		u.TotalBytes += f.Size
	}
	return u, nil
}

// ListAllOwners returns every namespace that exists. Authorization is the
// caller's job.
func (s *FileService) ListAllOwners(ctx context.Context) ([]string, error) {
	owners, err := s.backend.Owners(ctx)
	if err != nil {
		return nil, backendError("list owners", err)
	}
	return owners, nil
}

func (s *FileService) ListFilesOf(ctx context.Context, owner string) ([]string, error) {
	return s.List(ctx, owner, "")
}

func (s *FileService) files(ctx context.Context, owner string) ([]models.FileInfo, error) {
	if err := filestore.ValidateOwner(owner); err != nil {
		return nil, err
	}
	files, err := s.backend.List(ctx, owner)
	if err != nil {
		return nil, backendError("list files", err)
	}
	return files, nil
}

func validatePair(owner, filename string) error {
	if err := filestore.ValidateOwner(owner); err != nil {
		return err
	}
	return filestore.ValidateName(filename)
}
