// Package filestore keeps uploaded files in per-owner namespaces. Every
// backend maps (owner, filename) to exactly one blob; namespaces appear on
// first upload.
package filestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/server/models"
)

// Backend is the storage contract shared by the local and S3 stores.
// Missing files are reported as common.ErrorNotFound; storage failures wrap
// common.ErrorBackendUnavailable.
type Backend interface {
	Put(ctx context.Context, owner, name string, content []byte) error
	Get(ctx context.Context, owner, name string) ([]byte, error)
	Exists(ctx context.Context, owner, name string) (bool, error)
	// List returns the owner's files sorted by name; an unknown owner has
	// no files.
	List(ctx context.Context, owner string) ([]models.FileInfo, error)
	Rename(ctx context.Context, owner, oldName, newName string) error
	Delete(ctx context.Context, owner, name string) error
	// Owners returns every namespace that exists, sorted.
	Owners(ctx context.Context) ([]string, error)
}

// ValidateName accepts names that are exactly one path segment.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: name %q is not allowed", common.ErrorInvalidInput, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: name %q must not contain path separators", common.ErrorInvalidInput, name)
	}
	return nil
}

// ValidateOwner is ValidateName that also refuses the local staging area.
func ValidateOwner(owner string) error {
	if err := ValidateName(owner); err != nil {
		return err
	}
	if owner == StagingDir {
		return fmt.Errorf("%w: owner %q is reserved", common.ErrorInvalidInput, owner)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrorBackendUnavailable, err)
}
