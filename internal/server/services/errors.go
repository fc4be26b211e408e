// Package services contains server-side business logic: the credential
// store, the activity log and the per-user file store.
package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/securevault/internal/common"
)

// backendError wraps a storage failure so callers can match
// common.ErrorBackendUnavailable while keeping the cause. Domain errors
// pass through untouched.
func backendError(op string, err error) error {
	for _, domain := range []error{
		common.ErrorNotFound,
		common.ErrorAlreadyExists,
		common.ErrorInvalidInput,
		common.ErrorBackendUnavailable,
	} {
		if errors.Is(err, domain) {
			return err
		}
	}
	return fmt.Errorf("%s: %w: %w", op, common.ErrorBackendUnavailable, err)
}
