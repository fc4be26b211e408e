// Package users persists accounts in the users table.
package users

import (
	"context"

	"github.com/dmitrijs2005/securevault/internal/server/models"
)

type Repository interface {
	// Create inserts a new account; common.ErrorAlreadyExists when the
	// userid is taken.
	Create(ctx context.Context, user *models.User) error
	// GetByUserID returns common.ErrorNotFound for unknown userids.
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
	// UpdatePassword returns common.ErrorNotFound for unknown userids.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	// ListUserIDs returns all userids in ascending order.
	ListUserIDs(ctx context.Context) ([]string, error)
}
