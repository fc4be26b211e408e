// Package activity persists the append-only audit log in activity_log.
package activity

import (
	"context"

	"github.com/dmitrijs2005/securevault/internal/server/models"
)

type Repository interface {
	// Append stores rec and fills in the database-assigned ID and TS.
	Append(ctx context.Context, rec *models.ActivityRecord) (*models.ActivityRecord, error)
	// Query returns records newest first (ts, then id, descending),
	// optionally restricted to one userid. limit <= 0 means no limit.
	Query(ctx context.Context, userID *string, limit int) ([]*models.ActivityRecord, error)
}
