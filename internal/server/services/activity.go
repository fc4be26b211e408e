package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/logging"
	"github.com/dmitrijs2005/securevault/internal/server/metrics"
	"github.com/dmitrijs2005/securevault/internal/server/models"
	"github.com/dmitrijs2005/securevault/internal/server/repositories/repomanager"
)

// ActivityService is the append-only audit trail. IDs and timestamps are
// assigned by the database.
type ActivityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	metrics     *metrics.Metrics
}

func NewActivityService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, mtr *metrics.Metrics) *ActivityService {
	return &ActivityService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "activity"),
		metrics:     mtr,
	}
}

// Append stores one record. userID and details may be nil.
func (s *ActivityService) Append(ctx context.Context, userID *string, action string, details *string) (*models.ActivityRecord, error) {
	if strings.TrimSpace(action) == "" {
		return nil, fmt.Errorf("%w: action must not be empty", common.ErrorInvalidInput)
	}

	rec, err := s.repomanager.Activity(s.db).Append(ctx, &models.ActivityRecord{
		UserID:  userID,
		Action:  action,
		Details: details,
	})
	if err != nil {
		return nil, backendError("append activity", err)
	}

	s.metrics.ActivityAppended(action)
	return rec, nil
}

// Record appends after a primary action has already succeeded. Failures are
// logged and counted but never returned: the caller's action stands. An
// empty userID is stored as NULL.
func (s *ActivityService) Record(ctx context.Context, userID, action, details string) {
	var uid *string
	if userID != "" {
		uid = &userID
	}

	if _, err := s.Append(ctx, uid, action, &details); err != nil {
		s.metrics.ActivityAppendFailed()
		s.logger.Warn(ctx, "activity record lost", "userid", userID, "action", action, "error", err)
	}
}

// Query returns records newest first. A nil userID returns every user's
// records; limit <= 0 means no limit.
func (s *ActivityService) Query(ctx context.Context, userID *string, limit int) ([]*models.ActivityRecord, error) {
	recs, err := s.repomanager.Activity(s.db).Query(ctx, userID, limit)
	if err != nil {
		return nil, backendError("query activity", err)
	}
	return recs, nil
}

// SubmitSupport records a support request as "<type>: <message>", with the
// message cut to 80 characters. Guests pass an empty userID. Unlike Record,
// failures are returned since the record is the request itself.
func (s *ActivityService) SubmitSupport(ctx context.Context, userID, issueType, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("%w: message must not be empty", common.ErrorInvalidInput)
	}

	issueType = strings.TrimSpace(issueType)
	if issueType == "" {
		issueType = "Other"
	}

	var uid *string
	if userID != "" {
		uid = &userID
	}

	details := issueType + ": " + truncateRunes(message, supportMessageLimit)
	_, err := s.Append(ctx, uid, models.ActionSupport, &details)
	return err
}

const supportMessageLimit = 80

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Recent is Query for a single user.
func (s *ActivityService) Recent(ctx context.Context, userID string, limit int) ([]*models.ActivityRecord, error) {
	return s.Query(ctx, &userID, limit)
}
