package activity

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/securevault/internal/dbx"
	"github.com/dmitrijs2005/securevault/internal/server/models"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Append(ctx context.Context, rec *models.ActivityRecord) (*models.ActivityRecord, error) {
	query :=
		`INSERT INTO activity_log (userid, action, details)
		 VALUES ($1, $2, $3)
		 RETURNING id, ts`

	var ts dbx.Timestamp
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), rec.UserID, rec.Action, rec.Details).Scan(&rec.ID, &ts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	rec.TS = ts.Time

	return rec, nil
}

func (r *SQLRepository) Query(ctx context.Context, userID *string, limit int) ([]*models.ActivityRecord, error) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(`SELECT id, userid, action, details, ts FROM activity_log`)
	if userID != nil {
		args = append(args, *userID)
		sb.WriteString(fmt.Sprintf(` WHERE userid = $%d`, len(args)))
	}
	sb.WriteString(` ORDER BY ts DESC, id DESC`)
	if limit > 0 {
		args = append(args, limit)
		sb.WriteString(fmt.Sprintf(` LIMIT $%d`, len(args)))
	}

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(sb.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.ActivityRecord
	for rows.Next() {
		rec := &models.ActivityRecord{}
		var ts dbx.Timestamp
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Action, &rec.Details, &ts); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		rec.TS = ts.Time
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}
