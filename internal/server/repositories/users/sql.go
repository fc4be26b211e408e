package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/dbx"
	"github.com/dmitrijs2005/securevault/internal/server/models"
)

// SQLRepository works on both SQLite and Postgres; queries are written
// with $N placeholders and rebound for the dialect.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// Create relies on the primary key for uniqueness: a conflicting insert
// affects no rows.
func (r *SQLRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (userid, password, email)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (userid) DO NOTHING`

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), user.UserID, user.PasswordHash, user.Email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorAlreadyExists
	}

	return nil
}

func (r *SQLRepository) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	query :=
		`SELECT userid, password, email FROM users
		 WHERE userid = $1`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), userID).Scan(&user.UserID, &user.PasswordHash, &user.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query :=
		`UPDATE users SET password = $2
		 WHERE userid = $1`

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), userID, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *SQLRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT userid FROM users ORDER BY userid`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}
