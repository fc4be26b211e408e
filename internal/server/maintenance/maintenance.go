// Package maintenance implements the offline operator tasks: bulk password
// resets and CSV dumps of the database tables.
package maintenance

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/dbx"
	"github.com/dmitrijs2005/securevault/internal/filex"
	"github.com/dmitrijs2005/securevault/internal/server/models"
)

const (
	PasswordLength = 12
	PasswordsFile  = "passwords.csv"
)

// Tables that may be dumped. Table names cannot be bound as parameters, so
// only these are accepted.
var Tables = []string{"users", "activity_log"}

type PasswordResetter interface {
	ResetAllPasswords(ctx context.Context, generate func() (string, error)) ([]models.Credential, error)
}

// ResetPasswords gives every account a fresh random password and writes the
// userid,password mapping to out with owner-only permissions.
func ResetPasswords(ctx context.Context, r PasswordResetter, out string) (int, error) {
	creds, err := r.ResetAllPasswords(ctx, func() (string, error) {
		return common.GeneratePassword(PasswordLength)
	})
	if err != nil {
		return 0, err
	}

	rows := make([][]string, 0, len(creds)+1)
	rows = append(rows, []string{"userid", "password"})
	for _, c := range creds {
		rows = append(rows, []string{c.UserID, c.Password})
	}

	data, err := encode(rows)
	if err != nil {
		return 0, err
	}
	if err := filex.WriteFileAtomic(out, data, 0o600); err != nil {
		return 0, err
	}

	return len(creds), nil
}

// ExportTables writes each table to <dir>/<table>.csv with the column names
// as header and returns the written paths.
func ExportTables(ctx context.Context, db dbx.DBTX, dir string, tables []string) ([]string, error) {
	for _, t := range tables {
		if !allowed(t) {
			return nil, fmt.Errorf("table %q: %w", t, common.ErrorInvalidInput)
		}
	}

	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		rows, err := dumpTable(ctx, db, t)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", t, err)
		}
		data, err := encode(rows)
		if err != nil {
			return nil, err
		}

		p := filepath.Join(abs, t+".csv")
		if err := filex.WriteFileAtomic(p, data, 0o640); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}

	return paths, nil
}

func allowed(table string) bool {
	for _, t := range Tables {
		if t == table {
			return true
		}
	}
	return false
}

func dumpTable(ctx context.Context, db dbx.DBTX, table string) ([][]string, error) {
	rs, err := db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	cols, err := rs.Columns()
	if err != nil {
		return nil, err
	}

	out := [][]string{cols}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rs.Next() {
		if err := rs.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = cell(v)
		}
		out = append(out, row)
	}

	return out, rs.Err()
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.UTC().Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}

func encode(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
