package pgstore

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/wirekit/pkg/pg"
	"github.com/dmitrymomot/wirekit/store"
)

// Migrations holds the schema for the accounts and sessions tables.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that goose reads.
const MigrationsDir = "migrations"

// DB is the subset of pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type column struct {
	name string
	uuid bool
}

// where renders filter as a conjunction of placeholders. Fields are visited
// in sorted order so the generated SQL is stable.
func where(filter store.Filter, columns map[string]column) (string, []any, error) {
	allowed := make([]string, 0, len(columns))
	for k := range columns {
		allowed = append(allowed, k)
	}
	if err := filter.Only(allowed...); err != nil {
		return "", nil, err
	}

	conds := make([]string, 0, len(filter))
	args := make([]any, 0, len(filter))
	for _, field := range filter.Fields() {
		col := columns[field]
		value := fmt.Sprint(filter[field])
		if col.uuid {
			id, err := uuid.Parse(value)
			if err != nil {
				return "", nil, fmt.Errorf("%w: %s is not a uuid", store.ErrNotFound, field)
			}
			args = append(args, id)
		} else {
			args = append(args, value)
		}
		conds = append(conds, fmt.Sprintf("%s = $%d", col.name, len(args)))
	}
	return strings.Join(conds, " AND "), args, nil
}

// classify maps driver errors onto the store sentinels.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case pg.IsNotFoundError(err):
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	case pg.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w: %w", op, store.ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func affected(op string, tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}
	return nil
}
