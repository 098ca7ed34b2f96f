package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// documentRepo implements DocumentRepo on the kv_entries table.
type documentRepo struct {
	drv *entsql.Driver
}

func (r *documentRepo) Get(ctx context.Context, key string) ([]byte, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("value").
		From(b.Table(kvEntriesTable.Name)).
		Where(entsql.EQ("key", key)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get %q: %w", key, err)
		}
		return nil, ErrNotFound
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return nil, fmt.Errorf("scan %q: %w", key, err)
	}
	return []byte(value), nil
}

func (r *documentRepo) Put(ctx context.Context, key string, value []byte) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(kvEntriesTable.Name).
		Columns("key", "value", "updated_at").
		Values(key, string(value), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(kvEntriesTable.Name).
		Where(entsql.EQ("key", key)).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
