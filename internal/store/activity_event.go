package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var activityEventColumns = []string{
	"id", "sequence", "timestamp", "kind", "story_id", "title",
	"subject", "grade", "score", "total", "xp_delta",
}

func (r *EventStore) AppendActivity(ctx context.Context, data ActivityEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(activityEventsTable.Name).
		Columns(activityEventColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(), data.Kind, data.StoryID, data.Title,
			data.Subject, data.Grade, data.Score, data.Total, data.XPDelta,
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save activity event: %w", err)
	}
	return nil
}

// QueryActivity returns activity events newest first.
func (r *EventStore) QueryActivity(ctx context.Context, opts QueryOpts) ([]ActivityEvent, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(activityEventColumns...).
		From(b.Table(activityEventsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var out []ActivityEvent
	for rows.Next() {
		var e ActivityEvent
		err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp, &e.Kind, &e.StoryID, &e.Title,
			&e.Subject, &e.Grade, &e.Score, &e.Total, &e.XPDelta,
		)
		if err != nil {
			return nil, fmt.Errorf("scan activity event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
