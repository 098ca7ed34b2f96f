package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table descriptors in the shape entc emits for migrate/schema.go. Every
// event table carries the shared sequence and timestamp columns.

var (
	kvEntriesColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeTime},
	}
	kvEntriesTable = &schema.Table{
		Name:       "kv_entries",
		Columns:    kvEntriesColumns,
		PrimaryKey: []*schema.Column{kvEntriesColumns[0]},
	}

	llmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmRequestEventsColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmRequestEventsColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{llmRequestEventsColumns[9]}},
		},
	}

	activityEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "kind", Type: field.TypeString},
		{Name: "story_id", Type: field.TypeString, Default: ""},
		{Name: "title", Type: field.TypeString, Default: ""},
		{Name: "subject", Type: field.TypeString, Default: ""},
		{Name: "grade", Type: field.TypeString, Default: ""},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "total", Type: field.TypeInt, Default: 0},
		{Name: "xp_delta", Type: field.TypeInt, Default: 0},
	}
	activityEventsTable = &schema.Table{
		Name:       "activity_events",
		Columns:    activityEventsColumns,
		PrimaryKey: []*schema.Column{activityEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "activityevent_timestamp", Columns: []*schema.Column{activityEventsColumns[2]}},
			{Name: "activityevent_kind", Columns: []*schema.Column{activityEventsColumns[3]}},
		},
	}

	tables = []*schema.Table{
		kvEntriesTable,
		llmRequestEventsTable,
		activityEventsTable,
	}
)

// migrate creates or upgrades every table. Additive changes only.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
