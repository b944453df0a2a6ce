package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	attemptsTableName  = "attempts"
	llmEventsTableName = "llm_request_events"
)

var (
	attemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "student_id", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString},
		{Name: "level", Type: field.TypeString},
		{Name: "result", Type: field.TypeString},
		{Name: "attempts_easy", Type: field.TypeInt, Default: 0},
		{Name: "attempts_medium", Type: field.TypeInt, Default: 0},
		{Name: "attempts_hard", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "scored_at", Type: field.TypeTime, Nullable: true},
	}
	attemptsTable = &schema.Table{
		Name:       attemptsTableName,
		Columns:    attemptsColumns,
		PrimaryKey: []*schema.Column{attemptsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "attempt_student_id_subject", Columns: []*schema.Column{attemptsColumns[2], attemptsColumns[3]}},
			{Name: "attempt_created_at", Columns: []*schema.Column{attemptsColumns[9]}},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool, Default: false},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       llmEventsTableName,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmEventsColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
		},
	}

	tables = []*schema.Table{attemptsTable, llmEventsTable}
)

// migrate creates or updates the tables owned by the store.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}
