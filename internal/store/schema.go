package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	entann "entgo.io/ent/dialect/entsql"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/edusign/edusign/ent/schema"
)

// Table names.
const (
	tableSessionEvents     = "session_events"
	tableAttemptEvents     = "attempt_events"
	tableRecognitionEvents = "recognition_events"
	tableLLMRequestEvents  = "llm_request_events"
)

// entities are the journal's event schemas in creation order.
var entities = []ent.Interface{
	entschema.SessionEvent{},
	entschema.AttemptEvent{},
	entschema.RecognitionEvent{},
	entschema.LLMRequestEvent{},
}

// migrate creates missing tables, columns and indexes with ent's migration
// engine. It only appends; existing data is never dropped.
func migrate(db *sql.DB) error {
	tables, err := buildTables(entities)
	if err != nil {
		return err
	}
	m, err := schema.NewMigrate(entsql.OpenDB(dialect.SQLite, db))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(context.Background(), tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// buildTables turns ent schema definitions into migration tables. Every
// table gets an auto-increment id primary key.
func buildTables(defs []ent.Interface) ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, len(defs))
	for _, def := range defs {
		name := tableName(def)
		if name == "" {
			return nil, fmt.Errorf("schema %T has no table annotation", def)
		}
		t := schema.NewTable(name)
		t.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})

		var fields []ent.Field
		var indexes []ent.Index
		for _, mx := range def.Mixin() {
			fields = append(fields, mx.Fields()...)
			indexes = append(indexes, mx.Indexes()...)
		}
		fields = append(fields, def.Fields()...)
		indexes = append(indexes, def.Indexes()...)

		for _, f := range fields {
			d := f.Descriptor()
			if d.Err != nil {
				return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
			}
			t.AddColumn(&schema.Column{
				Name:     d.Name,
				Type:     d.Info.Type,
				Size:     int64(d.Size),
				Unique:   d.Unique,
				Nullable: d.Optional,
				Default:  d.Default,
				Comment:  d.Comment,
			})
		}

		for _, idx := range indexes {
			d := idx.Descriptor()
			for _, col := range d.Fields {
				if !t.HasColumn(col) {
					return nil, fmt.Errorf("%s: index on unknown column %q", name, col)
				}
			}
			t.AddIndex(name+"_"+strings.Join(d.Fields, "_"), d.Unique, d.Fields)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func tableName(def ent.Interface) string {
	for _, a := range def.Annotations() {
		if ant, ok := a.(entann.Annotation); ok && ant.Table != "" {
			return ant.Table
		}
	}
	return ""
}
