package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AttemptEvent records the outcome of one submission.
type AttemptEvent struct {
	ent.Schema
}

func (AttemptEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "attempt_events"}}
}

func (AttemptEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AttemptEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.Int("question_index").
			Comment("Zero-based position in the question set"),
		field.String("prompt"),
		field.String("expected_sign"),
		field.String("outcome").
			Comment("correct, incorrect, empty, failed or cancelled"),
		field.String("predicted_sign").
			Default(""),
		field.Float("confidence").
			Default(0),
		field.Int("frame_count").
			Default(0),
		field.String("error_message").
			Default(""),
	}
}

func (AttemptEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("expected_sign"),
	}
}
