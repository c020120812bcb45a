package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// RecognitionEvent records every call to a recognition backend.
type RecognitionEvent struct {
	ent.Schema
}

func (RecognitionEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "recognition_events"}}
}

func (RecognitionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (RecognitionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("backend").
			Comment("Recognizer name: http, vision:<model>, mock"),
		field.String("expected_sign"),
		field.String("predicted_sign").
			Default(""),
		field.Float("confidence").
			Default(0),
		field.Bool("is_correct").
			Default(false),
		field.Int("frame_count").
			Default(0),
		field.Int64("latency_ms").
			Default(0),
		field.Bool("success").
			Default(false),
		field.Int("status_code").
			Default(0).
			Comment("HTTP status of a rejected request"),
		field.String("error_message").
			Default(""),
	}
}

func (RecognitionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("backend"),
	}
}
