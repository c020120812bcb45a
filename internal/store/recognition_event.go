package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendRecognition(ctx context.Context, data RecognitionEventData) error {
	return r.insert(ctx, tableRecognitionEvents,
		[]string{"backend", "expected_sign", "predicted_sign", "confidence", "is_correct",
			"frame_count", "latency_ms", "success", "status_code", "error_message"},
		[]any{data.Backend, data.ExpectedSign, data.PredictedSign, data.Confidence, data.IsCorrect,
			data.FrameCount, data.LatencyMs, data.Success, data.StatusCode, data.ErrorMessage},
	)
}

func (r *eventRepo) QueryRecognitionEvents(ctx context.Context, opts QueryOpts) ([]RecognitionEvent, error) {
	sel := builder.Select("id", "sequence", "timestamp", "backend", "expected_sign", "predicted_sign",
		"confidence", "is_correct", "frame_count", "latency_ms", "success", "status_code", "error_message").
		From(entsql.Table(tableRecognitionEvents))
	query, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recognition events: %w", err)
	}
	defer rows.Close()

	var out []RecognitionEvent
	for rows.Next() {
		var e RecognitionEvent
		var ts int64
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.Backend, &e.ExpectedSign, &e.PredictedSign,
			&e.Confidence, &e.IsCorrect, &e.FrameCount, &e.LatencyMs, &e.Success, &e.StatusCode, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan recognition event: %w", err)
		}
		e.Timestamp = fromMillis(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}
