package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAttemptEvent(ctx context.Context, data AttemptEventData) error {
	return r.insert(ctx, tableAttemptEvents,
		[]string{"session_id", "question_index", "prompt", "expected_sign", "outcome",
			"predicted_sign", "confidence", "frame_count", "error_message"},
		[]any{data.SessionID, data.QuestionIndex, data.Prompt, data.ExpectedSign, data.Outcome,
			data.PredictedSign, data.Confidence, data.FrameCount, data.ErrorMessage},
	)
}

func (r *eventRepo) SessionAttempts(ctx context.Context, sessionID string) ([]AttemptEvent, error) {
	query, args := builder.Select("id", "sequence", "timestamp", "session_id", "question_index",
		"prompt", "expected_sign", "outcome", "predicted_sign", "confidence", "frame_count", "error_message").
		From(entsql.Table(tableAttemptEvents)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("sequence")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptEvent
	for rows.Next() {
		var e AttemptEvent
		var ts int64
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.QuestionIndex, &e.Prompt,
			&e.ExpectedSign, &e.Outcome, &e.PredictedSign, &e.Confidence, &e.FrameCount, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		e.Timestamp = fromMillis(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) SignAccuracy(ctx context.Context) ([]SignAccuracy, error) {
	query, args := builder.Select(
		"expected_sign",
		entsql.As(entsql.Count("*"), "attempts"),
		entsql.As("SUM(CASE WHEN outcome = 'correct' THEN 1 ELSE 0 END)", "correct"),
		entsql.As(entsql.Avg("confidence"), "avg_confidence"),
	).
		From(entsql.Table(tableAttemptEvents)).
		Where(entsql.In("outcome", "correct", "incorrect")).
		GroupBy("expected_sign").
		OrderBy("expected_sign").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sign accuracy: %w", err)
	}
	defer rows.Close()

	var out []SignAccuracy
	for rows.Next() {
		var s SignAccuracy
		if err := rows.Scan(&s.Sign, &s.Attempts, &s.Correct, &s.AvgConfidence); err != nil {
			return nil, fmt.Errorf("scan sign accuracy: %w", err)
		}
		if s.Attempts > 0 {
			s.Accuracy = float64(s.Correct) / float64(s.Attempts)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
