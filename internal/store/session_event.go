package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.insert(ctx, tableSessionEvents,
		[]string{"session_id", "action", "learner", "question_set", "total", "score", "tier", "duration_secs"},
		[]any{data.SessionID, data.Action, data.Learner, data.QuestionSet, data.Total, data.Score, data.Tier, data.DurationSecs},
	)
}

func (r *eventRepo) RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	sel := builder.Select("id", "sequence", "timestamp", "session_id", "action", "learner",
		"question_set", "total", "score", "tier", "duration_secs").
		From(entsql.Table(tableSessionEvents))
	sel = applyOpts(sel, opts)
	sel.Where(entsql.EQ("action", SessionEnd))

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var e SessionEvent
		var ts int64
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.SessionID, &e.Action, &e.Learner,
			&e.QuestionSet, &e.Total, &e.Score, &e.Tier, &e.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		e.Timestamp = fromMillis(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}
