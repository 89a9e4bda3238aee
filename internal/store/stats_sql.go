package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizbucket/internal/fraction"
	"github.com/abhisek/quizbucket/internal/mastery"
)

// insertBatch bounds rows per INSERT to stay under SQLite's bind limit.
const insertBatch = 500

var attemptColumns = []string{"question_id", "position", "date", "duration_ns", "rate_num", "rate_den"}

// LoadStats reads all histories. An empty database yields nil stats and no
// error.
func (s *Store) LoadStats(ctx context.Context) (*mastery.Stats, error) {
	ids, err := s.historyIDs(ctx)
	if err != nil {
		return nil, persistErr("load stats", s.path, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	attempts, err := s.attemptsByQuestion(ctx)
	if err != nil {
		return nil, persistErr("load stats", s.path, err)
	}

	stats := mastery.NewStats()
	for _, id := range ids {
		h, err := mastery.NewQuestionHistory(id, attempts[id]...)
		if err != nil {
			return nil, persistErr("load stats", s.path, err)
		}
		stats.Add(h)
	}
	return stats, nil
}

// SaveStats replaces every stored history with stats in one transaction.
func (s *Store) SaveStats(ctx context.Context, stats *mastery.Stats) error {
	err := s.withTx(ctx, func(tx dialect.Tx) error {
		if err := clearHistories(ctx, tx); err != nil {
			return err
		}
		ids := stats.IDs()
		for start := 0; start < len(ids); start += insertBatch {
			end := min(start+insertBatch, len(ids))
			ins := entsql.Dialect(dialect.SQLite).Insert("histories").Columns("question_id")
			for _, id := range ids[start:end] {
				ins.Values(id)
			}
			query, args := ins.Query()
			if err := tx.Exec(ctx, query, args, nil); err != nil {
				return fmt.Errorf("insert histories: %w", err)
			}
		}

		var rows [][]any
		for _, id := range ids {
			h, _ := stats.Get(id)
			for pos, a := range h.History() {
				rows = append(rows, []any{
					id, pos, a.Timestamp.Unix(), int64(a.Duration), a.Rate.Num(), a.Rate.Den(),
				})
			}
		}
		for start := 0; start < len(rows); start += insertBatch {
			end := min(start+insertBatch, len(rows))
			ins := entsql.Dialect(dialect.SQLite).Insert("attempts").Columns(attemptColumns...)
			for _, r := range rows[start:end] {
				ins.Values(r...)
			}
			query, args := ins.Query()
			if err := tx.Exec(ctx, query, args, nil); err != nil {
				return fmt.Errorf("insert attempts: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return persistErr("save stats", s.path, err)
	}
	return nil
}

// Reset deletes all histories. The session log is kept.
func (s *Store) Reset(ctx context.Context) error {
	err := s.withTx(ctx, func(tx dialect.Tx) error {
		return clearHistories(ctx, tx)
	})
	if err != nil {
		return persistErr("reset stats", s.path, err)
	}
	return nil
}

func clearHistories(ctx context.Context, tx dialect.Tx) error {
	for _, table := range []string{"attempts", "histories"} {
		query, args := entsql.Dialect(dialect.SQLite).Delete(table).Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (s *Store) historyIDs(ctx context.Context) ([]int, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("question_id").
		From(entsql.Table("histories")).
		OrderBy("question_id").
		Query()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query histories: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// attemptsByQuestion returns every attempt grouped by question, most recent
// first.
func (s *Store) attemptsByQuestion(ctx context.Context) (map[int][]mastery.Attempt, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(attemptColumns...).
		From(entsql.Table("attempts")).
		OrderBy("question_id", "position").
		Query()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]mastery.Attempt)
	for rows.Next() {
		var (
			id, pos          int
			date, durNs      int64
			rateNum, rateDen int64
		)
		if err := rows.Scan(&id, &pos, &date, &durNs, &rateNum, &rateDen); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rate, err := fraction.New(rateNum, rateDen)
		if err != nil {
			return nil, fmt.Errorf("question %d attempt %d: %w", id, pos, err)
		}
		a, err := mastery.NewAttempt(time.Unix(date, 0), time.Duration(durNs), rate)
		if err != nil {
			return nil, fmt.Errorf("question %d attempt %d: %w", id, pos, err)
		}
		out[id] = append(out[id], a)
	}
	return out, rows.Err()
}
