package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizbucket/internal/fraction"
)

// SessionRecord is one learning session in the log.
type SessionRecord struct {
	ID          string
	StartedAt   time.Time
	EndedAt     time.Time // zero while the session is running or if it crashed
	Answered    int
	Graduated   int
	TotalScore  fraction.Fraction
	Interrupted bool
}

// StartSession records that session id began at.
func (s *Store) StartSession(ctx context.Context, id string, at time.Time) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert("sessions").
		Columns("id", "started_at").
		Values(id, at.Unix()).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return persistErr("start session", s.path, err)
	}
	return nil
}

// EndSession stores the final counters of rec.
func (s *Store) EndSession(ctx context.Context, rec SessionRecord) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Update("sessions").
		Set("ended_at", rec.EndedAt.Unix()).
		Set("answered", rec.Answered).
		Set("graduated", rec.Graduated).
		Set("score_num", rec.TotalScore.Num()).
		Set("score_den", rec.TotalScore.Den()).
		Set("interrupted", rec.Interrupted).
		Where(entsql.EQ("id", rec.ID)).
		Query()

	var res sql.Result
	if err := s.drv.Exec(ctx, query, args, &res); err != nil {
		return persistErr("end session", s.path, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return persistErr("end session", s.path, fmt.Errorf("session %s not found", rec.ID))
	}
	return nil
}

// ListSessions returns the most recent sessions first. A limit of zero
// returns all of them.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "started_at", "ended_at", "answered", "graduated", "score_num", "score_den", "interrupted").
		From(entsql.Table("sessions")).
		OrderBy(entsql.Desc("started_at"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, persistErr("list sessions", s.path, err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec              SessionRecord
			started          int64
			ended            sql.NullInt64
			scoreNum, scoreD int64
		)
		if err := rows.Scan(&rec.ID, &started, &ended, &rec.Answered, &rec.Graduated,
			&scoreNum, &scoreD, &rec.Interrupted); err != nil {
			return nil, persistErr("list sessions", s.path, err)
		}
		rec.StartedAt = time.Unix(started, 0)
		if ended.Valid {
			rec.EndedAt = time.Unix(ended.Int64, 0)
		}
		score, err := fraction.New(scoreNum, scoreD)
		if err != nil {
			return nil, persistErr("list sessions", s.path, fmt.Errorf("session %s: %w", rec.ID, err))
		}
		rec.TotalScore = score
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list sessions", s.path, err)
	}
	return out, nil
}
