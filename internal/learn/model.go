// Package learn selects which questions are due and records answers.
//
// A Model keeps a bucket of at most BucketSize question ids whose mastery
// score is below the threshold. The bucket is walked with NextDue and is
// rebuilt after every RecordAnswer: ids that are still due stay (sorted
// ascending), then the remaining space is filled with due ids scanned in
// ascending order. A mastered question is never served.
//
// A Model is not safe for concurrent use.
package learn

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/abhisek/quizbucket/internal/mastery"
	"github.com/abhisek/quizbucket/internal/quiz"
)

// ErrExhausted is returned by NextDue once every bucket entry has been
// handed out. It is a normal end-of-round signal, not a failure.
var ErrExhausted = errors.New("bucket exhausted")

// StatsSource loads persisted stats. A nil *mastery.Stats with a nil error
// means nothing has been saved yet.
type StatsSource interface {
	LoadStats(ctx context.Context) (*mastery.Stats, error)
}

// StatsSink persists stats.
type StatsSink interface {
	SaveStats(ctx context.Context, stats *mastery.Stats) error
}

// Due is a question handed out by NextDue. History is a copy.
type Due struct {
	ID       int
	Question *quiz.Question
	History  *mastery.QuestionHistory
}

// Model is the learning session state.
type Model struct {
	cfg       Config
	questions []*quiz.Question
	stats     *mastery.Stats
	ids       []int
	bucket    []int
	cursor    int
	log       *zap.Logger
}

// Load builds a model over questions. Stats come from src when it is
// non-nil and has data; every question without a history gets an empty
// one. Stats entries that refer to questions outside the corpus fail with
// quiz.ErrInvalidReference.
func Load(ctx context.Context, questions []*quiz.Question, src StatsSource, cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("learn config: %w", err)
	}

	var stats *mastery.Stats
	if src != nil {
		loaded, err := src.LoadStats(ctx)
		if err != nil {
			return nil, fmt.Errorf("load stats: %w", err)
		}
		stats = loaded
	}
	if stats == nil {
		stats = mastery.NewStats()
	}
	if err := stats.Validate(len(questions)); err != nil {
		return nil, err
	}
	stats.Seed(len(questions))

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	qs := make([]*quiz.Question, len(questions))
	copy(qs, questions)

	m := &Model{
		cfg:       cfg,
		questions: qs,
		stats:     stats,
		ids:       stats.IDs(),
		log:       log,
	}
	m.rebuild()
	log.Info("learn model loaded",
		zap.Int("questions", len(qs)),
		zap.Int("mastered", m.Mastered()),
		zap.Int("bucket", len(m.bucket)))
	return m, nil
}

// NextDue hands out the next bucket entry. After the last entry it returns
// ErrExhausted on every call until RecordAnswer rebuilds the bucket.
func (m *Model) NextDue() (Due, error) {
	if m.cursor >= len(m.bucket) {
		return Due{}, ErrExhausted
	}
	id := m.bucket[m.cursor]
	m.cursor++
	h, _ := m.stats.Get(id)
	return Due{ID: id, Question: m.questions[id], History: h.Clone()}, nil
}

// RecordAnswer prepends a to the history of id and rebuilds the bucket.
// It reports how the answer moved the question's mastery state.
func (m *Model) RecordAnswer(id int, a mastery.Attempt) (mastery.StateTransition, error) {
	h, ok := m.stats.Get(id)
	if !ok {
		return mastery.StateTransition{}, fmt.Errorf("record answer for question %d: %w", id, quiz.ErrInvalidReference)
	}
	from := mastery.StateOf(h, m.cfg.MasteryThreshold)
	if err := h.Put(a); err != nil {
		return mastery.StateTransition{}, fmt.Errorf("record answer: %w", err)
	}
	to := mastery.StateOf(h, m.cfg.MasteryThreshold)

	m.rebuild()
	m.log.Debug("answer recorded",
		zap.Int("question", id),
		zap.Stringer("rate", a.Rate),
		zap.Stringer("mastery", h.MasteryScore()),
		zap.String("state", string(to)),
		zap.Ints("bucket", m.bucket))
	return mastery.StateTransition{QuestionID: id, From: from, To: to}, nil
}

// Save hands the stats to sink.
func (m *Model) Save(ctx context.Context, sink StatsSink) error {
	if err := sink.SaveStats(ctx, m.stats.Clone()); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	m.log.Info("stats saved", zap.Int("questions", m.stats.Len()))
	return nil
}

// rebuild keeps the still-due ids of the current bucket in ascending order,
// tops the bucket up with due ids in ascending order and rewinds the cursor.
func (m *Model) rebuild() {
	kept := make([]int, 0, m.cfg.BucketSize)
	inBucket := make(map[int]bool, m.cfg.BucketSize)
	for _, id := range m.bucket {
		if m.due(id) {
			kept = append(kept, id)
			inBucket[id] = true
		}
	}
	sort.Ints(kept)

	for _, id := range m.ids {
		if len(kept) >= m.cfg.BucketSize {
			break
		}
		if inBucket[id] || !m.due(id) {
			continue
		}
		kept = append(kept, id)
		inBucket[id] = true
	}

	m.bucket = kept
	m.cursor = 0
}

func (m *Model) due(id int) bool {
	h, ok := m.stats.Get(id)
	return ok && h.MasteryScore().Cmp(m.cfg.MasteryThreshold) < 0
}

// Bucket returns a copy of the current bucket.
func (m *Model) Bucket() []int {
	b := make([]int, len(m.bucket))
	copy(b, m.bucket)
	return b
}

// Done reports whether no question is due.
func (m *Model) Done() bool { return len(m.bucket) == 0 }

// Len returns the corpus size.
func (m *Model) Len() int { return len(m.questions) }

// Question returns the question with the given id.
func (m *Model) Question(id int) (*quiz.Question, error) {
	if id < 0 || id >= len(m.questions) {
		return nil, fmt.Errorf("question %d: %w", id, quiz.ErrInvalidReference)
	}
	return m.questions[id], nil
}

// History returns a copy of the history of id.
func (m *Model) History(id int) (*mastery.QuestionHistory, error) {
	h, ok := m.stats.Get(id)
	if !ok {
		return nil, fmt.Errorf("question %d: %w", id, quiz.ErrInvalidReference)
	}
	return h.Clone(), nil
}

// Mastered counts questions at or above the threshold.
func (m *Model) Mastered() int {
	return m.stats.Mastered(m.cfg.MasteryThreshold)
}

// Stats returns a deep copy of the stats.
func (m *Model) Stats() *mastery.Stats { return m.stats.Clone() }

// Config returns the model configuration.
func (m *Model) Config() Config { return m.cfg }
