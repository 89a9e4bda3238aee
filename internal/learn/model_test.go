package learn

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/quizbucket/internal/fraction"
	"github.com/abhisek/quizbucket/internal/mastery"
	"github.com/abhisek/quizbucket/internal/quiz"
)

// memStats implements StatsSource and StatsSink in memory.
type memStats struct {
	stats   *mastery.Stats
	loadErr error
	saveErr error
	saves   int
}

func (m *memStats) LoadStats(context.Context) (*mastery.Stats, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.stats, nil
}

func (m *memStats) SaveStats(_ context.Context, s *mastery.Stats) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stats = s
	m.saves++
	return nil
}

func corpus(t *testing.T, n int) []*quiz.Question {
	t.Helper()
	qs := make([]*quiz.Question, n)
	for i := range qs {
		q, err := quiz.New(fmt.Sprintf("question %d", i), []quiz.Option{
			{Text: "wrong", Correct: false},
			{Text: "right", Correct: true},
		})
		if err != nil {
			t.Fatal(err)
		}
		qs[i] = q
	}
	return qs
}

func cfg(size int) Config {
	c := DefaultConfig()
	c.BucketSize = size
	return c
}

func answer(rate fraction.Fraction) mastery.Attempt {
	return mastery.Attempt{Timestamp: time.Unix(1700000000, 0), Duration: 3 * time.Second, Rate: rate}
}

func mustHistory(id int, attempts ...mastery.Attempt) *mastery.QuestionHistory {
	h, err := mastery.NewQuestionHistory(id, attempts...)
	if err != nil {
		panic(err)
	}
	return h
}

func mustLoad(t *testing.T, qs []*quiz.Question, src StatsSource, c Config) *Model {
	t.Helper()
	m, err := Load(context.Background(), qs, src, c)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.BucketSize != 20 {
		t.Errorf("BucketSize = %d, want 20", c.BucketSize)
	}
	if !c.MasteryThreshold.Equal(fraction.MustNew(9, 10)) {
		t.Errorf("MasteryThreshold = %s, want 9/10", c.MasteryThreshold)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	bad := []Config{
		{BucketSize: 0, MasteryThreshold: fraction.One},
		{BucketSize: 5, MasteryThreshold: fraction.Zero},
		{BucketSize: 5, MasteryThreshold: fraction.MustNew(3, 2)},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", c)
		}
	}
}

func TestInitialBucketLowestIDsFirst(t *testing.T) {
	m := mustLoad(t, corpus(t, 30), nil, DefaultConfig())
	want := make([]int, 20)
	for i := range want {
		want[i] = i
	}
	if got := m.Bucket(); !reflect.DeepEqual(got, want) {
		t.Errorf("Bucket = %v, want %v", got, want)
	}
}

func TestGraduationAdmitsNextQuestion(t *testing.T) {
	m := mustLoad(t, corpus(t, 2), nil, cfg(1))
	if got := m.Bucket(); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("initial Bucket = %v, want [0]", got)
	}

	for i := 0; i < 2; i++ {
		if _, err := m.RecordAnswer(0, answer(fraction.One)); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
	}
	if got := m.Bucket(); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Bucket after mastering 0 = %v, want [1]", got)
	}
}

func TestRecordAnswerReportsTransition(t *testing.T) {
	m := mustLoad(t, corpus(t, 2), nil, cfg(2))

	tr, err := m.RecordAnswer(1, answer(fraction.MustNew(1, 2)))
	if err != nil {
		t.Fatal(err)
	}
	if tr.From != mastery.StateNew || tr.To != mastery.StateLearning || tr.Graduated() {
		t.Errorf("transition = %+v, want new -> learning", tr)
	}

	m2 := mustLoad(t, corpus(t, 2), nil, cfg(2))
	tr, err = m2.RecordAnswer(0, answer(fraction.One))
	if err != nil {
		t.Fatal(err)
	}
	if !tr.Graduated() {
		t.Errorf("transition = %+v, want graduation", tr)
	}
}

func TestNextDueWalksBucketThenExhausts(t *testing.T) {
	qs := corpus(t, 3)
	m := mustLoad(t, qs, nil, cfg(2))

	for want := 0; want < 2; want++ {
		d, err := m.NextDue()
		if err != nil {
			t.Fatalf("NextDue: %v", err)
		}
		if d.ID != want {
			t.Errorf("NextDue ID = %d, want %d", d.ID, want)
		}
		if d.Question != qs[want] {
			t.Errorf("NextDue question mismatch for %d", want)
		}
	}
	for i := 0; i < 3; i++ {
		if _, err := m.NextDue(); !errors.Is(err, ErrExhausted) {
			t.Fatalf("call %d after end: err = %v, want ErrExhausted", i, err)
		}
	}

	if _, err := m.RecordAnswer(0, answer(fraction.Zero)); err != nil {
		t.Fatal(err)
	}
	d, err := m.NextDue()
	if err != nil {
		t.Fatalf("NextDue after RecordAnswer: %v", err)
	}
	if d.ID != 0 {
		t.Errorf("NextDue after rebuild ID = %d, want 0", d.ID)
	}
}

func TestNextDueHistoryIsSnapshot(t *testing.T) {
	m := mustLoad(t, corpus(t, 1), nil, cfg(1))
	d, err := m.NextDue()
	if err != nil {
		t.Fatal(err)
	}
	d.History.Put(answer(fraction.One))

	h, _ := m.History(0)
	if h.Len() != 0 {
		t.Error("mutating the handed-out history changed the model")
	}
	if m.Done() {
		t.Error("model should still have a due question")
	}
}

func TestRebuildIdempotent(t *testing.T) {
	m := mustLoad(t, corpus(t, 10), nil, cfg(4))
	_, _ = m.RecordAnswer(1, answer(fraction.One))
	_, _ = m.RecordAnswer(6, answer(fraction.MustNew(1, 2)))

	m.rebuild()
	first := m.Bucket()
	m.rebuild()
	if second := m.Bucket(); !reflect.DeepEqual(first, second) {
		t.Errorf("rebuild not idempotent: %v then %v", first, second)
	}
}

func TestBucketNeverHoldsMasteredQuestion(t *testing.T) {
	m := mustLoad(t, corpus(t, 12), nil, cfg(5))
	threshold := m.Config().MasteryThreshold

	rates := []fraction.Fraction{fraction.One, fraction.MustNew(1, 2), fraction.Zero, fraction.One}
	for step := 0; step < 60; step++ {
		d, err := m.NextDue()
		if errors.Is(err, ErrExhausted) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.RecordAnswer(d.ID, answer(rates[step%len(rates)])); err != nil {
			t.Fatal(err)
		}
		for _, id := range m.Bucket() {
			h, _ := m.History(id)
			if h.MasteryScore().Cmp(threshold) >= 0 {
				t.Fatalf("step %d: bucket %v holds mastered question %d", step, m.Bucket(), id)
			}
		}
		if len(m.Bucket()) > 5 {
			t.Fatalf("bucket %v exceeds size 5", m.Bucket())
		}
	}
}

func TestRetainedIDsStaySortedBeforeNewcomers(t *testing.T) {
	m := mustLoad(t, corpus(t, 6), nil, cfg(3))
	// Bucket is [0 1 2]; master 1 so 3 is admitted behind the retained ids.
	if _, err := m.RecordAnswer(1, answer(fraction.One)); err != nil {
		t.Fatal(err)
	}
	if got := m.Bucket(); !reflect.DeepEqual(got, []int{0, 2, 3}) {
		t.Errorf("Bucket = %v, want [0 2 3]", got)
	}
}

func TestAllMasteredIsTerminal(t *testing.T) {
	src := &memStats{stats: mastery.NewStats()}
	for id := 0; id < 3; id++ {
		src.stats.Add(mustHistory(id, answer(fraction.One)))
	}
	m := mustLoad(t, corpus(t, 3), src, cfg(2))
	if !m.Done() {
		t.Fatalf("Bucket = %v, want empty", m.Bucket())
	}
	if _, err := m.NextDue(); !errors.Is(err, ErrExhausted) {
		t.Errorf("err = %v, want ErrExhausted", err)
	}
	if m.Mastered() != 3 {
		t.Errorf("Mastered = %d, want 3", m.Mastered())
	}
}

func TestLoadSeedsMissingHistories(t *testing.T) {
	src := &memStats{stats: mastery.NewStats()}
	src.stats.Add(mustHistory(2, answer(fraction.One)))

	m := mustLoad(t, corpus(t, 4), src, cfg(10))
	if got := m.Bucket(); !reflect.DeepEqual(got, []int{0, 1, 3}) {
		t.Errorf("Bucket = %v, want [0 1 3]", got)
	}
	if m.Stats().Len() != 4 {
		t.Errorf("Stats().Len() = %d, want 4", m.Stats().Len())
	}
}

func TestLoadRejectsUnknownQuestionIDs(t *testing.T) {
	src := &memStats{stats: mastery.NewStats()}
	src.stats.Add(mustHistory(9))

	_, err := Load(context.Background(), corpus(t, 2), src, DefaultConfig())
	if !errors.Is(err, quiz.ErrInvalidReference) {
		t.Errorf("err = %v, want ErrInvalidReference", err)
	}
}

func TestLoadPropagatesSourceError(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := Load(context.Background(), corpus(t, 1), &memStats{loadErr: boom}, DefaultConfig())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped source error", err)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	_, err := Load(context.Background(), corpus(t, 1), nil, Config{})
	if err == nil {
		t.Error("expected error for zero config")
	}
}

func TestRecordAnswerUnknownID(t *testing.T) {
	m := mustLoad(t, corpus(t, 2), nil, cfg(2))
	before := m.Bucket()
	if _, err := m.RecordAnswer(7, answer(fraction.One)); !errors.Is(err, quiz.ErrInvalidReference) {
		t.Errorf("err = %v, want ErrInvalidReference", err)
	}
	if !reflect.DeepEqual(before, m.Bucket()) {
		t.Error("failed RecordAnswer changed the bucket")
	}
}

func TestSaveHandsStatsToSink(t *testing.T) {
	m := mustLoad(t, corpus(t, 2), nil, cfg(2))
	if _, err := m.RecordAnswer(1, answer(fraction.MustNew(1, 3))); err != nil {
		t.Fatal(err)
	}

	sink := &memStats{}
	if err := m.Save(context.Background(), sink); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if sink.saves != 1 {
		t.Fatalf("saves = %d, want 1", sink.saves)
	}
	if !sink.stats.Equal(m.Stats()) {
		t.Error("saved stats differ from model stats")
	}

	failing := &memStats{saveErr: errors.New("read-only")}
	if err := m.Save(context.Background(), failing); err == nil {
		t.Error("expected Save to surface sink error")
	}
}

func TestQuestionAccessor(t *testing.T) {
	qs := corpus(t, 2)
	m := mustLoad(t, qs, nil, cfg(2))
	q, err := m.Question(1)
	if err != nil || q != qs[1] {
		t.Errorf("Question(1) = %v, %v", q, err)
	}
	if _, err := m.Question(2); !errors.Is(err, quiz.ErrInvalidReference) {
		t.Errorf("Question(2) err = %v, want ErrInvalidReference", err)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestRecordAnswerUnrepresentableMean(t *testing.T) {
	src := &memStats{stats: mastery.NewStats()}
	src.stats.Add(mustHistory(0, answer(fraction.MustNew(4294967291, 4294967296))))
	m := mustLoad(t, corpus(t, 2), src, cfg(2))

	_, err := m.RecordAnswer(0, answer(fraction.MustNew(4294967290, 4294967291)))
	if !errors.Is(err, fraction.ErrOverflow) {
		t.Fatalf("err = %v, want ErrOverflow", err)
	}
	h, _ := m.History(0)
	if h.Len() != 1 {
		t.Errorf("History(0).Len() = %d after rejected answer, want 1", h.Len())
	}
	if got := m.Bucket(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("Bucket = %v, want [0 1]", got)
	}
}
