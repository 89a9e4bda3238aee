package store

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/quizbucket/internal/fraction"
	"github.com/abhisek/quizbucket/internal/mastery"
	"github.com/abhisek/quizbucket/internal/quiz"
)

type questionRecord struct {
	Question string         `json:"question"`
	Answers  []answerRecord `json:"answers"`
}

type answerRecord struct {
	Answer  string `json:"answer"`
	Text    string `json:"text,omitempty"` // legacy spelling of Answer, read only
	Correct bool   `json:"correct"`
}

type historyRecord struct {
	QuestionID int             `json:"question_id"`
	History    []attemptRecord `json:"history"`
}

type attemptRecord struct {
	Date            int64   `json:"date"`
	Duration        float64 `json:"duration"`
	RateNumerator   *int64  `json:"rate_numerator,omitempty"`
	RateDenominator *int64  `json:"rate_denominator,omitempty"`
}

// DecodeCorpus validates and decodes a corpus document. A question without
// a correct option fails with quiz.ErrDegenerateQuestion.
func DecodeCorpus(raw []byte) ([]*quiz.Question, error) {
	if err := validateDocument("corpus", corpusSchema, raw); err != nil {
		return nil, err
	}
	var records []questionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	questions := make([]*quiz.Question, 0, len(records))
	for i, r := range records {
		opts := make([]quiz.Option, len(r.Answers))
		for j, a := range r.Answers {
			text := a.Answer
			if text == "" {
				text = a.Text
			}
			opts[j] = quiz.Option{Text: text, Correct: a.Correct}
		}
		q, err := quiz.New(r.Question, opts)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// EncodeCorpus renders questions as an indented corpus document.
func EncodeCorpus(questions []*quiz.Question) ([]byte, error) {
	records := make([]questionRecord, len(questions))
	for i, q := range questions {
		opts := q.Options()
		answers := make([]answerRecord, len(opts))
		for j, o := range opts {
			answers[j] = answerRecord{Answer: o.Text, Correct: o.Correct}
		}
		records[i] = questionRecord{Question: q.Prompt(), Answers: answers}
	}
	return json.MarshalIndent(records, "", "    ")
}

// DecodeStats validates and decodes a stats document. Missing rate fields
// read as 0/1.
func DecodeStats(raw []byte) (*mastery.Stats, error) {
	if err := validateDocument("stats", statsSchema, raw); err != nil {
		return nil, err
	}
	var records []historyRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}

	stats := mastery.NewStats()
	for _, r := range records {
		if _, dup := stats.Get(r.QuestionID); dup {
			return nil, fmt.Errorf("question %d listed twice", r.QuestionID)
		}
		attempts := make([]mastery.Attempt, len(r.History))
		for i, ar := range r.History {
			a, err := ar.attempt()
			if err != nil {
				return nil, fmt.Errorf("question %d attempt %d: %w", r.QuestionID, i, err)
			}
			attempts[i] = a
		}
		h, err := mastery.NewQuestionHistory(r.QuestionID, attempts...)
		if err != nil {
			return nil, fmt.Errorf("decode stats: %w", err)
		}
		stats.Add(h)
	}
	return stats, nil
}

// EncodeStats renders stats ordered by question id, each history most
// recent first.
func EncodeStats(stats *mastery.Stats) ([]byte, error) {
	ids := stats.IDs()
	records := make([]historyRecord, 0, len(ids))
	for _, id := range ids {
		h, _ := stats.Get(id)
		attempts := h.History()
		hr := historyRecord{QuestionID: id, History: make([]attemptRecord, len(attempts))}
		for i, a := range attempts {
			num, den := a.Rate.Num(), a.Rate.Den()
			hr.History[i] = attemptRecord{
				Date:            a.Timestamp.Unix(),
				Duration:        a.Duration.Seconds(),
				RateNumerator:   &num,
				RateDenominator: &den,
			}
		}
		records = append(records, hr)
	}
	return json.MarshalIndent(records, "", "    ")
}

func (r attemptRecord) attempt() (mastery.Attempt, error) {
	var num, den int64 = 0, 1
	if r.RateNumerator != nil {
		num = *r.RateNumerator
	}
	if r.RateDenominator != nil {
		den = *r.RateDenominator
	}
	rate, err := fraction.New(num, den)
	if err != nil {
		return mastery.Attempt{}, err
	}
	return mastery.NewAttempt(
		time.Unix(r.Date, 0),
		time.Duration(math.Round(r.Duration*float64(time.Second))),
		rate,
	)
}
