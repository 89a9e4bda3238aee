// Package importer converts external question sources into a corpus: HTML
// pages of the question catalogue format and spreadsheets (.xlsx or .csv).
package importer

import (
	"errors"
	"fmt"

	"github.com/abhisek/quizbucket/internal/quiz"
)

// Record is one parsed, not yet validated question.
type Record struct {
	Question string
	Options  []quiz.Option
}

// BuildResult is the validated corpus and the indices of dropped records.
type BuildResult struct {
	Questions []*quiz.Question
	Skipped   []int
}

// Build validates records in order. A record without a correct option
// fails the build unless skipInvalid is set, in which case it is dropped
// and its index reported in Skipped.
func Build(records []Record, skipInvalid bool) (*BuildResult, error) {
	res := &BuildResult{Questions: make([]*quiz.Question, 0, len(records))}
	for i, rec := range records {
		q, err := quiz.New(rec.Question, rec.Options)
		if err != nil {
			if skipInvalid && errors.Is(err, quiz.ErrDegenerateQuestion) {
				res.Skipped = append(res.Skipped, i)
				continue
			}
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		res.Questions = append(res.Questions, q)
	}
	return res, nil
}
