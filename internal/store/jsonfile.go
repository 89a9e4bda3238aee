package store

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/abhisek/quizbucket/internal/mastery"
	"github.com/abhisek/quizbucket/internal/quiz"
)

// JSONFile keeps stats in a single JSON document on disk.
type JSONFile struct {
	path string
}

// NewJSONFile returns a stats file store at path. The file need not exist.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the file location.
func (j *JSONFile) Path() string { return j.path }

// LoadStats reads the stats file. A missing file yields nil stats and no
// error.
func (j *JSONFile) LoadStats(ctx context.Context) (*mastery.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr("load stats", j.path, err)
	}
	stats, err := DecodeStats(raw)
	if err != nil {
		return nil, persistErr("load stats", j.path, err)
	}
	return stats, nil
}

// SaveStats atomically replaces the stats file.
func (j *JSONFile) SaveStats(_ context.Context, stats *mastery.Stats) error {
	raw, err := EncodeStats(stats)
	if err != nil {
		return persistErr("save stats", j.path, err)
	}
	if err := writeFileAtomic(j.path, raw, 0o644); err != nil {
		return persistErr("save stats", j.path, err)
	}
	return nil
}

// Reset removes the stats file. A missing file is not an error.
func (j *JSONFile) Reset(context.Context) error {
	if err := os.Remove(j.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return persistErr("reset stats", j.path, err)
	}
	return nil
}

// ReadCorpusFile loads the question corpus at path. Read failures are
// *PersistenceError; invalid questions keep their quiz error.
func ReadCorpusFile(path string) ([]*quiz.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, persistErr("load corpus", path, err)
	}
	qs, err := DecodeCorpus(raw)
	if err != nil {
		if errors.Is(err, quiz.ErrDegenerateQuestion) {
			return nil, err
		}
		return nil, persistErr("load corpus", path, err)
	}
	return qs, nil
}

// WriteCorpusFile atomically writes the question corpus to path.
func WriteCorpusFile(path string, questions []*quiz.Question) error {
	raw, err := EncodeCorpus(questions)
	if err != nil {
		return persistErr("save corpus", path, err)
	}
	if err := writeFileAtomic(path, raw, 0o644); err != nil {
		return persistErr("save corpus", path, err)
	}
	return nil
}
