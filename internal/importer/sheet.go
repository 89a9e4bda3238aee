package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/quizbucket/internal/quiz"
)

// SheetConfig locates the question data in a spreadsheet. Every row holds
// one option: the question text, the option text and a correct flag.
type SheetConfig struct {
	SheetName      string // .xlsx only
	QuestionColumn string
	AnswerColumn   string
	CorrectColumn  string
	SkipHeader     bool
}

// DefaultSheetConfig reads columns A, B and C of Sheet1 below a header row.
func DefaultSheetConfig() SheetConfig {
	return SheetConfig{
		SheetName:      "Sheet1",
		QuestionColumn: "A",
		AnswerColumn:   "B",
		CorrectColumn:  "C",
		SkipHeader:     true,
	}
}

// ParseSheet reads an .xlsx workbook, or a .csv file when the extension
// says so. Consecutive rows with the same question text, or with an empty
// question cell, belong to one question. Blank rows are ignored.
func ParseSheet(path string, cfg SheetConfig) ([]Record, error) {
	cols, err := cfg.columns()
	if err != nil {
		return nil, err
	}

	var rows [][]string
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		rows, err = readCSV(path)
	} else {
		rows, err = readXLSX(path, cfg.SheetName)
	}
	if err != nil {
		return nil, err
	}
	if cfg.SkipHeader && len(rows) > 0 {
		rows = rows[1:]
	}
	first := 1
	if cfg.SkipHeader {
		first = 2
	}
	return groupRows(rows, cols, first)
}

type columns struct{ question, answer, correct int }

func (c SheetConfig) columns() (columns, error) {
	var out columns
	for _, col := range []struct {
		name string
		dst  *int
	}{
		{c.QuestionColumn, &out.question},
		{c.AnswerColumn, &out.answer},
		{c.CorrectColumn, &out.correct},
	} {
		n, err := excelize.ColumnNameToNumber(col.name)
		if err != nil {
			return columns{}, fmt.Errorf("column %q: %w", col.name, err)
		}
		*col.dst = n - 1
	}
	return out, nil
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
}

func groupRows(rows [][]string, cols columns, firstRow int) ([]Record, error) {
	var records []Record
	for i, row := range rows {
		rowNum := firstRow + i
		question := cell(row, cols.question)
		answer := cell(row, cols.answer)
		flag := cell(row, cols.correct)
		if question == "" && answer == "" && flag == "" {
			continue
		}
		if answer == "" {
			return nil, fmt.Errorf("row %d: empty answer", rowNum)
		}
		correct, err := parseFlag(flag)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		n := len(records)
		switch {
		case question == "" && n == 0:
			return nil, fmt.Errorf("row %d: answer without a question", rowNum)
		case question != "" && (n == 0 || records[n-1].Question != question):
			records = append(records, Record{Question: question})
		}
		cur := &records[len(records)-1]
		cur.Options = append(cur.Options, quiz.Option{Text: answer, Correct: correct})
	}
	return records, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "x":
		return true, nil
	case "", "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("unrecognized correct flag %q", s)
}
