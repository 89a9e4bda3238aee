package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/abhisek/quizbucket/internal/quiz"
)

type parseState int

const (
	seekContainer parseState = iota
	seekQuestion
	seekAnswerRow
	seekAnswerText
)

const (
	classCorrectRow = "row correct-answer green inverted"
	classRow        = "row"
	classAnswerText = "fifteen wide column"
	classGrid       = "ui grid"
)

type htmlParser struct {
	state   parseState
	correct bool

	// At most one of these is set; the next non-blank text node goes to it.
	captureQuestion bool
	captureAnswer   bool

	records []Record
}

// ParseHTML scrapes a question catalogue page. Questions live inside
// div#questions; each <b> starts a question whose text is the next text
// node. Every answer is a div.row (div.row.correct-answer.green.inverted
// when correct) followed by a p.fifteen.wide.column holding the answer
// text. A div.ui.grid closes the answers of the current question.
func ParseHTML(r io.Reader) ([]Record, error) {
	z := html.NewTokenizer(r)
	p := &htmlParser{}
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return p.records, nil
			}
			return nil, fmt.Errorf("parse html: %w", z.Err())
		case html.StartTagToken, html.SelfClosingTagToken:
			p.startTag(z.Token())
		case html.TextToken:
			p.text(z.Token().Data)
		}
	}
}

func (p *htmlParser) startTag(tok html.Token) {
	switch p.state {
	case seekContainer:
		if tok.Data == "div" && attr(tok, "id") == "questions" {
			p.state = seekQuestion
		}

	case seekQuestion:
		if tok.Data != "b" {
			p.captureQuestion = false
			return
		}
		p.records = append(p.records, Record{})
		p.captureQuestion = true
		p.correct = false
		p.state = seekAnswerRow

	case seekAnswerRow:
		if tok.Data == "div" && class(tok) == classGrid {
			p.state = seekQuestion
			return
		}
		if tok.Data == "div" {
			switch class(tok) {
			case classCorrectRow:
				p.correct = true
			case classRow:
				p.correct = false
			}
		}
		p.state = seekAnswerText

	case seekAnswerText:
		switch {
		case tok.Data == "p" && class(tok) == classAnswerText:
			p.captureQuestion = false
			p.captureAnswer = true
		case tok.Data == "div" && class(tok) == classGrid:
			p.state = seekQuestion
		}
	}
}

func (p *htmlParser) text(data string) {
	if strings.TrimSpace(data) == "" {
		return
	}
	switch {
	case p.captureQuestion:
		p.records[len(p.records)-1].Question = strings.TrimSpace(data)
		p.captureQuestion = false

	case p.captureAnswer:
		cur := &p.records[len(p.records)-1]
		cur.Options = append(cur.Options, quiz.Option{Text: cleanAnswer(data), Correct: p.correct})
		p.captureAnswer = false
		p.state = seekAnswerRow
	}
}

// cleanAnswer trims the text, removes newlines and drops one trailing
// comma or full stop.
func cleanAnswer(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", "")
	if strings.HasSuffix(s, ",") || strings.HasSuffix(s, ".") {
		s = s[:len(s)-1]
	}
	return s
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// class returns the class attribute with whitespace normalized.
func class(tok html.Token) string {
	return strings.Join(strings.Fields(attr(tok, "class")), " ")
}
