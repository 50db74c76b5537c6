package questions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/examine-dev/examine/model"
)

// startPatterns are the prefixes that open a new question. A trimmed line
// starts a question when any of them matches.
var startPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^question\s+\d+`), // "Question 1"
	regexp.MustCompile(`(?i)^\d+\s*[.)]`),     // "1." / "2)"
	regexp.MustCompile(`(?i)^\d+\.\d+`),       // "1.2"
	regexp.MustCompile(`(?i)^\([a-z]\)`),      // "(a)"
}

// maxLabelTokens caps how many leading tokens of the starting line make up
// a question's label.
const maxLabelTokens = 3

// StartsQuestion reports whether the trimmed line opens a new question.
func StartsQuestion(line string) bool {
	for _, p := range startPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// Segment partitions the reconstructed lines of all pages into question
// records. Spans never cross a page boundary, but question indices are
// global and monotonically increasing across pages. Lines on a page before
// its first question start belong to no question.
func Segment(pages []model.ParsedPage) []model.Question {
	var out []model.Question
	index := 0

	for _, page := range pages {
		currentStart := -1
		currentLabel := ""

		flush := func(endExclusive int) {
			if currentStart < 0 {
				return
			}
			q, ok := buildQuestion(page, currentStart, endExclusive, currentLabel, index)
			if ok {
				out = append(out, q)
				index++
			}
		}

		for i, line := range page.Lines {
			if !StartsQuestion(line.Text) {
				continue
			}
			flush(i)
			currentStart = i
			currentLabel = label(line.Text)
		}

		flush(len(page.Lines))
	}

	return out
}

// buildQuestion assembles a question from the span [start, end) of the
// page's lines. It reports false when the joined text is empty.
func buildQuestion(page model.ParsedPage, start, end int, lbl string, index int) (model.Question, bool) {
	parts := make([]string, 0, end-start)
	for _, line := range page.Lines[start:end] {
		parts = append(parts, line.Text)
	}

	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return model.Question{}, false
	}

	if lbl == "" {
		lbl = fmt.Sprintf("Q%d", index+1)
	}

	return model.Question{
		Index:     index,
		Label:     lbl,
		Page:      page.Number,
		StartLine: start,
		EndLine:   end,
		Text:      text,
	}, true
}

// label derives a short label from a question's starting line: up to the
// first three whitespace-separated tokens, ending early at a token that
// closes with a colon ("Question 1: ..." labels as "Question 1:").
func label(line string) string {
	tokens := strings.Fields(line)
	if len(tokens) > maxLabelTokens {
		tokens = tokens[:maxLabelTokens]
	}
	for i, tok := range tokens {
		if strings.HasSuffix(tok, ":") {
			tokens = tokens[:i+1]
			break
		}
	}
	return strings.Join(tokens, " ")
}
