package conll

import (
	"strings"
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineContraction
	lineEmptyNode
	lineWord
)

const (
	CommentMarker   = '#'
	FieldDelimiter  = "\t"
	sentIdPrefix    = "ud-"
	textKey         = "text"
	sentenceTextKey = "sentence-text"
)

var sentIdKeys = []string{"sentid", "sent_id"}

// classify determines the kind of a line. Contraction lines (1-2) and
// empty nodes (8.1) are detected from the first column only.
func classify(line string) lineKind {
	if strings.TrimSpace(line) == "" {
		return lineBlank
	}

	if line[0] == CommentMarker {
		return lineComment
	}

	i := 0
	for i < len(line) && isDigit(line[i]) {
		i++
	}

	if i > 0 && i < len(line) {
		switch line[i] {
		case '-':
			if i+1 < len(line) && isDigit(line[i+1]) {
				return lineContraction
			}
		case '.':
			if i+1 < len(line) && isDigit(line[i+1]) {
				return lineEmptyNode
			}
		}
	}

	return lineWord
}

// comment splits a comment line in key and value, on the first ':' or '='.
// Lines without separator have an empty key.
func comment(line string) (string, string) {
	body := strings.TrimSpace(strings.TrimLeft(line, string(CommentMarker)))

	sep := strings.IndexAny(body, ":=")
	if sep < 0 {
		return "", body
	}

	return strings.TrimSpace(body[:sep]), strings.TrimSpace(body[sep+1:])
}

// sentenceId validates a treebank sentence id of the form
// xx-ud-(dev|train|test)_NNN.
func sentenceId(value string) (string, bool) {
	lang, rest, ok := strings.Cut(value, "-")
	if !ok || len(lang) < 2 || len(lang) > 3 || !isLower(lang) {
		return "", false
	}

	if !strings.HasPrefix(rest, sentIdPrefix) {
		return "", false
	}

	split, num, ok := strings.Cut(strings.TrimPrefix(rest, sentIdPrefix), "_")
	if !ok {
		return "", false
	}

	switch split {
	case "dev", "train", "test":
	default:
		return "", false
	}

	if num == "" || !isNumber(num) {
		return "", false
	}

	return value, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isNumber(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
