// Package ntriples parses the line-oriented statement export produced by
// the citation endpoint and normalizes its object values.
//
// Only the subset of N-Triples the export emits is supported: bracketed
// subjects and predicates, and objects that are bracketed URIs or quoted
// literals with an optional datatype annotation.
package ntriples

import (
	"regexp"
	"strings"
)

// Triple is one statement. Subject and Predicate keep their angle brackets.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

var statementRe = regexp.MustCompile(`^(<[^<>]*>)[ \t]+(<[^<>]*>)[ \t]+(.+?)[ \t]*\.$`)

// IsStatement reports whether a raw line should be parsed at all. Blank
// lines and comment lines are not statements.
func IsStatement(line string) bool {
	s := strings.TrimSpace(line)
	return s != "" && !strings.HasPrefix(s, "#")
}

// ParseLine parses a single statement line. Trailing CR/LF and whitespace
// are ignored. lineNo is only used for error reporting.
func ParseLine(line string, lineNo int) (Triple, error) {
	text := strings.TrimRight(line, " \t\r\n")
	m := statementRe.FindStringSubmatch(text)
	if m == nil {
		return Triple{}, &MalformedStatementError{Line: lineNo, Text: text, Reason: grammarReason(text)}
	}
	obj := m[3]
	if reason := checkObject(obj); reason != "" {
		return Triple{}, &MalformedStatementError{Line: lineNo, Text: text, Reason: reason}
	}
	return Triple{Subject: m[1], Predicate: m[2], Object: obj}, nil
}

func grammarReason(text string) string {
	switch {
	case !strings.HasSuffix(text, "."):
		return "missing terminating '.'"
	case !strings.HasPrefix(text, "<"):
		return "subject is not a bracketed URI"
	default:
		return "expected <subject> <predicate> object ."
	}
}

// checkObject rejects objects whose brackets or quotes are unbalanced.
// Forms that are syntactically closed but unsupported (language tags,
// blank nodes) pass here and are rejected by Normalize instead.
func checkObject(obj string) string {
	switch obj[0] {
	case '<':
		if len(obj) < 2 || obj[len(obj)-1] != '>' || strings.ContainsAny(obj[1:len(obj)-1], "<>") {
			return "object URI has unbalanced angle brackets"
		}
	case '"':
		q := closingQuote(obj)
		if q < 0 {
			return "object literal has no closing quote"
		}
		rest := obj[q+1:]
		switch {
		case rest == "":
		case strings.HasPrefix(rest, "^^"):
			dt := rest[2:]
			if len(dt) < 2 || dt[0] != '<' || dt[len(dt)-1] != '>' || strings.ContainsAny(dt[1:len(dt)-1], "<>") {
				return "datatype annotation has unbalanced angle brackets"
			}
		case strings.HasPrefix(rest, "@"):
		default:
			return "unexpected text after closing quote"
		}
	}
	return ""
}

// closingQuote returns the index of the first unescaped '"' after the
// opening one, or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
