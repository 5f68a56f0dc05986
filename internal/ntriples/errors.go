package ntriples

import "fmt"

// MalformedStatementError reports a line that does not match the statement
// grammar `<subject> <predicate> object .`.
type MalformedStatementError struct {
	Line   int // 1-based line number across all inputs, 0 if unknown
	Text   string
	Reason string
}

func (e *MalformedStatementError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: malformed statement: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed statement: %s", e.Reason)
}

// UnsupportedLiteralFormError reports an object value the normalizer does
// not handle (language tags, blank nodes, bare tokens).
type UnsupportedLiteralFormError struct {
	Object string
	Form   string
}

func (e *UnsupportedLiteralFormError) Error() string {
	return fmt.Sprintf("unsupported literal form (%s): %s", e.Form, e.Object)
}
