package loader

import "fmt"

// LoadError reports a structural problem with an input file: a wrong column
// count, a missing funding reference, an unreadable workbook. Structural
// problems stop ingestion; cell-level problems are left to validation.
type LoadError struct {
	Filename   string
	Line       int // 1-based line or spreadsheet row, 0 when not applicable
	Message    string
	Underlying error
}

func (e *LoadError) Error() string {
	location := e.Filename
	if location == "" {
		location = "<input>"
	}
	if e.Line > 0 {
		location = fmt.Sprintf("%s:%d", location, e.Line)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", location, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", location, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Underlying
}

// GetLine returns the line the error refers to.
func (e *LoadError) GetLine() int {
	return e.Line
}
