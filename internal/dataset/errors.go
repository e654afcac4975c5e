package dataset

import "fmt"

// LoadError reports a dataset that is missing, unreadable or structurally
// malformed. Line is 0 when the problem is not tied to a single record.
type LoadError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load %s", e.Path)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s:%d", msg, e.Line)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadErr(path string, line int, reason string, err error) *LoadError {
	return &LoadError{Path: path, Line: line, Reason: reason, Err: err}
}
