package common

import "strings"

// ValidationErrors accumulates user-facing form validation messages so a page
// can display all of them at once.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}

// HasErrors reports whether at least one message was collected.
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}
