package track

import (
	"fmt"
	"strings"
)

// OpenError is returned when a path cannot be opened as audio media.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("unable to open file '%s': %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// ValidationError reports tag state that violates a track invariant:
// an out-of-order number/total pair, tags missing for filename formatting,
// or a pattern that contains no usable token.
type ValidationError struct {
	Tag     Tag   // field being set, if any
	Missing []Tag // tags required but absent
	Msg     string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		keys := make([]string, len(e.Missing))
		for i, t := range e.Missing {
			keys[i] = t.Key()
		}
		return "the following tags are missing: " + strings.Join(keys, ", ")
	}
	return e.Msg
}

// InvalidListError is returned when a tag-list string decodes to an
// empty component. Index is 1-based.
type InvalidListError struct {
	Index int
	Input string
}

func (e *InvalidListError) Error() string {
	return fmt.Sprintf("value %d in '%s' is invalid", e.Index, e.Input)
}
