package models

import "strings"

// ValidationError collects field-level validation messages for a record. It
// mirrors what a schema-validating store would report, so the rules hold even
// when the store has no native constraint support.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

func (e *ValidationError) add(msg string) {
	e.Messages = append(e.Messages, msg)
}

func (e *ValidationError) orNil() error {
	if len(e.Messages) == 0 {
		return nil
	}
	return e
}
