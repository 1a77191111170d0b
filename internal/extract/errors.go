package extract

import (
	"errors"
	"fmt"
)

var (
	ErrFieldExtraction  = errors.New("field extraction failed")
	ErrAIRequest        = errors.New("ai request failed")
	ErrAIResponseSchema = errors.New("ai response does not match schema")
)

// FieldExtractionError reports that a required field (times or duration)
// could not be located in a row by the rule-based extractor.
type FieldExtractionError struct {
	Field  string
	Reason string
}

func (e *FieldExtractionError) Error() string {
	return fmt.Sprintf("rule extraction: %s: %s", e.Field, e.Reason)
}

func (e *FieldExtractionError) Is(target error) bool { return target == ErrFieldExtraction }

type AIRequestError struct {
	Provider string
	Err      error
}

func (e *AIRequestError) Error() string {
	return fmt.Sprintf("ai request (%s): %v", e.Provider, e.Err)
}

func (e *AIRequestError) Unwrap() error { return e.Err }

func (e *AIRequestError) Is(target error) bool { return target == ErrAIRequest }

type AIResponseSchemaError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *AIResponseSchemaError) Error() string {
	msg := "ai response: " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AIResponseSchemaError) Unwrap() error { return e.Err }

func (e *AIResponseSchemaError) Is(target error) bool { return target == ErrAIResponseSchema }
