package extract

import (
	"context"

	"workoverbot/internal/domain"
)

// TextExtractor turns one segmented row into the six raw fields.
type TextExtractor interface {
	Extract(ctx context.Context, row string) (domain.FieldSet, error)
}

// TextExtractorFunc adapts a function to TextExtractor.
type TextExtractorFunc func(ctx context.Context, row string) (domain.FieldSet, error)

func (f TextExtractorFunc) Extract(ctx context.Context, row string) (domain.FieldSet, error) {
	return f(ctx, row)
}
