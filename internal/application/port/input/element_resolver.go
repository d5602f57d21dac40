package input

import (
	"context"

	"browser-expect/internal/application/port/output"
	"browser-expect/internal/domain/entity"
)

// Resolution is the normalized argument set a matcher asserts against.
// Selector is only meaningful when HasSelector is true.
type Resolution struct {
	Element       output.ElementPort
	Selector      string
	HasSelector   bool
	ExpectedValue string
}

type ElementResolver interface {
	GetElementText(ctx context.Context, args ...any) (*Resolution, error)
	ResolveDirect(ctx context.Context, target output.Target, expectedValue string) (*Resolution, error)
	ResolveBySelector(ctx context.Context, page output.PagePort, selector, expectedValue string, opts ...entity.WaitOptions) (*Resolution, error)
}
