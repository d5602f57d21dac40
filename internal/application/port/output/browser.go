package output

import (
	"context"

	"browser-expect/internal/domain/entity"
)

// Target is a handle tagged by the binding layer that wrapped it.
type Target interface {
	Kind() entity.TargetKind
}

type PagePort interface {
	Target

	// Query returns a nil element and a nil error when nothing matches.
	Query(ctx context.Context, selector string) (ElementPort, error)
	WaitForSelector(ctx context.Context, selector string, opts entity.WaitOptions) error
}

type ElementPort interface {
	Target

	Text(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
}
