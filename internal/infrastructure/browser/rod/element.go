package rod

import (
	"context"

	"browser-expect/internal/application/port/output"
	"browser-expect/internal/domain/entity"

	"github.com/go-rod/rod"
)

var _ output.ElementPort = (*ElementHandle)(nil)

// ElementHandle tags a *rod.Element as entity.TargetKindElementHandle.
type ElementHandle struct {
	el *rod.Element
}

func WrapElement(el *rod.Element) *ElementHandle {
	return &ElementHandle{el: el}
}

func (e *ElementHandle) Kind() entity.TargetKind {
	return entity.TargetKindElementHandle
}

func (e *ElementHandle) Rod() *rod.Element {
	return e.el
}

func (e *ElementHandle) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *ElementHandle) HTML(ctx context.Context) (string, error) {
	return e.el.Context(ctx).HTML()
}
