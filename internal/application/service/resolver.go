package service

import (
	"context"
	"fmt"
	"time"

	"browser-expect/internal/application/port/input"
	"browser-expect/internal/application/port/output"
	"browser-expect/internal/domain/entity"
)

// bodySelector is the implicit target when a matcher is called on a page
// without a selector.
const bodySelector = "body"

var _ input.ElementResolver = (*ElementResolver)(nil)

type ElementResolver struct {
	log output.LoggerPort
}

func NewElementResolver(log output.LoggerPort) *ElementResolver {
	return &ElementResolver{log: log}
}

// DetectTargetKind classifies v by the kind tag its binding layer attached.
// Values that carry no tag are reported under their Go type name.
func DetectTargetKind(v any) (entity.TargetKind, error) {
	target, ok := v.(output.Target)
	if !ok {
		return "", &UnrecognizedTypeError{Type: fmt.Sprintf("%T", v)}
	}

	kind := target.Kind()
	if !kind.Known() {
		return "", &UnrecognizedTypeError{Type: kind.String()}
	}
	return kind, nil
}

// DefaultWaitForSelectorOptions returns the wait defaults overlaid with opts.
// Non-zero fields win, later options override earlier ones, and Extra keys
// are copied through.
func DefaultWaitForSelectorOptions(opts ...entity.WaitOptions) entity.WaitOptions {
	merged := entity.WaitOptions{Timeout: entity.DefaultWaitTimeout}

	for _, o := range opts {
		if o.Timeout != 0 {
			merged.Timeout = o.Timeout
		}
		if o.State != "" {
			merged.State = o.State
		}
		if len(o.Extra) > 0 {
			if merged.Extra == nil {
				merged.Extra = make(map[string]any, len(o.Extra))
			}
			for k, v := range o.Extra {
				merged.Extra[k] = v
			}
		}
	}

	return merged
}

// GetElementText normalizes matcher arguments:
//
//	(target, expectedValue)            page or element
//	(page, selector, expectedValue)    waits for selector first
//
// Any other argument count is rejected.
func (r *ElementResolver) GetElementText(ctx context.Context, args ...any) (*input.Resolution, error) {
	switch len(args) {
	case 2:
		if _, err := DetectTargetKind(args[0]); err != nil {
			return nil, err
		}
		expected, err := stringArg("expected value", args[1])
		if err != nil {
			return nil, err
		}
		return r.ResolveDirect(ctx, args[0].(output.Target), expected)

	case 3:
		page, err := pageArg(args[0])
		if err != nil {
			return nil, err
		}
		selector, err := stringArg("selector", args[1])
		if err != nil {
			return nil, err
		}
		expected, err := stringArg("expected value", args[2])
		if err != nil {
			return nil, err
		}
		return r.ResolveBySelector(ctx, page, selector, expected)
	}

	r.log.Warn("rejected matcher arguments", "count", len(args))
	return nil, &InvalidInputLengthError{Length: len(args)}
}

// ResolveDirect resolves an element handle to itself and a page to its body.
// Neither branch records a selector.
func (r *ElementResolver) ResolveDirect(ctx context.Context, target output.Target, expectedValue string) (*input.Resolution, error) {
	kind, err := DetectTargetKind(target)
	if err != nil {
		return nil, err
	}

	if kind == entity.TargetKindElementHandle {
		el, ok := target.(output.ElementPort)
		if !ok {
			return nil, fmt.Errorf("%w: %T is tagged %s but is not an element", ErrInvalidArgument, target, kind)
		}
		r.log.Debug("resolved element handle", "kind", kind.String())
		return &input.Resolution{
			Element:       el,
			ExpectedValue: expectedValue,
		}, nil
	}

	page, ok := target.(output.PagePort)
	if !ok {
		return nil, fmt.Errorf("%w: %T is tagged %s but is not a page", ErrInvalidArgument, target, kind)
	}

	el, err := page.Query(ctx, bodySelector)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", Quote(bodySelector), err)
	}

	r.log.Debug("resolved page body", "kind", kind.String(), "found", el != nil)
	return &input.Resolution{
		Element:       el,
		ExpectedValue: expectedValue,
	}, nil
}

// ResolveBySelector waits for selector on page and then looks it up. Any wait
// failure is reported as a *SelectorTimeoutError.
func (r *ElementResolver) ResolveBySelector(ctx context.Context, page output.PagePort, selector, expectedValue string, opts ...entity.WaitOptions) (*input.Resolution, error) {
	if _, err := pageArg(page); err != nil {
		return nil, err
	}

	options := DefaultWaitForSelectorOptions(opts...)
	log := r.log.WithFields(map[string]any{
		"selector": selector,
		"timeout":  options.Timeout.String(),
	})

	start := time.Now()
	if err := page.WaitForSelector(ctx, selector, options); err != nil {
		log.Warn("selector wait failed", "elapsed_ms", time.Since(start).Milliseconds(), "error", err.Error())
		return nil, &SelectorTimeoutError{Selector: selector, Err: err}
	}

	el, err := page.Query(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", Quote(selector), err)
	}

	log.Debug("resolved selector", "elapsed_ms", time.Since(start).Milliseconds(), "found", el != nil)
	return &input.Resolution{
		Element:       el,
		Selector:      selector,
		HasSelector:   true,
		ExpectedValue: expectedValue,
	}, nil
}

func pageArg(v any) (output.PagePort, error) {
	kind, err := DetectTargetKind(v)
	if err != nil {
		return nil, err
	}
	if kind != entity.TargetKindPage {
		return nil, fmt.Errorf("%w: selector lookup needs a %s, got %s", ErrInvalidArgument, entity.TargetKindPage, kind)
	}

	page, ok := v.(output.PagePort)
	if !ok {
		return nil, fmt.Errorf("%w: %T is tagged %s but is not a page", ErrInvalidArgument, v, kind)
	}
	return page, nil
}

func stringArg(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgument, name, v)
	}
	return s, nil
}
