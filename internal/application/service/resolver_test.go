package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"browser-expect/internal/application/port/output"
	"browser-expect/internal/domain/entity"
	"browser-expect/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeElement struct {
	name string
	kind entity.TargetKind
}

func (e *fakeElement) Kind() entity.TargetKind {
	if e.kind != "" {
		return e.kind
	}
	return entity.TargetKindElementHandle
}

func (e *fakeElement) Text(ctx context.Context) (string, error) { return e.name, nil }
func (e *fakeElement) HTML(ctx context.Context) (string, error) {
	return "<div>" + e.name + "</div>", nil
}

type waitCall struct {
	selector string
	opts     entity.WaitOptions
}

type fakePage struct {
	kind     entity.TargetKind
	elements map[string]*fakeElement
	waitErr  error
	queryErr error

	waits   []waitCall
	queries []string
}

func newFakePage() *fakePage {
	return &fakePage{
		elements: map[string]*fakeElement{
			"body":   {name: "body"},
			"#title": {name: "title"},
		},
	}
}

func (p *fakePage) Kind() entity.TargetKind {
	if p.kind != "" {
		return p.kind
	}
	return entity.TargetKindPage
}

func (p *fakePage) Query(ctx context.Context, selector string) (output.ElementPort, error) {
	p.queries = append(p.queries, selector)
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	el, ok := p.elements[selector]
	if !ok {
		return nil, nil
	}
	return el, nil
}

func (p *fakePage) WaitForSelector(ctx context.Context, selector string, opts entity.WaitOptions) error {
	p.waits = append(p.waits, waitCall{selector: selector, opts: opts})
	return p.waitErr
}

type frameTarget struct{}

func (frameTarget) Kind() entity.TargetKind { return "Frame" }

func newResolver() *ElementResolver {
	return NewElementResolver(logger.NewNop())
}

func TestDetectTargetKind(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected entity.TargetKind
		errMsg   string
	}{
		{"Page", newFakePage(), entity.TargetKindPage, ""},
		{"Element", &fakeElement{}, entity.TargetKindElementHandle, ""},
		{"Unknown tag", frameTarget{}, "", "could not recognize type: Frame"},
		{"Untagged value", 42, "", "could not recognize type: int"},
		{"Nil", nil, "", "could not recognize type: <nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := DetectTargetKind(tt.input)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tt.errMsg)
				assert.ErrorIs(t, err, ErrUnrecognizedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}
}

func TestDefaultWaitForSelectorOptions(t *testing.T) {
	t.Run("No options", func(t *testing.T) {
		opts := DefaultWaitForSelectorOptions()
		assert.Equal(t, entity.WaitOptions{Timeout: time.Second}, opts)
	})

	t.Run("Timeout override", func(t *testing.T) {
		opts := DefaultWaitForSelectorOptions(entity.WaitOptions{Timeout: 5 * time.Second})
		assert.Equal(t, entity.WaitOptions{Timeout: 5 * time.Second}, opts)
	})

	t.Run("Unknown keys pass through", func(t *testing.T) {
		opts := DefaultWaitForSelectorOptions(entity.WaitOptions{
			Timeout: 5 * time.Second,
			Extra:   map[string]any{"extra": "x"},
		})
		assert.Equal(t, 5*time.Second, opts.Timeout)
		assert.Equal(t, map[string]any{"extra": "x"}, opts.Extra)
	})

	t.Run("Zero fields keep defaults", func(t *testing.T) {
		opts := DefaultWaitForSelectorOptions(entity.WaitOptions{State: entity.ElementStateAttached})
		assert.Equal(t, entity.DefaultWaitTimeout, opts.Timeout)
		assert.Equal(t, entity.ElementStateAttached, opts.State)
	})

	t.Run("Caller map is not aliased", func(t *testing.T) {
		extra := map[string]any{"a": 1}
		opts := DefaultWaitForSelectorOptions(entity.WaitOptions{Extra: extra})
		opts.Extra["b"] = 2
		assert.Len(t, extra, 1)
	})

	t.Run("Later options win", func(t *testing.T) {
		opts := DefaultWaitForSelectorOptions(
			entity.WaitOptions{Timeout: 2 * time.Second},
			entity.WaitOptions{Timeout: 3 * time.Second},
		)
		assert.Equal(t, 3*time.Second, opts.Timeout)
	})
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "'#foo'", Quote("#foo"))
	assert.Equal(t, "''", Quote(""))
	assert.Equal(t, "'it's'", Quote("it's"))
	assert.Equal(t, "'<nil>'", Quote(nil))
}

func TestGetElementText_ElementTarget(t *testing.T) {
	el := &fakeElement{name: "button"}

	res, err := newResolver().GetElementText(context.Background(), el, "Submit")
	require.NoError(t, err)

	assert.Same(t, el, res.Element)
	assert.Equal(t, "Submit", res.ExpectedValue)
	assert.False(t, res.HasSelector)
	assert.Empty(t, res.Selector)
}

func TestGetElementText_PageTarget(t *testing.T) {
	page := newFakePage()

	res, err := newResolver().GetElementText(context.Background(), page, "Hello")
	require.NoError(t, err)

	assert.Same(t, page.elements["body"], res.Element)
	assert.Equal(t, "Hello", res.ExpectedValue)
	assert.False(t, res.HasSelector)
	assert.Equal(t, []string{"body"}, page.queries)
	assert.Empty(t, page.waits, "page target without selector must not wait")
}

func TestGetElementText_PageQueryError(t *testing.T) {
	page := newFakePage()
	page.queryErr = errors.New("cdp closed")

	_, err := newResolver().GetElementText(context.Background(), page, "Hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query 'body'")
	assert.Contains(t, err.Error(), "cdp closed")
}

func TestGetElementText_WithSelector(t *testing.T) {
	page := newFakePage()

	res, err := newResolver().GetElementText(context.Background(), page, "#title", "Welcome")
	require.NoError(t, err)

	assert.Same(t, page.elements["#title"], res.Element)
	assert.True(t, res.HasSelector)
	assert.Equal(t, "#title", res.Selector)
	assert.Equal(t, "Welcome", res.ExpectedValue)

	require.Len(t, page.waits, 1)
	assert.Equal(t, "#title", page.waits[0].selector)
	assert.Equal(t, entity.DefaultWaitTimeout, page.waits[0].opts.Timeout)
	assert.Equal(t, []string{"#title"}, page.queries)
}

func TestGetElementText_SelectorTimeout(t *testing.T) {
	page := newFakePage()
	page.waitErr = context.DeadlineExceeded

	_, err := newResolver().GetElementText(context.Background(), page, "#missing", "x")
	require.Error(t, err)

	assert.EqualError(t, err, "Timeout exceed for element '#missing'")
	assert.ErrorIs(t, err, ErrSelectorTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "cause stays reachable")

	var timeoutErr *SelectorTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "#missing", timeoutErr.Selector)
	assert.Empty(t, page.queries, "no query after a failed wait")
}

func TestGetElementText_InvalidLength(t *testing.T) {
	page := newFakePage()

	tests := []struct {
		name string
		args []any
		msg  string
	}{
		{"Zero", nil, "Invalid input length: 0"},
		{"One", []any{page}, "Invalid input length: 1"},
		{"Four", []any{page, "#title", "x", entity.WaitOptions{}}, "Invalid input length: 4"},
		{"Five", []any{page, "a", "b", "c", "d"}, "Invalid input length: 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newResolver().GetElementText(context.Background(), tt.args...)
			require.Error(t, err)
			assert.EqualError(t, err, tt.msg)
			assert.ErrorIs(t, err, ErrInvalidInputLength)
		})
	}
	assert.Empty(t, page.waits)
	assert.Empty(t, page.queries)
}

func TestGetElementText_UnrecognizedTarget(t *testing.T) {
	_, err := newResolver().GetElementText(context.Background(), frameTarget{}, "x")
	assert.EqualError(t, err, "could not recognize type: Frame")

	_, err = newResolver().GetElementText(context.Background(), "not a handle", "x")
	assert.EqualError(t, err, "could not recognize type: string")

	_, err = newResolver().GetElementText(context.Background(), frameTarget{}, "#a", "x")
	assert.ErrorIs(t, err, ErrUnrecognizedType)
}

func TestGetElementText_InvalidArguments(t *testing.T) {
	page := newFakePage()

	_, err := newResolver().GetElementText(context.Background(), page, 42)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = newResolver().GetElementText(context.Background(), page, 1, "x")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = newResolver().GetElementText(context.Background(), page, "#title", nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = newResolver().GetElementText(context.Background(), &fakeElement{}, "#title", "x")
	assert.ErrorIs(t, err, ErrInvalidArgument, "selector lookup needs a page")

	assert.Empty(t, page.waits)
}

func TestResolveDirect_MistaggedTarget(t *testing.T) {
	// an element tagged as a page cannot be queried
	_, err := newResolver().ResolveDirect(context.Background(), &fakeElement{kind: entity.TargetKindPage}, "x")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestResolveBySelector_CustomOptions(t *testing.T) {
	page := newFakePage()

	res, err := newResolver().ResolveBySelector(context.Background(), page, "#title", "Welcome", entity.WaitOptions{
		Timeout: 5 * time.Second,
		State:   entity.ElementStateAttached,
	})
	require.NoError(t, err)
	assert.Equal(t, "#title", res.Selector)

	require.Len(t, page.waits, 1)
	assert.Equal(t, 5*time.Second, page.waits[0].opts.Timeout)
	assert.Equal(t, entity.ElementStateAttached, page.waits[0].opts.State)
}

func TestResolveBySelector_ElementGoneAfterWait(t *testing.T) {
	page := newFakePage()

	res, err := newResolver().ResolveBySelector(context.Background(), page, "#flaky", "x")
	require.NoError(t, err)
	assert.Nil(t, res.Element)
	assert.True(t, res.HasSelector)
}

func TestResolveBySelector_LogsWaitFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	resolver := NewElementResolver(logger.FromZap(zap.New(core)))

	page := newFakePage()
	page.waitErr = errors.New("context deadline exceeded")

	_, err := resolver.ResolveBySelector(context.Background(), page, "#missing", "x")
	require.Error(t, err)

	warns := logs.FilterMessage("selector wait failed").All()
	require.Len(t, warns, 1)
	fields := warns[0].ContextMap()
	assert.Equal(t, "#missing", fields["selector"])
	assert.Equal(t, "1s", fields["timeout"])
	assert.Equal(t, "context deadline exceeded", fields["error"])
}
