package entity

import (
	"fmt"
	"time"
)

const DefaultWaitTimeout = 1000 * time.Millisecond

type ElementState string

const (
	ElementStateAttached ElementState = "attached"
	ElementStateVisible  ElementState = "visible"
)

func (s ElementState) String() string {
	return string(s)
}

// OrDefault maps the empty state to visible.
func (s ElementState) OrDefault() ElementState {
	if s == "" {
		return ElementStateVisible
	}
	return s
}

func (s ElementState) Validate() error {
	switch s.OrDefault() {
	case ElementStateAttached, ElementStateVisible:
		return nil
	}
	return fmt.Errorf("unsupported element state: %q", string(s))
}

// WaitOptions configures a wait-for-selector call. Extra holds caller keys
// that are carried along untouched.
type WaitOptions struct {
	Timeout time.Duration
	State   ElementState
	Extra   map[string]any
}
