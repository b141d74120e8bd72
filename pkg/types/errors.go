// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Error markers. Callers classify failures with errors.Is.
var (
	ErrInput       = errors.New("input error")
	ErrTransport   = errors.New("transport error")
	ErrPersistence = errors.New("persistence error")
)

// Input errors that abort an operation before any remote call, or fail a
// single item.
var (
	ErrNoItems      = fmt.Errorf("%w: no items selected", ErrInput)
	ErrNoValidItems = fmt.Errorf("%w: no valid items selected", ErrInput)
	ErrNoTitle      = fmt.Errorf("%w: item has no title", ErrInput)
)
