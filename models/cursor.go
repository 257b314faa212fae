// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Fintrack Labs

package models

import "strings"

// Cursor is an opaque position token in the upstream change stream.
//
// An absent cursor means "no progress yet" and requests a full initial sync.
// Null, empty, and whitespace-only values all collapse into the absent
// variant at construction time so that the rest of the engine never has to
// agree on which of the three encodings means "start from the beginning".
type Cursor struct {
	value   string
	present bool
}

// NewCursor normalizes raw into a Cursor. The value is trimmed; an empty
// result yields the absent cursor.
func NewCursor(raw string) Cursor {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cursor{}
	}

	return Cursor{value: trimmed, present: true}
}

// AbsentCursor returns the explicit "no progress yet" cursor.
func AbsentCursor() Cursor {
	return Cursor{}
}

// Present reports whether the cursor holds a position token.
func (c Cursor) Present() bool {
	return c.present
}

// Value returns the raw token, or "" for the absent cursor.
func (c Cursor) Value() string {
	return c.value
}

// String implements fmt.Stringer. The absent cursor renders as "<absent>"
// so log output distinguishes it from an empty token.
func (c Cursor) String() string {
	if !c.present {
		return "<absent>"
	}

	return c.value
}
