package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCursor_Normalization(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		present bool
		value   string
	}{
		{name: "empty string", raw: "", present: false},
		{name: "whitespace only", raw: " \t\n ", present: false},
		{name: "plain token", raw: "cur-1", present: true, value: "cur-1"},
		{name: "padded token is trimmed", raw: "  cur-1  ", present: true, value: "cur-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.raw)
			assert.Equal(t, tt.present, c.Present())
			assert.Equal(t, tt.value, c.Value())
		})
	}
}

func TestAbsentCursor(t *testing.T) {
	c := AbsentCursor()
	assert.False(t, c.Present())
	assert.Empty(t, c.Value())
	assert.Equal(t, "<absent>", c.String())
}

func TestCursor_String(t *testing.T) {
	assert.Equal(t, "cur-9", NewCursor("cur-9").String())
}
