package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare label", "F7.1", "F7.1"},
		{"label with description", "F7.1 - Inspection Reports", "F7.1"},
		{"leading whitespace", "  F7.1", "F7.1"},
		{"root label", "F", "F"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLabel(tt.input))
		})
	}
}

func TestFullLabel(t *testing.T) {
	tag := Tag{Label: "F7.1", Description: "Inspection Reports"}
	assert.Equal(t, "F7.1 - Inspection Reports", tag.FullLabel())
}

func TestFullLabel_NoDescription(t *testing.T) {
	tag := Tag{Label: "F7"}
	assert.Equal(t, "F7 -", tag.FullLabel())
}

func TestIsRoot(t *testing.T) {
	assert.True(t, Tag{Label: "F"}.IsRoot())
	assert.False(t, Tag{Label: "F7", ParentLabel: "F"}.IsRoot())
}
