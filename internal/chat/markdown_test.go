package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "heading markers stripped",
			input:    "## Your subscriptions",
			contains: []string{"Your subscriptions"},
			excludes: []string{"##"},
		},
		{
			name:     "bold markers stripped",
			input:    "You spend **£45.97** per month",
			contains: []string{"£45.97", "per month"},
			excludes: []string{"**"},
		},
		{
			name:     "inline code markers stripped",
			input:    "run `subtally import` to start",
			contains: []string{"subtally import"},
			excludes: []string{"`"},
		},
		{
			name:     "bullets replaced",
			input:    "- Netflix\n- Spotify",
			contains: []string{"• ", "Netflix", "Spotify"},
		},
		{
			name:     "plain text passes through",
			input:    "nothing special here",
			contains: []string{"nothing special here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderMarkdown(tt.input)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestRenderMarkdown_PreservesLineCount(t *testing.T) {
	input := "line one\nline two\nline three"
	out := RenderMarkdown(input)
	assert.Len(t, strings.Split(out, "\n"), 3)
}
