package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupports(t *testing.T) {
	e := New()
	assert.True(t, e.Supports("text/html", ""))
	assert.True(t, e.Supports("application/xhtml+xml", ""))
	assert.True(t, e.Supports("", "page.HTM"))
	assert.False(t, e.Supports("text/plain", "page.txt"))
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "paragraphs",
			input:    "<p>First</p><p>Second</p>",
			expected: "First\nSecond",
		},
		{
			name:     "scripts and styles removed",
			input:    "<style>body{}</style><p>Text</p><script>alert(1)</script>",
			expected: "Text",
		},
		{
			name:     "entities decoded",
			input:    "<p>Fish &amp; Chips &lt;3</p>",
			expected: "Fish & Chips <3",
		},
		{
			name:     "comments removed",
			input:    "<!-- note --><div>Body</div>",
			expected: "Body",
		},
		{
			name:     "line breaks",
			input:    "one<br/>two<br>three",
			expected: "one\ntwo\nthree",
		},
		{
			name:     "spaces collapsed",
			input:    "<span>a    b</span>\t c",
			expected: "a b c",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripHTML(tc.input))
		})
	}
}

func TestExtract_WithTitle(t *testing.T) {
	e := New()
	page := `<html><head><title>My &amp; Page</title></head><body><h1>Heading</h1><p>Body text.</p></body></html>`

	text, err := e.Extract(context.Background(), "page.html", []byte(page))
	require.NoError(t, err)
	assert.Equal(t, "My & Page\nHeading\nBody text.", text)
}
