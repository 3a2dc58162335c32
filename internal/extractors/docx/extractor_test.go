package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// createTestDOCX creates a minimal DOCX archive in memory.
func createTestDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	if documentXML != "" {
		doc, err := w.Create("word/document.xml")
		require.NoError(t, err)
		_, err = doc.Write([]byte(documentXML))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestSupports(t *testing.T) {
	e := New()
	assert.True(t, e.Supports(ContentType, ""))
	assert.True(t, e.Supports("application/octet-stream", "notes.DOCX"))
	assert.False(t, e.Supports("application/pdf", "a.pdf"))
}

func TestExtract(t *testing.T) {
	e := New()
	ctx := context.Background()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t>World</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
</w:body>
</w:document>`

	text, err := e.Extract(ctx, "a.docx", createTestDOCX(t, docXML))
	require.NoError(t, err)
	assert.Equal(t, "Hello World\nSecond paragraph", text)
}

func TestExtract_Invalid(t *testing.T) {
	e := New()
	ctx := context.Background()

	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("plain")},
		{"missing document", createTestDOCX(t, "")},
		{"bad xml", createTestDOCX(t, "<w:document><w:body>")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Extract(ctx, "a.docx", tc.data)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
