package extractors

import (
	"github.com/mhsabu/Neugrove/internal/extractors/docx"
	"github.com/mhsabu/Neugrove/internal/extractors/html"
	"github.com/mhsabu/Neugrove/internal/extractors/pdf"
	"github.com/mhsabu/Neugrove/internal/extractors/plaintext"
)

// NewDefaultRegistry returns a registry with the built-in extractors.
// Specific formats come before plaintext, which accepts any text/* type.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		pdf.New(),
		docx.New(),
		html.New(),
		plaintext.New(),
	)
}
