package domain

// Document is text produced by a connector or by file extraction,
// before it is split into chunks.
type Document struct {
	// ID identifies the document within its source. Connector documents use
	// the value of their source type's id field.
	ID string `json:"id"`

	// Text is the full document content.
	Text string `json:"text"`

	// Metadata varies by connector (file name, page id, channel, file path).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MetadataString returns a metadata value as a string, or "" when absent.
func (d *Document) MetadataString(key string) string {
	v, ok := d.Metadata[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// Chunk is a unit of content stored in a project's vector index.
type Chunk struct {
	// ID is the node id returned by searches.
	ID string `json:"id"`

	// Source tags every chunk produced from the same ingest or document.
	Source string `json:"source"`

	// Text is the chunk content.
	Text string `json:"text"`

	// Position is the ordinal position within the source.
	Position int `json:"position"`

	// Metadata carries ingest options and connector metadata.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Embedding is the vector representation, omitted from responses.
	Embedding []float32 `json:"-"`
}

// SourceChunks lists every chunk tagged with one source.
type SourceChunks struct {
	IDs       []string         `json:"ids"`
	Documents []string         `json:"documents,omitempty"`
	Metadatas []map[string]any `json:"metadatas,omitempty"`
}

// NewSourceChunks flattens chunks into the lookup-by-source shape.
// An empty input yields a non-nil empty id list.
func NewSourceChunks(chunks []Chunk) SourceChunks {
	out := SourceChunks{IDs: make([]string, 0, len(chunks))}
	if len(chunks) == 0 {
		return out
	}
	out.Documents = make([]string, 0, len(chunks))
	out.Metadatas = make([]map[string]any, 0, len(chunks))
	for i := range chunks {
		out.IDs = append(out.IDs, chunks[i].ID)
		out.Documents = append(out.Documents, chunks[i].Text)
		out.Metadatas = append(out.Metadatas, chunks[i].Metadata)
	}
	return out
}
