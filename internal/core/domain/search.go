package domain

// Search defaults used when neither the request nor the project sets a value.
const (
	DefaultTopK      = 2
	DefaultThreshold = 0.2
)

// FindQuery is an embeddings search request.
// K and Score are pointers so an explicit zero is distinct from unset.
type FindQuery struct {
	Text   string   `json:"text,omitempty"`
	Source string   `json:"source,omitempty"`
	K      *int     `json:"k,omitempty"`
	Score  *float64 `json:"score,omitempty"`
}

// ResolveK applies the top-k precedence: request, project, then DefaultTopK.
func (q FindQuery) ResolveK(p *Project) int {
	if q.K != nil && *q.K > 0 {
		return *q.K
	}
	if p != nil && p.K > 0 {
		return p.K
	}
	return DefaultTopK
}

// ResolveThreshold applies the similarity cutoff precedence. A request
// score of 0 is honoured; the project default only applies when unset.
func (q FindQuery) ResolveThreshold(p *Project) float64 {
	if q.Score != nil {
		return *q.Score
	}
	if p != nil && p.Score > 0 {
		return p.Score
	}
	return DefaultThreshold
}

// EmbeddingHit is one search result. Score is set only for similarity hits.
type EmbeddingHit struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Score  *float64 `json:"score,omitempty"`
	Text   string   `json:"text,omitempty"`
}
