package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// SearchResponse wraps search hits.
type SearchResponse struct {
	Embeddings []domain.EmbeddingHit `json:"embeddings"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Embeddings.Reset(r.Context(), chi.URLParam(r, "p_uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query domain.FindQuery
	if err := decodeJSON(r, &query); err != nil {
		writeError(w, r, err)
		return
	}

	hits, err := s.services.Embeddings.Find(r.Context(), chi.URLParam(r, "p_uid"), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if hits == nil {
		hits = []domain.EmbeddingHit{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Embeddings: hits})
}

func (s *Server) handleGetChunk(w http.ResponseWriter, r *http.Request) {
	chunk, err := s.services.Embeddings.Get(r.Context(), chi.URLParam(r, "p_uid"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chunk)
}
