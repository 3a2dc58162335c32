package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// sourceAliases are the short per-source routes kept for older clients.
var sourceAliases = []string{"drive", "notion", "slack", "discord", "github"}

func (s *Server) handleSourceIngest(w http.ResponseWriter, r *http.Request) {
	s.ingestSource(w, r, domain.ParseSourceType(chi.URLParam(r, "source")))
}

func (s *Server) sourceAlias(alias string) http.HandlerFunc {
	source := domain.ParseSourceType(alias)
	return func(w http.ResponseWriter, r *http.Request) {
		s.ingestSource(w, r, source)
	}
}

func (s *Server) ingestSource(w http.ResponseWriter, r *http.Request, source domain.SourceType) {
	principal, _ := PrincipalFrom(r.Context())

	var req domain.SourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.services.Sources.Ingest(r.Context(), principal, chi.URLParam(r, "p_uid"), source, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
