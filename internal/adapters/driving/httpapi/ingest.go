package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
)

// multipartMemory is the in-memory part of a parsed upload; the rest spills
// to temporary files.
const multipartMemory = 32 << 20

// StatusResponse reports the status of an ingest.
type StatusResponse struct {
	Status domain.IngestStatus `json:"status"`
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleIngestText(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())

	var req driving.TextIngest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	receipt, err := s.services.Ingests.IngestText(r.Context(), principal, chi.URLParam(r, "p_uid"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleIngestUpload(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())

	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, invalidInput("file exceeds %d bytes", s.cfg.MaxUploadBytes))
			return
		}
		writeError(w, r, invalidInput("malformed multipart body: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, invalidInput("file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	opts := domain.IngestOptions{
		Options:  r.FormValue("options"),
		Splitter: r.FormValue("splitter"),
	}
	if raw := r.FormValue("chunks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, invalidInput("chunks must be an integer"))
			return
		}
		opts.Chunks = n
	}

	upload := driving.Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	receipt, err := s.services.Ingests.IngestFile(r.Context(), principal, chi.URLParam(r, "p_uid"), upload, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleIngestURL(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())

	var req driving.URLIngest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	receipt, err := s.services.Ingests.IngestURL(r.Context(), principal, chi.URLParam(r, "p_uid"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleIngestStatus(w http.ResponseWriter, r *http.Request) {
	id, err := ingestID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status, err := s.services.Ingests.Status(r.Context(), chi.URLParam(r, "p_uid"), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: status})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := driving.ListQuery{Q: q.Get("q")}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, invalidInput("limit must be an integer"))
			return
		}
		query.Limit = n
	}
	if raw := q.Get("after"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, r, invalidInput("after must be an integer"))
			return
		}
		query.After = &n
	}

	page, err := s.services.Ingests.List(r.Context(), chi.URLParam(r, "p_uid"), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if page.Results == nil {
		page.Results = []domain.Ingest{}
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleSourceChunks(w http.ResponseWriter, r *http.Request) {
	id, err := ingestID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	chunks, err := s.services.Ingests.SourceChunks(r.Context(), chi.URLParam(r, "p_uid"), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chunks)
}

func (s *Server) handleDeleteIngest(w http.ResponseWriter, r *http.Request) {
	id, err := ingestID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.services.Ingests.Delete(r.Context(), chi.URLParam(r, "p_uid"), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: driving.MessageIngestDeleted})
}

// handleTestIngest runs the pipeline inline. Debug only.
func (s *Server) handleTestIngest(w http.ResponseWriter, r *http.Request) {
	id, err := ingestID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := s.services.Processor.Process(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func ingestID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "ingest_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidInput("ingest id must be a positive integer")
	}
	return id, nil
}
