package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/statute-core/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid date"`
}

// NotYetInForceResponse is returned for dates before enactment
// @Description Document not yet in force on the requested date
type NotYetInForceResponse struct {
	Error         string `json:"error" example:"document 1977:1160 not yet in force on 1970-01-01 (enacted 1977-12-19)"`
	DocumentID    string `json:"document_id" example:"1977:1160"`
	EnactmentDate string `json:"enactment_date" example:"1977-12-19"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionDatesResponse lists the dates a document changed on
// @Description Version dates, newest first
type VersionDatesResponse struct {
	DocumentID string   `json:"document_id" example:"1977:1160"`
	Dates      []string `json:"dates" example:"2019-01-01,2013-07-01"`
}

// InvalidateResponse reports how many cached results were dropped
// @Description Cache invalidation result
type InvalidateResponse struct {
	DocumentID string `json:"document_id" example:"1977:1160"`
	Deleted    int    `json:"deleted" example:"12"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings the statute store and, when configured, the version cache
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			s.logger.Warn("store not ready", "error", err)
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			s.logger.Warn("cache not ready", "error", err)
			writeError(w, http.StatusServiceUnavailable, "cache unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Statute endpoints

// handleGetVersion godoc
// @Summary      Reconstruct a statute on a date
// @Description  Returns every section as it read on the date. Historical mode never applies amendments that are not yet in force; preview mode does.
// @Tags         Statutes
// @Produce      json
// @Param        id    path   string  true   "Document id, e.g. 1977:1160 or SFS 1977:1160"
// @Param        date  path   string  true   "Date (YYYY-MM-DD)"
// @Param        mode  query  string  false  "historical (default) or preview"
// @Success      200  {object}  domain.ReconstructedVersion
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  NotYetInForceResponse
// @Router       /statutes/{id}/versions/{date} [get]
func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseDate(r.PathValue("date"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	mode := domain.VersionMode(r.URL.Query().Get("mode"))

	v, err := s.versionService.Version(r.Context(), r.PathValue("id"), date, mode)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleGetHistory godoc
// @Summary      Amendment history
// @Description  Lists amendments newest first with per-kind section change counts; undated amendments come last
// @Tags         Statutes
// @Produce      json
// @Param        id  path  string  true  "Document id"
// @Success      200  {object}  domain.AmendmentHistory
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /statutes/{id}/history [get]
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	h, err := s.versionService.History(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

// handleGetVersionDates godoc
// @Summary      Version dates
// @Description  Dates on which the document changed, newest first
// @Tags         Statutes
// @Produce      json
// @Param        id  path  string  true  "Document id"
// @Success      200  {object}  VersionDatesResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /statutes/{id}/dates [get]
func (s *Server) handleGetVersionDates(w http.ResponseWriter, r *http.Request) {
	dates, err := s.versionService.VersionDates(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	id, _ := domain.NormalizeDocumentID(r.PathValue("id"))
	resp := VersionDatesResponse{DocumentID: id, Dates: make([]string, len(dates))}
	for i, d := range dates {
		resp.Dates[i] = domain.FormatDate(d)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetSectionHistory godoc
// @Summary      Section history
// @Description  Chronological validity intervals of one section, future intervals flagged as pending
// @Tags         Statutes
// @Produce      json
// @Param        id       path   string  true   "Document id"
// @Param        chapter  query  string  false  "Chapter, e.g. 4 or 4 kap."
// @Param        section  query  string  true   "Section, e.g. 3 a or 3a §"
// @Success      200  {object}  domain.SectionHistory
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /statutes/{id}/sections/history [get]
func (s *Server) handleGetSectionHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h, err := s.versionService.SectionHistory(r.Context(), r.PathValue("id"), q.Get("chapter"), q.Get("section"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

// handleGetDiff godoc
// @Summary      Compare two dates
// @Description  Section level comparison of the document on two dates, in either order
// @Tags         Statutes
// @Produce      json
// @Param        id            path   string  true   "Document id"
// @Param        from          query  string  true   "First date (YYYY-MM-DD)"
// @Param        to            query  string  true   "Second date (YYYY-MM-DD)"
// @Param        mode          query  string  false  "historical (default) or preview"
// @Param        changed_only  query  bool    false  "Omit unchanged sections"
// @Param        patch         query  bool    false  "Include a unified patch per changed section"
// @Param        context       query  int     false  "Patch context lines (default 3)"
// @Success      200  {object}  domain.DiffResult
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  NotYetInForceResponse
// @Router       /statutes/{id}/diff [get]
func (s *Server) handleGetDiff(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := domain.ParseDate(q.Get("from"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	to, err := domain.ParseDate(q.Get("to"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	var opts domain.DiffOptions
	if opts.ChangedOnly, err = queryBool(q.Get("changed_only")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid changed_only")
		return
	}
	if opts.IncludePatch, err = queryBool(q.Get("patch")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid patch")
		return
	}
	if c := q.Get("context"); c != "" {
		if opts.Context, err = strconv.Atoi(c); err != nil || opts.Context < 0 {
			writeError(w, http.StatusBadRequest, "invalid context")
			return
		}
	}

	result, err := s.versionService.Diff(r.Context(), r.PathValue("id"), from, to, domain.VersionMode(q.Get("mode")), opts)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleInvalidateCache godoc
// @Summary      Invalidate cached results
// @Description  Drops every cached version, diff and history of a document
// @Tags         Statutes
// @Produce      json
// @Param        id  path  string  true  "Document id"
// @Success      200  {object}  InvalidateResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /statutes/{id}/cache [delete]
func (s *Server) handleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	n, err := s.versionService.Invalidate(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	id, _ := domain.NormalizeDocumentID(r.PathValue("id"))
	writeJSON(w, http.StatusOK, InvalidateResponse{DocumentID: id, Deleted: n})
}

// writeServiceError maps domain errors to status codes. Unexpected errors are
// logged and hidden behind a generic message.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var nyif *domain.NotYetInForceError
	switch {
	case errors.As(err, &nyif):
		writeJSON(w, http.StatusUnprocessableEntity, NotYetInForceResponse{
			Error:         err.Error(),
			DocumentID:    nyif.DocumentID,
			EnactmentDate: domain.FormatDate(nyif.EnactmentDate),
		})
	case errors.Is(err, domain.ErrDataIntegrity), errors.Is(err, domain.ErrUnknownChangeKind):
		s.logger.Error("stored statute data rejected", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	case errors.Is(err, domain.ErrServiceUnavailable):
		s.logger.Error("backing store unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, domain.ErrServiceUnavailable.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func queryBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
