package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/interestlab/ledgerprep/internal/repository"
	"github.com/interestlab/ledgerprep/internal/schema"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	reader *repository.TableReader
	log    zerolog.Logger
}

// Query keys with a fixed meaning; every other key is a column filter.
var reservedParams = map[string]bool{
	"page":  true,
	"limit": true,
	"from":  true,
	"to":    true,
}

// --- helpers ---

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func parseDate(s string) (*civil.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

func parseFilter(q url.Values) (repository.TableFilter, error) {
	f := repository.TableFilter{
		Page:  parseIntDefault(q.Get("page"), 1),
		Limit: parseIntDefault(q.Get("limit"), 50),
	}

	var err error
	if f.From, err = parseDate(q.Get("from")); err != nil {
		return f, errors.New("from must be YYYY-MM-DD")
	}
	if f.To, err = parseDate(q.Get("to")); err != nil {
		return f, errors.New("to must be YYYY-MM-DD")
	}

	for key := range q {
		if reservedParams[key] {
			continue
		}
		if f.Equals == nil {
			f.Equals = make(map[string]string)
		}
		f.Equals[key] = q.Get(key)
	}
	return f, nil
}

// --- ListTables ---

func (h *Handlers) ListTables(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reader.Counts(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if counts == nil {
		counts = []repository.TableCount{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"tables": counts})
}

// --- ListTableRows ---

func (h *Handlers) ListTableRows(w http.ResponseWriter, r *http.Request) {
	h.listRows(w, r, chi.URLParam(r, "name"))
}

func (h *Handlers) tableView(table schema.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.listRows(w, r, table.Name)
	}
}

func (h *Handlers) listRows(w http.ResponseWriter, r *http.Request, name string) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, total, err := h.reader.List(r.Context(), name, filter)
	switch {
	case errors.Is(err, repository.ErrUnknownTable):
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, repository.ErrInvalidFilter):
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"table": name,
		"rows":  rows,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}
