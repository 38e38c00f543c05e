package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/unitconv/pkg/buildinfo"
	"github.com/matzehuels/unitconv/pkg/diagram"
	"github.com/matzehuels/unitconv/pkg/errors"
	"github.com/matzehuels/unitconv/pkg/history"
	"github.com/matzehuels/unitconv/pkg/pipeline"
	"github.com/matzehuels/unitconv/pkg/session"
	"github.com/matzehuels/unitconv/pkg/units"
)

type convertResponse struct {
	Result     string `json:"result"`
	Category   string `json:"category,omitempty"`
	FromSymbol string `json:"from_symbol,omitempty"`
	ToSymbol   string `json:"to_symbol,omitempty"`
}

type tableResponse struct {
	Category string         `json:"category"`
	Value    string         `json:"value"`
	From     string         `json:"from"`
	Rows     []pipeline.Row `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry().Categories())
}

// handleUnits answers an unknown category with an empty list, not a 404.
func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry().Units(chi.URLParam(r, "category")))
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := pipeline.Request{
		Value:    q.Get("value"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Category: q.Get("category"),
	}
	strict, _ := strconv.ParseBool(q.Get("strict"))

	res, err := s.Runner.Convert(r.Context(), req)
	if err != nil {
		if !strict && errors.IsInvalidConversion(err) {
			writeJSON(w, http.StatusOK, convertResponse{Result: ""})
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convertResponse{
		Result:     res.Formatted,
		Category:   res.Category,
		FromSymbol: res.FromSymbol,
		ToSymbol:   res.ToSymbol,
	})
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	value := r.URL.Query().Get("value")
	if value == "" {
		value = session.DefaultInput
	}
	from := r.URL.Query().Get("from")
	if from == "" {
		if us := s.registry().Units(category); len(us) > 0 {
			from = us[0].Key
		}
	}

	rows, err := s.Runner.ConvertAll(r.Context(), value, from, category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{Category: category, Value: value, From: from, Rows: rows})
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	format := chi.URLParam(r, "format")
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	out, err := s.Runner.Diagram(r.Context(), category, format, diagram.Options{Detailed: detailed})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", diagram.ContentType(format))
	w.Header().Set("X-Cache", cacheHeader(out.Cached))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, session.Presets())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	if s.Runner.History == nil {
		writeJSON(w, http.StatusOK, []history.Record{})
		return
	}
	recs, err := s.Runner.History.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "read history"))
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) registry() *units.Registry {
	return s.Runner.Engine.Registry()
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
