package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ai-analyst/internal/analysis"
	"ai-analyst/internal/analytics"
	"ai-analyst/internal/extract"
	"ai-analyst/internal/history"
)

type analyzeRequest struct {
	Content  string `json:"content"`
	Category string `json:"category"`
	APIKey   string `json:"api_key"`
	// Optional file form: raw text of the file plus its declared type and name.
	File     string `json:"file"`
	FileType string `json:"file_type"`
	FileName string `json:"file_name"`
}

// HandleAPIAnalyze handles POST /api/analyze.
func (h *Handlers) HandleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	var body analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUpload))
	if err := dec.Decode(&body); err != nil {
		h.renderer.renderError(w, r, http.StatusBadRequest, "invalid JSON request: "+err.Error())
		return
	}

	req := analysis.Request{Content: body.Content, Category: body.Category, APIKey: body.APIKey, Source: "entered text"}
	if body.FileName != "" || body.File != "" {
		if p, ok := extract.Extract([]byte(body.File), body.FileType, body.FileName); ok {
			req.Content = p.Text
			req.Source = "uploaded " + p.Label
		}
	}

	res := h.orch.Analyze(r.Context(), sess, req)
	status := http.StatusOK
	var aerr *analysis.Error
	if errors.As(res.Err(), &aerr) {
		status = aerr.Status()
	}
	renderJSON(w, status, res)
}

// HandleAPIHistory handles GET /api/history.
func (h *Handlers) HandleAPIHistory(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	records := sess.History.List()
	if records == nil {
		records = []history.Record{}
	}
	renderJSON(w, http.StatusOK, map[string]any{"records": records})
}

// HandleAPIDeleteHistory handles DELETE /api/history/{id}.
func (h *Handlers) HandleAPIDeleteHistory(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	if !sess.DeleteHistory(r.PathValue("id")) {
		h.renderer.renderError(w, r, http.StatusNotFound, "history record not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAPIClearCache handles DELETE /api/cache.
func (h *Handlers) HandleAPIClearCache(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	sess.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

// HandleAPIStatus handles GET /api/status.
func (h *Handlers) HandleAPIStatus(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	renderJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"profile":    h.profile,
		"categories": h.orch.Catalog().Names(),
		"session":    sess.Status(),
		"cache":      sess.Cache.Stats(),
		"sessions":   h.sessions.Len(),
		"time":       h.now().UTC().Format(time.RFC3339),
	})
}

// HandleAPIStats handles GET /api/stats?date=YYYY-MM-DD: usage aggregated
// from the usage log.
func (h *Handlers) HandleAPIStats(w http.ResponseWriter, r *http.Request) {
	if h.recorder == nil {
		h.renderer.renderError(w, r, http.StatusNotFound, "usage log is not configured")
		return
	}
	day := h.now().UTC()
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			h.renderer.renderError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = d
	}
	events, err := h.recorder.LoadEvents()
	if err != nil {
		h.renderer.renderError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	renderJSON(w, http.StatusOK, analytics.AnalyzeDailyLogs(events, day))
}
