package web

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-analyst/internal/analysis"
	"ai-analyst/internal/extract"
	"ai-analyst/internal/session"
	"ai-analyst/internal/storage"
)

const sessionCookie = "analyst_session"

// Notices addressed by the ?notice= query parameter after a redirect.
var notices = map[string]Notice{
	"key_saved":     {Level: "success", Text: "API key configured."},
	"key_cleared":   {Level: "warning", Text: "API key removed. Please configure the API key."},
	"cache_cleared": {Level: "success", Text: "Cache cleared."},
	"deleted":       {Level: "info", Text: "History record deleted."},
	"not_found":     {Level: "warning", Text: "History record not found."},
}

// Handlers contains HTTP route handlers for the web UI and JSON API.
type Handlers struct {
	orch      *analysis.Orchestrator
	sessions  *session.Registry
	recorder  storage.Recorder
	renderer  *Renderer
	maxUpload int64
	title     string
	profile   string
	now       func() time.Time
}

// sessionFor returns the caller's session, issuing a cookie for new ones.
// API clients may pass the session ID in the X-Session-ID header instead.
// IDs the registry does not know are replaced with a generated one.
func (h *Handlers) sessionFor(w http.ResponseWriter, r *http.Request) *analysis.Session {
	id := r.Header.Get("X-Session-ID")
	if id == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
	}
	sess, ok := h.sessions.Get(id)
	if ok {
		sess.Touch(h.now())
		return sess
	}
	if id != "" {
		log.Printf("web: unknown session id, issuing a new one")
	}
	sess = h.sessions.GetOrCreate("")
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("X-Session-ID", sess.ID)
	return sess
}

func (h *Handlers) pageData(sess *analysis.Session) IndexPageData {
	catalog := h.orch.Catalog()
	selected := sess.Category()
	if selected == "" {
		selected = catalog.Default()
	}
	data := IndexPageData{
		PageData:   PageData{Title: h.title, Profile: h.profile},
		Categories: catalog.Names(),
		Selected:   selected,
		Accept:     strings.Join(extract.AcceptedExtensions, ","),
		Status:     sess.Status(),
		History:    sess.History.List(),
		ShowCache:  h.orch.Options().UseCache,
	}
	if cur, ok := sess.Current(); ok {
		data.Result = newResultView(cur)
	}
	return data
}

// HandleIndex handles GET /, the analysis page.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	data := h.pageData(sess)
	if n, ok := notices[r.URL.Query().Get("notice")]; ok {
		data.Notice = &n
	}
	h.renderer.renderPage(w, http.StatusOK, "index", data)
}

// HandleAnalyze handles POST /analyze: form submission with optional upload.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.renderer.renderError(w, r, http.StatusRequestEntityTooLarge, "upload too large or malformed: "+err.Error())
		return
	}

	category := r.FormValue("category")
	if name, ok := h.orch.Catalog().Canonical(category); ok {
		category = name
		sess.SetCategory(category)
	}
	if key := strings.TrimSpace(r.FormValue("api_key")); key != "" {
		sess.SetAPIKey(key)
	}

	req, err := h.requestFromForm(r)
	if err != nil {
		h.renderer.renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Category = category

	res := h.orch.Analyze(r.Context(), sess, req)

	data := h.pageData(sess)
	data.Notice = noticeFor(res)
	if !res.OK() {
		// keep what the user typed so they can fix it
		data.Content = r.FormValue("content")
	}
	h.renderer.renderPage(w, http.StatusOK, "index", data)
}

// requestFromForm prefers an uploaded file over the text area.
func (h *Handlers) requestFromForm(r *http.Request) (analysis.Request, error) {
	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return analysis.Request{}, err
	default:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return analysis.Request{}, err
		}
		if header.Filename != "" || len(data) > 0 {
			p, ok := extract.Extract(data, header.Header.Get("Content-Type"), header.Filename)
			if ok {
				return analysis.Request{Content: p.Text, Source: "uploaded " + p.Label}, nil
			}
		}
	}
	content := r.FormValue("content")
	if content == "" {
		return analysis.Request{}, nil
	}
	return analysis.Request{Content: content, Source: "entered text"}, nil
}

func noticeFor(res analysis.Result) *Notice {
	switch res.Kind {
	case analysis.KindOK:
		if res.FromCache {
			return &Notice{Level: "success", Text: "Analysis complete (from cache)."}
		}
		return &Notice{Level: "success", Text: "Analysis complete."}
	case analysis.KindRemoteFailure:
		return &Notice{Level: "error", Text: res.Text, Trace: res.Detail}
	default:
		return &Notice{Level: "warning", Text: res.Text}
	}
}

// HandleSetKey handles POST /key: store or clear the session credential.
func (h *Handlers) HandleSetKey(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	key := strings.TrimSpace(r.FormValue("api_key"))
	sess.SetAPIKey(key)
	if key == "" {
		redirectNotice(w, r, "key_cleared")
		return
	}
	redirectNotice(w, r, "key_saved")
}

// HandleClearCache handles POST /cache/clear.
func (h *Handlers) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	sess.ClearCache()
	log.Printf("session %s cleared its cache", sess.ID)
	redirectNotice(w, r, "cache_cleared")
}

// HandleReset handles POST /reset, the "analyze again" button.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	sess.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleShowHistory handles GET /history/{id}: show a past result.
func (h *Handlers) HandleShowHistory(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	if !sess.ShowHistory(r.PathValue("id")) {
		redirectNotice(w, r, "not_found")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleDeleteHistory handles POST /history/{id}/delete.
func (h *Handlers) HandleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(w, r)
	if !sess.DeleteHistory(r.PathValue("id")) {
		redirectNotice(w, r, "not_found")
		return
	}
	redirectNotice(w, r, "deleted")
}

func redirectNotice(w http.ResponseWriter, r *http.Request, notice string) {
	http.Redirect(w, r, "/?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}
