package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	"ai-analyst/internal/analysis"
	"ai-analyst/internal/history"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Profile string
}

// ResultView is the analysis shown in the result panel.
type ResultView struct {
	Category     string
	Source       string
	FromCache    bool
	RenderedHTML template.HTML
	Raw          string
}

// Notice is a one-off message above the panels.
type Notice struct {
	Level string // success, warning, error, info
	Text  string
	Trace string
}

// IndexPageData is the template data for the main page.
type IndexPageData struct {
	PageData
	Categories []string
	Selected   string
	Accept     string
	Content    string
	Status     analysis.Status
	Notice     *Notice
	Result     *ResultView
	History    []history.Record
	ShowCache  bool
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer(templateFS fs.FS) *Renderer {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"index": "index.html",
		"error": "error.html",
	}
	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}
	return &Renderer{templates: templates}
}

func (r *Renderer) renderPage(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, status int, message string) {
	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{"message": message, "status": status},
		})
		return
	}
	r.renderPage(w, status, "error", ErrorPageData{
		PageData:   PageData{Title: http.StatusText(status)},
		StatusCode: status,
		Message:    message,
	})
}

func wantsJSON(req *http.Request) bool {
	return strings.HasPrefix(req.URL.Path, "/api/") || strings.Contains(req.Header.Get("Accept"), "application/json")
}

func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderMarkdown converts model output to HTML. Raw HTML in the input is
// not passed through.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func newResultView(res analysis.Result) *ResultView {
	return &ResultView{
		Category:     res.Category,
		Source:       res.Source,
		FromCache:    res.FromCache,
		RenderedHTML: renderMarkdown(res.Text),
		Raw:          res.Text,
	}
}
