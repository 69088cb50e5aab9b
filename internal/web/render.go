// Package web provides the HTML presentation layer: template rendering for
// the notes pages and static asset serving.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/kuitang/notes-service/internal/notes"
)

//go:embed templates
var templateFS embed.FS

// PageData carries fields every page template needs.
type PageData struct {
	Title string
}

// NoteListData feeds the notes listing page.
type NoteListData struct {
	PageData
	Notes []notes.Note
}

// NoteData feeds the detail, edit, and delete pages.
type NoteData struct {
	PageData
	Note notes.Note
}

// ErrorData feeds the error page.
type ErrorData struct {
	PageData
	Code    int
	Message string
}

// Renderer renders HTML pages from the embedded templates. Each page
// template is combined with the shared base layout at construction time.
type Renderer struct {
	templates map[string]*template.Template
	mu        sync.RWMutex
}

// NewRenderer parses the embedded templates. base.html is the layout;
// every other template under templates/ is a page combined with it.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}
	if err := r.parseTemplates(); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return r, nil
}

func (r *Renderer) parseTemplates() error {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.UTC().Format("Jan 2, 2006 15:04")
		},
	}

	base, err := fs.ReadFile(templateFS, "templates/base.html")
	if err != nil {
		return fmt.Errorf("base template missing: %w", err)
	}

	return fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") || path.Base(p) == "base.html" {
			return nil
		}

		page, err := fs.ReadFile(templateFS, p)
		if err != nil {
			return err
		}

		name := strings.TrimPrefix(p, "templates/")
		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(base))
		if err != nil {
			return fmt.Errorf("failed to parse base for %q: %w", name, err)
		}
		if _, err := tmpl.Parse(string(page)); err != nil {
			return fmt.Errorf("failed to parse template %q: %w", name, err)
		}

		r.mu.Lock()
		r.templates[name] = tmpl
		r.mu.Unlock()
		return nil
	})
}

// Render writes the named page with the given status code. The name is the
// path relative to templates/, e.g. "notes/list.html".
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return fmt.Errorf("template %q not found", name)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", name, err)
	}
	return nil
}
