package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"sort"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names
const (
	PageHome     = "home"
	PageAbout    = "about"
	PageProjects = "projects"
	PageProject  = "project"
	PageNotFound = "not_found"
)

var pageNames = []string{PageHome, PageAbout, PageProjects, PageProject, PageNotFound}

// sharedFiles hold the layout and the partials every page uses
var sharedFiles = []string{"layout.html", "partials.html"}

// Renderer executes the page templates
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates
func New() (*Renderer, error) {
	return NewFromFS(templateFS, "templates")
}

// NewFromFS parses the shared files and one file per page from dir in fsys.
// Each page gets its own template set so every page can define "content".
func NewFromFS(fsys fs.FS, dir string) (*Renderer, error) {
	patterns := make([]string, len(sharedFiles))
	for i, f := range sharedFiles {
		patterns[i] = path.Join(dir, f)
	}

	shared, err := template.New("shared").Funcs(FuncMap()).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse layout", Cause: err}
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := shared.Clone()
		if err != nil {
			return nil, &TemplateError{Message: fmt.Sprintf("failed to clone layout for %s", name), Cause: err}
		}
		if _, err := t.ParseFS(fsys, path.Join(dir, name+".html")); err != nil {
			return nil, &TemplateError{Message: fmt.Sprintf("failed to parse page %s", name), Cause: err}
		}
		r.pages[name] = t
	}
	return r, nil
}

// Pages returns the names of the parsed pages, sorted
func (r *Renderer) Pages() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes page with data and writes the result to w.
// Nothing is written if execution fails.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return &RenderError{Message: fmt.Sprintf("unknown page %q", page)}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return &TemplateError{Message: fmt.Sprintf("failed to execute page %s", page), Cause: err}
	}

	if _, err := buf.WriteTo(w); err != nil {
		return &RenderError{Message: "failed to write page", Cause: err}
	}
	return nil
}
