package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"jobportal-web/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the data every page template receives
type Page struct {
	Title     string
	User      *session.Identity
	Notice    string
	Error     string
	RequestID string
	Data      interface{}
}

// SignedIn reports whether a user is attached to the page
func (p Page) SignedIn() bool { return p.User != nil }

// IsAdmin reports whether the attached user is an admin
func (p Page) IsAdmin() bool { return p.User != nil && p.User.IsAdmin() }

// Renderer renders the embedded page templates for echo
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"pages": func(total int) []int {
		out := make([]int, total)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
	"lower": strings.ToLower,
}

// New parses the layout, the shared partials and every page
func New() (*Renderer, error) {
	base, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/_*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		if name == "layout" || strings.HasPrefix(name, "_") {
			continue
		}

		tmpl, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tmpl.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	return r, nil
}

// Render implements echo.Renderer
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Has reports whether a page template exists
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
