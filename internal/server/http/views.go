package http

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"sync"
	"time"

	"ludoteca/internal/server/storage"
)

//go:embed views/*.html
var viewsFS embed.FS

const (
	layoutFile     = "layout.html"
	layoutTemplate = "layout"
)

// Views renders the embedded html/template pages for fiber's Ctx.Render.
// Every page is parsed together with the shared layout.
type Views struct {
	mu    sync.RWMutex
	fsys  fs.FS
	pages map[string]*template.Template
}

// NewViews parses the embedded pages
func NewViews() (*Views, error) {
	v := &Views{fsys: viewsFS}
	if err := v.Load(); err != nil {
		return nil, err
	}
	return v, nil
}

var viewFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format(storage.DateLayout)
	},
}

// Load parses every page under views/. Called again by fiber at startup.
func (v *Views) Load() error {
	files, err := fs.Glob(v.fsys, "views/*.html")
	if err != nil {
		return fmt.Errorf("failed to list views: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}
		t, err := template.New(name).Funcs(viewFuncs).ParseFS(v.fsys, "views/"+layoutFile, file)
		if err != nil {
			return fmt.Errorf("failed to parse view %s: %w", name, err)
		}
		pages[name] = t
	}

	v.mu.Lock()
	v.pages = pages
	v.mu.Unlock()
	return nil
}

// Render executes the named page. The optional layout names the template
// to start from and defaults to the shared layout.
func (v *Views) Render(w io.Writer, name string, bind interface{}, layouts ...string) error {
	v.mu.RLock()
	t, ok := v.pages[name]
	v.mu.RUnlock()
	if !ok {
		return fmt.Errorf("view %s not found", name)
	}

	entry := layoutTemplate
	if len(layouts) > 0 && layouts[0] != "" {
		entry = layouts[0]
	}
	return t.ExecuteTemplate(w, entry, bind)
}
