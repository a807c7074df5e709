package render

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

//go:embed templates/registration.ets.tmpl
var templatesFS embed.FS

const defaultTemplatePath = "templates/registration.ets.tmpl"

// Data is bound to the registration template.
type Data struct {
	// PageList holds the pages of one source file in match order.
	PageList []arkroute.PageRegistrationEntry

	ModuleName        string
	SourceFile        string
	GeneratedFileName string

	// Vars are user supplied key/value pairs from config and --var flags.
	Vars map[string]string
}

// Renderer renders registration sources from a parsed template.
// A Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	name string
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"lower":    strings.ToLower,
	"upper":    strings.ToUpper,
	"basename": func(p string) string { return p[strings.LastIndex(p, "/")+1:] },
}

// DefaultSource returns the built-in registration template.
func DefaultSource() string {
	src, err := templatesFS.ReadFile(defaultTemplatePath)
	if err != nil {
		panic(fmt.Sprintf("embedded template missing: %v", err))
	}
	return string(src)
}

// Default returns a renderer for the built-in template.
func Default() *Renderer {
	r, err := Parse("registration", DefaultSource())
	if err != nil {
		panic(err)
	}
	return r
}

// Parse compiles src. Referencing a missing key is a render error.
func Parse(name, src string) (*Renderer, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %v: %w", name, err, arkroute.ErrTemplate)
	}
	return &Renderer{name: name, tmpl: tmpl}, nil
}

// Load reads and compiles a template file. An empty path selects the built-in template.
func Load(fs filesystem.FileSystemProvider, path string) (*Renderer, error) {
	if path == "" {
		return Default(), nil
	}
	src, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %v: %w", path, err, arkroute.ErrTemplate)
	}
	return Parse(path, string(src))
}

// Name identifies the template in messages.
func (r *Renderer) Name() string {
	return r.name
}

// Render executes the template against data.
func (r *Renderer) Render(data Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s with %s: %v: %w", data.GeneratedFileName, r.name, err, arkroute.ErrTemplate)
	}
	return buf.Bytes(), nil
}
