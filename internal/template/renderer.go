// Package template renders email HTML from embedded Liquid templates.
package template

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/osteele/liquid"
)

//go:embed templates/*.liquid
var templateFS embed.FS

// CardTemplate is the branded card layout used by the designed-send endpoints.
const CardTemplate = "card"

// Renderer renders named email templates. Rendering is pure and stateless:
// templates are parsed once at construction and the same context always
// produces the same output. Text fields are escaped inside the templates;
// body_html is the one intentional raw-HTML passthrough.
type Renderer struct {
	templates map[string]*liquid.Template
}

// NewRenderer parses the embedded templates and registers filters.
func NewRenderer() (*Renderer, error) {
	engine := liquid.NewEngine()

	// Default value filter: {{ title | default: "Welcome" }}
	engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		if s := fmt.Sprintf("%v", value); s == "" || s == "<nil>" {
			return defaultVal
		}
		return value
	})

	templates := make(map[string]*liquid.Template)
	err := fs.WalkDir(templateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		src, err := templateFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}
		tpl, err := engine.ParseString(string(src))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		name := strings.TrimSuffix(d.Name(), ".html.liquid")
		templates[name] = tpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Renderer{templates: templates}, nil
}

// Render renders the named template with the given context. Missing context
// fields render empty per Liquid's nil handling.
func (r *Renderer) Render(name string, ctx map[string]interface{}) (string, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	out, err := tpl.RenderString(ctx)
	if err != nil {
		return "", fmt.Errorf("render template %q: %w", name, err)
	}
	return out, nil
}
