package generation

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFiles embed.FS

// pageTemplate is one pre-authored page category. Keywords are matched
// case-insensitively by substring, in file order.
type pageTemplate struct {
	Name       string   `yaml:"name"`
	Keywords   []string `yaml:"keywords"`
	HTML       string   `yaml:"html"`
	CSS        string   `yaml:"css"`
	JavaScript string   `yaml:"javascript"`
}

// TemplateRegistry holds the ordered template rule list used for the
// deterministic short-circuit ahead of any remote-model call.
//
// The keyword set and matching order are load-bearing: the client's
// quick-example buttons are written to coincide with them, so the classifier
// must not be tightened or reordered.
type TemplateRegistry struct {
	templates []pageTemplate
}

// NewTemplateRegistry loads the embedded page templates.
func NewTemplateRegistry() (*TemplateRegistry, error) {
	data, err := templateFiles.ReadFile("templates/pages.yaml")
	if err != nil {
		return nil, fmt.Errorf("read page templates: %w", err)
	}

	var parsed struct {
		Templates []pageTemplate `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal page templates: %w", err)
	}

	for i, tpl := range parsed.Templates {
		if tpl.Name == "" || len(tpl.Keywords) == 0 || tpl.HTML == "" {
			return nil, fmt.Errorf("page template %d is incomplete", i)
		}
	}

	return &TemplateRegistry{templates: parsed.Templates}, nil
}

// Match classifies the prompt against the ordered rule list and returns the
// static artifact for the first category whose keyword occurs in the prompt.
func (r *TemplateRegistry) Match(prompt string) (*Result, bool) {
	lower := strings.ToLower(prompt)
	for _, tpl := range r.templates {
		for _, keyword := range tpl.Keywords {
			if strings.Contains(lower, keyword) {
				return &Result{
					HTML:       tpl.HTML,
					CSS:        tpl.CSS,
					JavaScript: tpl.JavaScript,
				}, true
			}
		}
	}
	return nil, false
}
