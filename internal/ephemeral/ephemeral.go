// Package ephemeral discovers and loads ephemeral-agent-type templates: the
// SPAWN directive's EPHEMERAL_TYPE names a template here, supplying the
// role preamble the spawned tester's api_call is built from. Adapted from
// the teacher's Agent Skills loader (YAML frontmatter + markdown body).
package ephemeral

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is one ephemeral-agent type: its name, a short description
// (parsed from the template's front matter; nothing else reads it), and the
// role preamble injected into the tester's api_call in place of the
// generic tester preamble.
type Template struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	RolePreamble string `yaml:"-"`
}

// Load reads <dir>/TEMPLATE.md and parses its frontmatter and body.
func Load(dir string) (*Template, error) {
	path := filepath.Join(dir, "TEMPLATE.md")
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	tpl, err := Parse(string(content))
	if err != nil {
		return nil, err
	}
	if tpl.Name == "" {
		tpl.Name = filepath.Base(dir)
	}
	return tpl, nil
}

// Parse parses one TEMPLATE.md's content: YAML frontmatter between "---"
// delimiters, then the role preamble body.
func Parse(content string) (*Template, error) {
	front, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}
	tpl := &Template{}
	if front != "" {
		if err := yaml.Unmarshal([]byte(front), tpl); err != nil {
			return nil, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}
	tpl.RolePreamble = strings.TrimSpace(body)
	return tpl, nil
}

func splitFrontmatter(content string) (frontmatter, body string, err error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", content, nil
	}

	var fmLines []string
	bodyStart := len(lines)
	closed := false
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			bodyStart = i + 1
			closed = true
			break
		}
		fmLines = append(fmLines, lines[i])
	}
	if !closed {
		return "", "", fmt.Errorf("unclosed frontmatter")
	}
	return strings.Join(fmLines, "\n"), strings.Join(lines[bodyStart:], "\n"), nil
}

// Registry holds every discovered template, keyed by name. "tester" is the
// only built-in type per spec; Discover lets a project add more.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry seeds a registry with the built-in "tester" template.
func NewRegistry() *Registry {
	return &Registry{
		templates: map[string]*Template{
			"tester": {
				Name:        "tester",
				Description: "Runs tests or ad-hoc analysis in a scratch pad, then reports back.",
				RolePreamble: "You are an ephemeral tester agent. You own a single scratch pad file. " +
					"Use READ to inspect project files, CHANGE/REPLACE to edit your scratch pad, " +
					"RUN to execute commands, and FINISH to report your result and terminate.",
			},
		},
	}
}

// Discover loads every <dir>/<name>/TEMPLATE.md under templatesDir,
// registering or overriding by name.
func (r *Registry) Discover(templatesDir string) error {
	entries, err := os.ReadDir(templatesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tpl, err := Load(filepath.Join(templatesDir, entry.Name()))
		if err != nil {
			continue
		}
		r.templates[tpl.Name] = tpl
	}
	return nil
}

// Lookup returns the named template.
func (r *Registry) Lookup(name string) (*Template, bool) {
	tpl, ok := r.templates[name]
	return tpl, ok
}
