package macros

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// Param declares a named macro argument.
type Param struct {
	Name     string `yaml:"name"`
	Default  string `yaml:"default"`
	Required bool   `yaml:"required"`
}

// Definition is one macro loaded from a definition file.
type Definition struct {
	Name        string              `yaml:"name"`
	Version     string              `yaml:"version"`
	Description string              `yaml:"description"`
	Params      []Param             `yaml:"params"`
	Aliases     map[string][]string `yaml:"aliases"`
	Template    string              `yaml:"template"`

	// File is the path the definition was read from.
	File string `yaml:"-"`

	tmpl *template.Template
}

// ParseDefinition decodes, validates and compiles a definition. When file is
// set, the definition name must match the file stem.
func ParseDefinition(data []byte, file string, loc *time.Location) (*Definition, error) {
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	invalid := func(name, format string, args ...any) error {
		if name == "" {
			name = stem
		}
		return &Error{Name: name, File: file, Msg: fmt.Sprintf(format, args...), Err: ErrInvalidDefinition}
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalid("", "parse: %v", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, invalid("", "%v", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, invalid("", "decode: %v", err)
	}
	def.File = file
	def.Version = canonicalVersion(def.Version)

	if file != "" && def.Name != stem {
		return nil, invalid(def.Name, "name does not match file %s", filepath.Base(file))
	}
	seen := make(map[string]bool, len(def.Params))
	for _, p := range def.Params {
		if p.Name == "Args" {
			return nil, invalid(def.Name, "param name %q is reserved", p.Name)
		}
		if seen[p.Name] {
			return nil, invalid(def.Name, "duplicate param %q", p.Name)
		}
		seen[p.Name] = true
	}
	if loc == nil {
		loc = time.UTC
	}

	tmpl, err := template.New(def.Name).Option("missingkey=error").Funcs(funcMap(&def, loc)).Parse(def.Template)
	if err != nil {
		return nil, invalid(def.Name, "template: %v", err)
	}
	def.tmpl = tmpl
	return &def, nil
}

// Expand binds args to the definition and returns the expanded text with
// newlines flattened to spaces.
func (d *Definition) Expand(args Args) (string, error) {
	data := make(map[string]any, len(d.Params)+1)
	declared := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		declared = append(declared, p.Name)
		v, ok := args.Named[p.Name]
		if !ok || v == "" {
			if p.Required {
				return "", &Error{Name: d.Name, File: d.File, Msg: fmt.Sprintf("missing required argument %q", p.Name), Err: ErrInvalidInvocation}
			}
			v = p.Default
		}
		data[p.Name] = v
	}
	for _, k := range args.order {
		if _, ok := data[k]; !ok {
			return "", &Error{
				Name:       d.Name,
				File:       d.File,
				Msg:        fmt.Sprintf("unknown argument %q", k),
				Suggestion: suggest(k, declared),
				Err:        ErrInvalidInvocation,
			}
		}
	}
	positional := args.Positional
	if positional == nil {
		positional = []string{}
	}
	data["Args"] = positional

	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, data); err != nil {
		return "", &Error{Name: d.Name, File: d.File, Msg: err.Error(), Err: ErrInvalidInvocation}
	}
	out := strings.ReplaceAll(buf.String(), "\r\n", "\n")
	return strings.ReplaceAll(out, "\n", " "), nil
}

// expandAliases replaces each word that names an alias group with the group
// members; other words are kept as field names.
func (d *Definition) expandAliases(words []string) []string {
	var out []string
	for _, w := range words {
		if group, ok := d.Aliases[w]; ok {
			out = append(out, group...)
		} else {
			out = append(out, w)
		}
	}
	return out
}
