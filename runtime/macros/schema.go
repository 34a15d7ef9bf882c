package macros

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
)

const definitionSchema = `{
  "type": "object",
  "required": ["name", "template"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "pattern": "^[A-Za-z][A-Za-z0-9]*(_[A-Za-z0-9]+)*$"},
    "version": {"type": "string", "format": "semver"},
    "description": {"type": "string"},
    "params": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "pattern": "^[A-Za-z_][A-Za-z0-9_]*$"},
          "default": {"type": "string"},
          "required": {"type": "boolean"}
        }
      }
    },
    "aliases": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"type": "string"}}
    },
    "template": {"type": "string", "minLength": 1}
  }
}`

const schemaURL = "schema://macro-definition.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func definitionValidator() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if compiler.Formats == nil {
			compiler.Formats = make(map[string]func(interface{}) bool)
		}
		compiler.Formats["semver"] = func(v interface{}) bool {
			s, ok := v.(string)
			if !ok {
				return true
			}
			return semver.IsValid(canonicalVersion(s))
		}
		if err := compiler.AddResource(schemaURL, strings.NewReader(definitionSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// validateDocument checks a decoded YAML document against the definition
// schema. The document is normalised through JSON so numbers and maps have
// the shapes the validator expects.
func validateDocument(doc any) error {
	v, err := definitionValidator()
	if err != nil {
		return fmt.Errorf("schema compilation failed: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("definition is not a JSON-compatible document: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return err
	}
	return v.Validate(normalized)
}

// canonicalVersion accepts versions with or without the leading "v".
func canonicalVersion(s string) string {
	if s == "" {
		return "v0.0.0"
	}
	if !strings.HasPrefix(s, "v") {
		return "v" + s
	}
	return s
}
