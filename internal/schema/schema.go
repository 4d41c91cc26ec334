// Package schema validates the JSON data files shared with the page-side
// scripts against embedded schemas.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const (
	Manifest = "manifest"
	Footer   = "footer"
)

//go:embed schemas/*.yaml
var schemaFS embed.FS

// ValidationError is a single schema violation.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	return e.Path + ": " + e.Message
}

// Result holds the outcome of a validation.
type Result struct {
	Valid  bool
	Errors []ValidationError
}

var (
	loadOnce sync.Once
	registry map[string]*gojsonschema.Schema
	loadErr  error
)

func load() {
	registry = make(map[string]*gojsonschema.Schema)
	for _, name := range []string{Manifest, Footer} {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".yaml")
		if err != nil {
			loadErr = fmt.Errorf("read schema %s: %w", name, err)
			return
		}

		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			loadErr = fmt.Errorf("parse schema %s: %w", name, err)
			return
		}
		jsonBytes, err := json.Marshal(doc)
		if err != nil {
			loadErr = fmt.Errorf("convert schema %s: %w", name, err)
			return
		}

		s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
		if err != nil {
			loadErr = fmt.Errorf("compile schema %s: %w", name, err)
			return
		}
		registry[name] = s
	}
}

// Validate checks a JSON document against the named schema. An error is
// returned only when the document or schema cannot be processed at all.
func Validate(name string, data []byte) (*Result, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("schema %s not found", name)
	}

	res, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", name, err)
	}

	out := &Result{Valid: res.Valid()}
	for _, verr := range res.Errors() {
		field := verr.Field()
		if field == "" {
			field = "(root)"
		}
		out.Errors = append(out.Errors, ValidationError{Path: field, Message: verr.Description()})
	}
	return out, nil
}

func ValidateManifest(data []byte) (*Result, error) {
	return Validate(Manifest, data)
}

func ValidateFooter(data []byte) (*Result, error) {
	return Validate(Footer, data)
}
