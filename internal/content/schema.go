package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed roadmap.schema.json
var schemaJSON []byte

const schemaURL = "https://roadmap.local/schema/roadmap.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// ValidationError is a single schema violation at a location in the document.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func roadmapSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// ValidateSchema checks a raw document against the embedded roadmap schema.
// Every leaf violation is returned, sorted by path.
func ValidateSchema(data []byte, format Format) []error {
	doc, err := toJSON(data, format)
	if err != nil {
		return []error{err}
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return []error{fmt.Errorf("decoding document: %w", err)}
	}

	schema, err := roadmapSchema()
	if err != nil {
		return []error{err}
	}
	if err := schema.Validate(v); err != nil {
		return schemaErrors(err)
	}
	return nil
}

func schemaErrors(err error) []error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{&ValidationError{Message: err.Error()}}
	}
	var out []*ValidationError
	collectSchemaErrors(ve, &out)
	if len(out) == 0 {
		return []error{&ValidationError{Message: ve.Message}}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	errs := make([]error, 0, len(out))
	seen := make(map[string]bool)
	for _, e := range out {
		k := e.Error()
		if seen[k] {
			continue
		}
		seen[k] = true
		errs = append(errs, e)
	}
	return errs
}

func collectSchemaErrors(err *jsonschema.ValidationError, out *[]*ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*out = append(*out, &ValidationError{
			Path:    pointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, out)
	}
}

// pointerToPath turns a JSON pointer such as /weeks/0/days into weeks[0].days.
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	if ptr == "" || ptr == "/" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
