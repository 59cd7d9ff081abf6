// Package loader deserializes schema documents into the in-memory model.
// It accepts JSON and YAML input and either produces a complete document or
// fails with a MalformedError naming the offending path; there are no
// partial results. Structural failures here abort the run before any
// validation pass sees the model.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/bloxgen-xyz/go-bloxgen/schema"
)

// MalformedError reports a structural defect in the input document.
type MalformedError struct {
	Path   string // location within the document, e.g. "components[0].states[2].ident"
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed schema at %s: %s", e.Path, e.Reason)
}

func malformed(path, format string, args ...any) error {
	return &MalformedError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// FromFile loads a document, choosing the decoder by file extension
// (.yaml/.yml for YAML, anything else JSON).
func FromFile(path string) (*schema.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return FromJSON(data)
	}
}

// FromJSON parses a schema document from JSON bytes. Unknown keys are
// rejected, matching the YAML path, so typos fail loudly instead of silently
// dropping declarations.
func FromJSON(data []byte) (*schema.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc schema.Document
	if err := dec.Decode(&doc); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
			return nil, malformed(typeErr.Field, "expected %s, got JSON %s", typeErr.Type, typeErr.Value)
		}
		return nil, malformed("(document)", "invalid JSON: %v", err)
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// FromYAML parses a schema document from YAML bytes. Unknown keys are
// rejected so typos fail loudly instead of silently dropping declarations.
func FromYAML(data []byte) (*schema.Document, error) {
	var doc schema.Document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, malformed("(document)", "invalid YAML: %v", err)
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// validate walks the decoded document and checks the structural contract:
// every entity that the passes and the emitter rely on must be present.
// Semantic defects (cycles, dangling types, duplicates) are not checked
// here; those belong to the validation passes, which batch-report them.
func validate(doc *schema.Document) error {
	if len(doc.Components) == 0 {
		return malformed("components", "document declares no components")
	}
	for i := range doc.Components {
		if err := validateComponent(&doc.Components[i], fmt.Sprintf("components[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateComponent(c *schema.Component, path string) error {
	if c.Ident == "" {
		return malformed(path+".ident", "component identifier is required")
	}
	if len(c.States) == 0 {
		return malformed(path+".states", "component %q declares no states", c.Ident)
	}
	for i := range c.States {
		if c.States[i].Ident == "" {
			return malformed(fmt.Sprintf("%s.states[%d].ident", path, i), "state identifier is required")
		}
	}

	ms := &c.MessageSet
	if len(ms.Variants) > 0 && ms.Ident == "" {
		return malformed(path+".message_set.ident", "message set with variants needs an identifier")
	}
	for i := range ms.Variants {
		if ms.Variants[i].Ident == "" {
			return malformed(fmt.Sprintf("%s.message_set.variants[%d].ident", path, i),
				"variant identifier is required")
		}
		for j, p := range ms.Variants[i].Payloads {
			if p == "" {
				return malformed(fmt.Sprintf("%s.message_set.variants[%d].payloads[%d]", path, i, j),
					"payload type reference must not be empty")
			}
		}
	}

	for i := range c.Handles {
		hp := fmt.Sprintf("%s.handles[%d]", path, i)
		if c.Handles[i].Ident == "" {
			return malformed(hp+".ident", "handle identifier is required")
		}
		if c.Handles[i].Payload == "" {
			return malformed(hp+".payload", "handle %q needs a payload type reference", c.Handles[i].Ident)
		}
	}
	for i := range c.Receivers {
		rp := fmt.Sprintf("%s.receivers[%d]", path, i)
		if c.Receivers[i].Ident == "" {
			return malformed(rp+".ident", "receiver identifier is required")
		}
		if c.Receivers[i].Payload == "" {
			return malformed(rp+".payload", "receiver %q needs a payload type reference", c.Receivers[i].Ident)
		}
	}

	return validateExtState(&c.ExtState, path+".ext_state")
}

func validateExtState(es *schema.ExtState, path string) error {
	declared := len(es.Fields) > 0 || len(es.Methods) > 0 || len(es.InitArgs.Fields) > 0
	if declared && es.Ident == "" {
		return malformed(path+".ident", "extended state with members needs an identifier")
	}
	for i := range es.Fields {
		if err := validateField(&es.Fields[i], fmt.Sprintf("%s.fields[%d]", path, i)); err != nil {
			return err
		}
	}
	for i := range es.Methods {
		mp := fmt.Sprintf("%s.methods[%d]", path, i)
		if es.Methods[i].Ident == "" {
			return malformed(mp+".ident", "method identifier is required")
		}
		for j := range es.Methods[i].Args {
			arg := &es.Methods[i].Args[j]
			ap := fmt.Sprintf("%s.args[%d]", mp, j)
			if arg.Ident == "" {
				return malformed(ap+".ident", "argument identifier is required")
			}
			// Receiver-style arguments carry no type of their own.
			if isReceiverArg(arg.Ident) {
				continue
			}
			if arg.Type == "" {
				return malformed(ap+".type", "argument %q needs a type reference", arg.Ident)
			}
		}
	}
	if len(es.InitArgs.Fields) > 0 && es.InitArgs.Ident == "" {
		return malformed(path+".init_args.ident", "init-args with fields needs an identifier")
	}
	for i := range es.InitArgs.Fields {
		if err := validateField(&es.InitArgs.Fields[i], fmt.Sprintf("%s.init_args.fields[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func isReceiverArg(ident string) bool {
	return ident == "self" || ident == "&self" || ident == "&mut self"
}

func validateField(f *schema.Field, path string) error {
	if f.Ident == "" {
		return malformed(path+".ident", "field identifier is required")
	}
	if f.Type == "" {
		return malformed(path+".type", "field %q needs a type reference", f.Ident)
	}
	return nil
}
