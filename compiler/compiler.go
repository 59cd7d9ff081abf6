// Package compiler orchestrates a compilation run: validation passes over an
// immutable schema document, diagnostic aggregation, and artifact emission.
// A run is a one-shot, in-memory computation; once the document is loaded
// there is no further I/O, no cancellation, and no shared mutable state
// between passes.
package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/bloxgen-xyz/go-bloxgen/codegen/bloxide"
	"github.com/bloxgen-xyz/go-bloxgen/diag"
	"github.com/bloxgen-xyz/go-bloxgen/hierarchy"
	"github.com/bloxgen-xyz/go-bloxgen/loader"
	"github.com/bloxgen-xyz/go-bloxgen/schema"
	"github.com/bloxgen-xyz/go-bloxgen/typecheck"
)

// Result is the outcome of one compilation run. The report is always
// populated, even on success, because warnings ride on it. Bundles holds one
// artifact bundle per component that had zero fatal diagnostics; a run with
// any fatal diagnostic in a component emits nothing for that component.
type Result struct {
	RunID        string
	SchemaDigest string
	Report       *diag.Report
	Bundles      []*bloxide.Bundle
}

// Succeeded reports whether every component emitted its bundle.
func (r *Result) Succeeded() bool {
	return !r.Report.HasErrors()
}

// Bundle returns the bundle for a component, or nil.
func (r *Result) Bundle(component string) *bloxide.Bundle {
	for _, b := range r.Bundles {
		if b.Component == component {
			return b
		}
	}
	return nil
}

// Compile runs the full pipeline over a document. Components are compiled
// in parallel; within each component the hierarchy and type-consistency
// passes run as independent goroutines over the read-only model, each
// collecting its own diagnostics, merged once after the join. The merged
// report is ordered by component declaration order, then by pass.
func Compile(doc *schema.Document) *Result {
	type componentOutcome struct {
		report *diag.Report
		bundle *bloxide.Bundle
	}

	outcomes := make([]componentOutcome, len(doc.Components))

	var wg sync.WaitGroup
	for i := range doc.Components {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := &doc.Components[i]

			// The loader rejects these before a document exists, but
			// builder-constructed documents reach Compile directly and the
			// emitter needs at least one state.
			if len(c.States) == 0 {
				d := diag.Errorf(diag.PassLoader, diag.CodeMalformedSchema,
					c.Ident, "component %q declares no states", c.Ident)
				d.Component = c.Ident
				outcomes[i] = componentOutcome{report: diag.NewReport([]diag.Diagnostic{d})}
				return
			}

			var (
				passWG    sync.WaitGroup
				hres      *hierarchy.Result
				hierDiags []diag.Diagnostic
				typeDiags []diag.Diagnostic
			)
			passWG.Add(2)
			go func() {
				defer passWG.Done()
				hres, hierDiags = hierarchy.Resolve(c.States)
			}()
			go func() {
				defer passWG.Done()
				typeDiags = typecheck.Check(c)
			}()
			passWG.Wait()

			for j := range hierDiags {
				hierDiags[j].Component = c.Ident
			}

			report := diag.NewReport(hierDiags, typeDiags)
			outcome := componentOutcome{report: report}
			if !report.HasErrors() {
				outcome.bundle = bloxide.Generate(c, hres)
			}
			outcomes[i] = outcome
		}(i)
	}
	wg.Wait()

	result := &Result{
		RunID:        uuid.New().String(),
		SchemaDigest: SchemaDigest(doc),
		Report:       &diag.Report{},
	}
	for _, o := range outcomes {
		result.Report.Append(o.report)
		if o.bundle != nil {
			result.Bundles = append(result.Bundles, o.bundle)
		}
	}
	return result
}

// CompileFile loads a schema document from disk and compiles it. Loader
// failures abort immediately: there is no model to validate, so no report
// is produced.
func CompileFile(path string) (*Result, error) {
	doc, err := loader.FromFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(doc), nil
}

// SchemaDigest returns the hex sha256 of the document's canonical JSON
// encoding. Two loads of the same schema always share a digest.
func SchemaDigest(doc *schema.Document) string {
	data, err := json.Marshal(doc)
	if err != nil {
		// The model is plain data with no unmarshalable types.
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// BundleDigest returns the hex sha256 over a bundle's artifacts in emission
// order. Identical IR must always yield identical digests; the run store
// uses this to audit regeneration stability.
func BundleDigest(b *bloxide.Bundle) string {
	h := sha256.New()
	for i := range b.Artifacts {
		h.Write([]byte(b.Artifacts[i].Name))
		h.Write([]byte{0})
		h.Write([]byte(b.Artifacts[i].Content))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ArtifactDigest returns the hex sha256 of one artifact's content.
func ArtifactDigest(a *bloxide.Artifact) string {
	sum := sha256.Sum256([]byte(a.Content))
	return hex.EncodeToString(sum[:])
}
