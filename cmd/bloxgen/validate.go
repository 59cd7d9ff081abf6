package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bloxgen-xyz/go-bloxgen/compiler"
	"github.com/bloxgen-xyz/go-bloxgen/diag"
)

func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	outputJSONL := fs.Bool("jsonl", false, "Output diagnostics as JSON Lines")
	outputFile := fs.String("output", "", "Write JSONL diagnostics to file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bloxgen validate <schema.{json,yaml}> [options]

Run the hierarchy and type-consistency passes and print every diagnostic.
No artifacts are written.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Checks performed:
  - State parent references resolve and form a forest (no cycles)
  - Handle/receiver payload types match a single-payload message variant
  - Identifier uniqueness within each namespace
  - Extended-state fields are covered by init-args or an explicit default

Examples:
  bloxgen validate actor.json
  bloxgen validate actor.json --jsonl --output diagnostics.jsonl
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("schema file required")
	}

	result, err := compiler.CompileFile(fs.Arg(0))
	if err != nil {
		return err
	}

	if *outputJSONL || *outputFile != "" {
		if *outputFile != "" {
			f, err := os.Create(*outputFile)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			if err := diag.WriteJSONL(f, result.Report); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Diagnostics written to %s\n", *outputFile)
		} else if err := diag.WriteJSONL(os.Stdout, result.Report); err != nil {
			return err
		}
	} else {
		printDiagnostics(result)
		if result.Succeeded() {
			fmt.Println("Schema is valid.")
		}
	}

	if !result.Succeeded() {
		os.Exit(1)
	}
	return nil
}

func printDiagnostics(result *compiler.Result) {
	for _, d := range result.Report.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}
	errs := len(result.Report.Errors())
	warns := len(result.Report.Warnings())
	if errs > 0 || warns > 0 {
		fmt.Fprintf(os.Stderr, "%d error(s), %d warning(s)\n", errs, warns)
	}
}
