package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bloxgen-xyz/go-bloxgen/compiler"
	"github.com/bloxgen-xyz/go-bloxgen/store"
)

func generate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	outDir := fs.String("out", ".", "Directory the generated modules are written under")
	runStore := fs.String("run-store", "", "SQLite run store recording digests for reproducibility audits")
	verbose := fs.Bool("verbose", false, "Log every written file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bloxgen generate <schema.{json,yaml}> [options]

Compile a component schema and write the generated actor scaffolding.
Nothing is written if any component has a fatal diagnostic.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  bloxgen generate actor.json --out ./src
  bloxgen generate actor.yaml --out ./src --run-store bloxgen.db
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("schema file required")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	result, err := compiler.CompileFile(fs.Arg(0))
	if err != nil {
		return err
	}

	printDiagnostics(result)
	if !result.Succeeded() {
		os.Exit(1)
	}

	written := 0
	for _, bundle := range result.Bundles {
		for _, a := range bundle.Artifacts {
			path := filepath.Join(*outDir, a.Path)
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(a.Content), 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			logger.Debug("wrote artifact", "component", bundle.Component, "path", path)
			written++
		}
		logger.Info("generated component",
			"component", bundle.Component,
			"artifacts", len(bundle.Artifacts),
			"digest", compiler.BundleDigest(bundle))
	}
	logger.Info("generation complete", "run", result.RunID, "files", written)

	if *runStore != "" {
		s, err := store.Open(*runStore)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.RecordRun(result); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		drifted, err := s.Drift(result)
		if err != nil {
			return fmt.Errorf("drift check: %w", err)
		}
		for _, name := range drifted {
			logger.Warn("artifact changed since previous run of the same schema", "artifact", name)
		}
	}

	return nil
}
