package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bloxgen-xyz/go-bloxgen/store"
)

func runs(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	runStore := fs.String("run-store", "bloxgen.db", "SQLite run store path")
	limit := fs.Int("limit", 20, "Maximum runs to list")
	showArtifacts := fs.Bool("artifacts", false, "List artifact digests per run")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bloxgen runs [options]

List recorded compilation runs, newest first.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := store.Open(*runStore)
	if err != nil {
		return err
	}
	defer s.Close()

	recorded, err := s.Runs(*limit)
	if err != nil {
		return err
	}
	if len(recorded) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	for _, r := range recorded {
		status := "emitted"
		if !r.Emitted {
			status = "failed"
		}
		fmt.Printf("%s  %s  schema=%.12s  errors=%d warnings=%d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID, r.SchemaDigest, r.Errors, r.Warnings, status)

		if *showArtifacts {
			artifacts, err := s.Artifacts(r.ID)
			if err != nil {
				return err
			}
			for _, a := range artifacts {
				fmt.Printf("    %s/%s  %.12s\n", a.Component, a.Name, a.Digest)
			}
		}
	}
	return nil
}
