package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "generate":
		if err := generate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "summary":
		if err := summary(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "runs":
		if err := runs(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("bloxgen version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bloxgen - actor component scaffolding compiler

Usage: bloxgen <command> [options]

Commands:
  generate   Compile a schema and write the generated scaffolding to disk
  validate   Run validation passes and report diagnostics without emitting
  summary    Print an overview of a schema document
  runs       List recorded compilation runs from a run store
  version    Print version
  help       Show this help

Examples:
  bloxgen validate actor.json
  bloxgen generate actor.json --out ./src
  bloxgen generate actor.yaml --out ./src --run-store bloxgen.db
  bloxgen runs --run-store bloxgen.db

Run 'bloxgen <command> -h' for command-specific options.`)
}
