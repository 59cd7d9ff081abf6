package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bloxgen-xyz/go-bloxgen/hierarchy"
	"github.com/bloxgen-xyz/go-bloxgen/loader"
)

func summary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bloxgen summary <schema.{json,yaml}>

Print an overview of a schema document: components, state hierarchy with
ancestor chains, message variants, endpoints, and extended state.
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("schema file required")
	}

	doc, err := loader.FromFile(fs.Arg(0))
	if err != nil {
		return err
	}

	for i := range doc.Components {
		c := &doc.Components[i]
		fmt.Printf("=== Component: %s ===\n", c.Ident)
		if c.Target != "" {
			fmt.Printf("Target: %s\n", c.Target)
		}

		fmt.Printf("States (%d):\n", len(c.States))
		chains, _ := hierarchy.Resolve(c.States)
		for j := range c.States {
			s := &c.States[j]
			if chain := chains.ChainOf(s.Ident); chain != nil {
				fmt.Printf("  %s (chain: %s)\n", s.Ident, strings.Join(chain, " -> "))
			} else {
				fmt.Printf("  %s (unresolved hierarchy)\n", s.Ident)
			}
		}

		fmt.Printf("Message set %s (%d variants):\n", c.MessageSet.Ident, len(c.MessageSet.Variants))
		for j := range c.MessageSet.Variants {
			v := &c.MessageSet.Variants[j]
			if len(v.Payloads) == 0 {
				fmt.Printf("  %s\n", v.Ident)
			} else {
				fmt.Printf("  %s(%s)\n", v.Ident, strings.Join(v.Payloads, ", "))
			}
		}

		fmt.Printf("Handles (%d):\n", len(c.Handles))
		for j := range c.Handles {
			fmt.Printf("  %s -> %s\n", c.Handles[j].Ident, c.Handles[j].Payload)
		}
		fmt.Printf("Receivers (%d):\n", len(c.Receivers))
		for j := range c.Receivers {
			fmt.Printf("  %s <- %s\n", c.Receivers[j].Ident, c.Receivers[j].Payload)
		}

		fmt.Printf("Extended state %s: %d field(s), %d method(s), init-args %s (%d field(s))\n",
			c.ExtState.Ident, len(c.ExtState.Fields), len(c.ExtState.Methods),
			c.ExtState.InitArgs.Ident, len(c.ExtState.InitArgs.Fields))
	}

	return nil
}
