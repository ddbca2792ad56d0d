// Package main provides the entry point for fwftsim.
// fwftsim is a cycle-accurate reference model that produces golden vectors
// for a synchronous first-word-fall-through FIFO.
//
// For the full CLI, use: go run ./cmd/fwftgen
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	printUsage(os.Stdout)

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/fwftgen' instead.")
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "fwftsim - FWFT FIFO golden-vector generator")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: fwftgen [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -config      Path to JSON or YAML run configuration")
	fmt.Fprintln(w, "  -capacity    FIFO depth in words (default 16)")
	fmt.Fprintln(w, "  -width       Data word width in bits (default 8)")
	fmt.Fprintln(w, "  -length      Number of stimulus cycles (default 1024)")
	fmt.Fprintln(w, "  -reset-hold  Number of leading reset cycles (default 4)")
	fmt.Fprintln(w, "  -seed        Stimulus seed (default 1)")
	fmt.Fprintln(w, "  -policy      Read policy: pre-write-empty or same-cycle-fall-through")
	fmt.Fprintln(w, "  -seeds       Comma-separated seeds to sweep")
	fmt.Fprintln(w, "  -capacities  Comma-separated capacities to sweep")
	fmt.Fprintln(w, "  -j           Maximum parallel runs in a sweep (0 = unlimited)")
	fmt.Fprintln(w, "  -out-dir     Directory for vector files (default .)")
	fmt.Fprintln(w, "  -input       Stimulus file name (default input.txt)")
	fmt.Fprintln(w, "  -output      Expected-output file name (default output.txt)")
	fmt.Fprintln(w, "  -check       DUT output file to compare")
	fmt.Fprintln(w, "  -v           Log verbosity")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'go run ./cmd/fwftgen' for the full CLI.")
}
