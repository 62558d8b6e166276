// Package main provides the entry point for c8sim.
// c8sim is a CHIP-8 virtual machine with a deterministic timing core.
//
// For the full CLI, use: go run ./cmd/c8sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("c8sim - CHIP-8 Virtual Machine")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: c8sim [options] <rom>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -frontend  Frontend to use: terminal or sdl")
	fmt.Println("  -headless  Run without a frontend and print the final frame")
	fmt.Println("  -cycles    Stop after this many cycles (0 = no limit)")
	fmt.Println("  -seed      Seed for the random number source")
	fmt.Println("  -nocache   Disable the decode cache")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/c8sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/c8sim' instead.")
	}
}
