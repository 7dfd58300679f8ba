// Package main provides the artifact-generator binary entry point.
// The artifact generator turns RDF vocabularies into Java and JavaScript
// source-code artifacts, complete with their packaging files.
package main

import (
	"fmt"
	"os"
	"runtime"
)

// BuildTime is set at link time.
var BuildTime = "dev"

const appName = "artifact-generator"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
