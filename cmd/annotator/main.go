// annotator runs the layered annotation pipeline.
//
// Usage:
//
//	annotator run [tokens...] [--level=0.9] [--seed=N] [--db=path] [--json] [--remote=addr]
//	annotator glimpse [--json] [--remote=addr]
//	annotator serve [--listen=addr] [--metrics=addr] [--db=path]
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
