// Package main provides the scalargrad CLI.
package main

import "os"

const version = "v0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
