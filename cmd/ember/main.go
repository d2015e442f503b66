// Package main provides the entry point for the ember CLI.
package main

import (
	"fmt"
	"os"

	"github.com/emberindex/ember/cmd/ember/cmd"
)

func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "ember: "+err.Error())

	if _, ok := err.(*cmd.UsageError); ok {
		os.Exit(2)
	}
	os.Exit(1)
}
