package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/fossmodmanager/fmm/cmd/fmm"
	"github.com/fossmodmanager/fmm/internal/version"
)

func main() {
	rootCmd := fmm.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "FMM",
		Section: "1",
		Source:  "fmm " + version.Version,
		Manual:  "fmm manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
