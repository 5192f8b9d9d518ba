//go:build ignore
// +build ignore

package main

import (
	"log"

	dossier "github.com/mithrel/dossier/internal/cli"
	"github.com/spf13/cobra/doc"
)

func main() {
	root, _ := dossier.NewRootCmd()
	root.DisableAutoGenTag = true

	if err := doc.GenMarkdownTree(root, "./docs/markdown"); err != nil {
		log.Fatal(err)
	}

	header := &doc.GenManHeader{
		Title:   "DOSSIER-CLI",
		Section: "1",
	}
	if err := doc.GenManTree(root, header, "./docs/man"); err != nil {
		log.Fatal(err)
	}
}
