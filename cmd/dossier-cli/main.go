package main

import (
	"fmt"
	"os"

	"github.com/mithrel/dossier/internal/cli"
	"github.com/mithrel/dossier/internal/client"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, client.Notice(err))
		os.Exit(1)
	}
}
