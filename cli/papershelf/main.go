package main

import (
	"os"

	papershelfcmder "github.com/papershelf/papershelf/cmd/papershelf"
)

func main() {
	cmd := papershelfcmder.NewPapershelfCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
