package main

import (
	"os"

	"github.com/rustyeddy/wavelabel/cmd/wavelabel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
