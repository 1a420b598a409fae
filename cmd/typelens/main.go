package main

import (
	"os"

	"github.com/abramin/typelens/cmd/typelens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
