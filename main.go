package main

import (
	"os"

	"github.com/Azure/automata/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
