package main

import (
	"os"

	"serviceflow/cmd/serviceflow/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
