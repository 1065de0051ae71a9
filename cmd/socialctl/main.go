package main

import (
	"os"

	"github.com/jrsteele09/go-social-client/cmd/socialctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
