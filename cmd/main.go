package main

import (
	"os"

	"github.com/Lego1st/quizzess/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
