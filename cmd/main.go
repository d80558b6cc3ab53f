package main

import (
	"os"

	"github.com/randomchill-vibes/findthestate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
