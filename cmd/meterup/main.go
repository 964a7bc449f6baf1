package main

import (
	"os"

	"github.com/lachiem1/meterUp/cmd/meterup/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
