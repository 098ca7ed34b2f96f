package main

import (
	"os"

	"github.com/abhisek/gyankosh/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
