package main

import (
	"os"

	"github.com/edusign/edusign/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
