package main

import (
	"os"

	"github.com/admitflow/admitflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
