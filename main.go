package main

import (
	"os"

	"github.com/cl-kim/gluesql/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
