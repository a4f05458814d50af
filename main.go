package main

import (
	"os"

	cmd "github.com/catourne/equipment-exporter/cmd/main"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
