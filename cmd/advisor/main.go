package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/quaystone/advisor-cli/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Credentials come from the environment; a .env file is a convenience,
	// never a requirement.
	_ = godotenv.Load()

	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
