// Command docsync keeps wiki documentation in sync with code changes.
package main

import (
	"github.com/joho/godotenv"

	"github.com/driftdocs/docsync-cli/internal/adapters/driving/cli"
)

func main() {
	// Load .env if present; real environment variables take precedence.
	_ = godotenv.Load()

	cli.Execute()
}
