// Command corpus is the entry point for the corpus CLI.
package main

import (
	"fmt"
	"os"

	"github.com/arcadia-labs/corpus-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Initialize(""); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cli.Shutdown()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
