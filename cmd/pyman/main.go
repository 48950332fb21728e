// cmd/pyman/main.go
package main

import (
	"os"

	"github.com/arc-language/pyman/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
