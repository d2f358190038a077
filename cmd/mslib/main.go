// mslib - Spectral library format conversion tool
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/mslib/cmd/mslib/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
