// Command ohisim runs the occupational health policy simulation.
package main

import (
	"os"

	"github.com/talgya/ohi-sim/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
