package main

import (
	"fmt"
	"os"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/cmd/mvo-sim/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
