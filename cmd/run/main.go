package main

import (
	"fmt"
	"os"

	"github.com/zintix-labs/gemlab/sdk/perf"
)

// makefile runner
func main() {
	if err := bindVar(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := perf.Run(executeSimulator, cfg.pprof, ""); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
