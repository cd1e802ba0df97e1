// Command rendezvousd is a small demo binary exercising the rendezvous
// package end to end: a bounded producer/consumer pipeline and a
// readiness-driven select over two channels.
package main

import (
	"fmt"
	"os"

	"github.com/roasbeef/rendezvous/cmd/rendezvousd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
