// Command bytekvd runs the cache server: it loads configuration, wires
// up structured logging, starts the cache engine and its background
// sweeper, and serves the wire protocol over TCP until interrupted.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
