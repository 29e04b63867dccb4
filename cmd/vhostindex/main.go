// Command vhostindex is an operator-facing harness around the vhostindex
// library: build a table from a config and a key file, query it, or watch
// both files and rebuild on change. It is not a web server; it exists to
// exercise the library end to end the way the teacher's own main.go drives
// its indexing commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &cli.App{
		Name:  "vhostindex",
		Usage: "build and query compiled hostname lookup tables",
		Flags: klogFlags(),
		Before: func(c *cli.Context) error {
			return initKlog(c)
		},
		Commands: []*cli.Command{
			buildCommand(),
			lookupCommand(),
			watchCommand(),
			inspectCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "vhostindex:", err)
		os.Exit(1)
	}
}
