package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rpcpool/vhostindex"
	"github.com/rpcpool/vhostindex/internal/diag"
)

// inspectCommand builds a table and prints its debug snapshot (bucket
// counts per class, total arena size, and the deepest wildcard nesting
// level), with an
// optional borsh-encoded dump to a file for offline diagnosis.
func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "build a table and print a debug snapshot of its layout",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "config", Required: true, Usage: "path to a JSON or YAML Config"},
			&cli.StringFlag{Name: "keys", Required: true, Usage: "path to a key<TAB>hex-value file"},
			&cli.StringFlag{Name: "dump", Usage: "optional path to write the borsh-encoded snapshot to"},
		}, wildcardKeyFlags()...),
		Action: func(c *cli.Context) error {
			h, _, err := buildFromFiles(c.String("config"), c.String("keys"), keyFlagsFrom(c))
			if err != nil {
				return err
			}

			snap := h.DebugSnapshot()
			fmt.Printf("build_id       = %s\n", snap.BuildID)
			fmt.Printf("exact_buckets  = %d\n", snap.ExactBuckets)
			fmt.Printf("head_buckets   = %d\n", snap.HeadBuckets)
			fmt.Printf("tail_buckets   = %d\n", snap.TailBuckets)
			fmt.Printf("arena_bytes    = %d\n", snap.ArenaBytes)
			fmt.Printf("wildcard_depth = %d\n", snap.WildcardDepth)

			path := c.String("dump")
			if path == "" {
				return nil
			}
			b, err := diag.Dump(snap)
			if err != nil {
				return fmt.Errorf("encoding snapshot: %w", err)
			}
			if err := os.WriteFile(path, b, 0o644); err != nil {
				return fmt.Errorf("writing snapshot to %s: %w", path, err)
			}
			return nil
		},
	}
}
