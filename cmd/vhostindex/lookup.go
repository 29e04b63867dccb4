package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func lookupCommand() *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "build a table and evaluate one or more query strings against it",
		ArgsUsage: "<query> [query...]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "config", Required: true, Usage: "path to a JSON or YAML Config"},
			&cli.StringFlag{Name: "keys", Required: true, Usage: "path to a key<TAB>hex-value file"},
		}, wildcardKeyFlags()...),
		Action: func(c *cli.Context) error {
			h, _, err := buildFromFiles(c.String("config"), c.String("keys"), keyFlagsFrom(c))
			if err != nil {
				return err
			}
			if c.NArg() == 0 {
				return fmt.Errorf("lookup requires at least one query argument")
			}
			for _, q := range c.Args().Slice() {
				v, ep, ok := h.Find([]byte(q))
				if !ok {
					fmt.Printf("%s -> (no match)\n", q)
					continue
				}
				fmt.Printf("%s -> 0x%x (via %s)\n", q, uint64(v), ep)
			}
			return nil
		},
	}
}
