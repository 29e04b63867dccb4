package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/rpcpool/vhostindex"
)

// wildcardKeyFlags are the two cli.BoolFlags shared by build/lookup/watch,
// threading straight onto vhostindex.Flags. wildcard-keys defaults to true
// since an operator populating a vhost table overwhelmingly expects
// "*.example.com"/"www.example.*" entries to work; readonly-key defaults
// to false, matching vhostindex.Flags's zero value.
func wildcardKeyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "wildcard-keys", Value: true, Usage: "accept head/tail wildcard keys (NGX_HASH_WILDCARD_KEY); false hard-declines them"},
		&cli.BoolFlag{Name: "readonly-key", Value: false, Usage: "assert key files are already lowercase, skipping case folding (NGX_HASH_READONLY_KEY)"},
	}
}

func keyFlagsFrom(c *cli.Context) vhostindex.Flags {
	return vhostindex.Flags{
		WildcardKeys: c.Bool("wildcard-keys"),
		ReadonlyKey:  c.Bool("readonly-key"),
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "compile a table from a config file and a key file, printing a build report",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "config", Required: true, Usage: "path to a JSON or YAML Config"},
			&cli.StringFlag{Name: "keys", Required: true, Usage: "path to a key<TAB>hex-value file"},
		}, wildcardKeyFlags()...),
		Action: func(c *cli.Context) error {
			h, cfg, err := buildFromFiles(c.String("config"), c.String("keys"), keyFlagsFrom(c))
			if err != nil {
				return err
			}
			printBuildReport(h, cfg)
			return nil
		},
	}
}

// buildFromFiles loads a Config and key file, stages every key, and builds
// a Handle. Declined and busy keys are logged and counted, not treated as
// fatal, so a single bad key does not abort a build.
func buildFromFiles(configPath, keysPath string, flags vhostindex.Flags) (*vhostindex.Handle, vhostindex.Config, error) {
	cfg, err := vhostindex.LoadConfig(configPath)
	if err != nil {
		return nil, cfg, err
	}

	entries, err := readKeyFile(keysPath)
	if err != nil {
		return nil, cfg, err
	}

	b := vhostindex.NewBuilder(cfg)
	var declined, busy int
	for _, e := range entries {
		status, err := b.AddKey([]byte(e.key), e.value, flags)
		switch status {
		case vhostindex.StatusDeclined:
			declined++
			klog.Warningf("declined key %q: %v", e.key, err)
		case vhostindex.StatusBusy:
			busy++
			klog.Warningf("duplicate key %q: %v", e.key, err)
		}
	}
	if declined > 0 || busy > 0 {
		klog.Warningf("build %s: %d declined, %d duplicate keys out of %d", cfg.Name, declined, busy, len(entries))
	}

	h, err := vhostindex.Build(b, cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("building table: %w", err)
	}
	return h, cfg, nil
}

func printBuildReport(h *vhostindex.Handle, cfg vhostindex.Config) {
	fmt.Printf("table %q built (build_id=%s)\n", cfg.Name, h.Diag.BuildID)
	for _, e := range h.Diag.Entries() {
		fmt.Printf("  %s = %s\n", e.Key, e.Value)
	}
}
