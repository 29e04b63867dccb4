package main

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

// watchCommand rebuilds the table whenever the config or key file changes.
// This is a minimal stand-in for the enclosing configuration loader that
// owns the real reload policy in production: it demonstrates that a
// rebuild is just "discard the old Handle, build a new one", never an
// in-place mutation of a frozen table.
func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "watch a config file and a key file, rebuilding the table on change",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "config", Required: true, Usage: "path to a JSON or YAML Config"},
			&cli.StringFlag{Name: "keys", Required: true, Usage: "path to a key<TAB>hex-value file"},
		}, wildcardKeyFlags()...),
		Action: func(c *cli.Context) error {
			configPath := c.String("config")
			keysPath := c.String("keys")
			flags := keyFlagsFrom(c)

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}
			defer watcher.Close()

			for _, p := range []string{configPath, keysPath} {
				if err := watcher.Add(p); err != nil {
					return fmt.Errorf("watching %s: %w", p, err)
				}
			}

			rebuild := func() {
				h, cfg, err := buildFromFiles(configPath, keysPath, flags)
				if err != nil {
					klog.Errorf("rebuild failed: %v", err)
					return
				}
				klog.Infof("rebuilt table %q (build_id=%s)", cfg.Name, h.Diag.BuildID)
			}

			rebuild()

			ctx := c.Context
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
						klog.Infof("change detected: %s", ev.Name)
						rebuild()
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					klog.Errorf("watcher error: %v", err)
				}
			}
		},
	}
}
