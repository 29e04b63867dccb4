package main

import (
	"flag"

	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
	"k8s.io/klog/v2"
)

// klogFlags exposes the classic klog verbosity/log-to-stderr flags on the
// CLI, for operators piping this binary's output through existing
// log-processing infrastructure built around klog's format, adapted from
// the teacher's own klog.go.
func klogFlags() []cli.Flag {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)

	var flags []cli.Flag
	fs.VisitAll(func(f *flag.Flag) {
		flags = append(flags, altsrc.NewStringFlag(&cli.StringFlag{
			Name:  f.Name,
			Usage: f.Usage,
			Value: f.DefValue,
		}))
	})
	return flags
}

func initKlog(c *cli.Context) error {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	fs.VisitAll(func(f *flag.Flag) {
		if c.IsSet(f.Name) {
			_ = fs.Set(f.Name, c.String(f.Name))
		}
	})
	return nil
}
