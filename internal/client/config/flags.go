package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/linkfolio/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the linkfolio API
//	-f string   session database file
//	-t int      request timeout in seconds
//
// Only flags that were actually passed override the current values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], "-a", "-f", "-t")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the linkfolio API")
	fs.StringVar(&cfg.SessionFile, "f", cfg.SessionFile, "session database file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
