package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend API base URL
//	-i int      online check interval in seconds
//	-d string   secure store database path
//	-s string   secure store backend
//	-l string   log level
//
// args is filtered with flagx.FilterArgs so flags owned by other components
// do not cause errors here.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-d", "-s", "-l"})

	fs := flag.NewFlagSet("walletkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "secure store database path")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "secure store backend: sqlite, keychain or memory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
