package main

import (
	"fmt"
	"strings"

	"github.com/corvid-web/corvid/config"
	"github.com/spf13/cobra"
)

const defaultAddr = "0.0.0.0:7878"

var (
	addrFlag      string
	workersFlag   int
	configFlag    string
	logLevelFlag  string
	staticFlags   []string
	redirectFlags []string
	echoFlag      bool
)

var rootCmd = &cobra.Command{
	Use:   "corvid",
	Short: "corvid - a small concurrent HTTP server",
	Long: `corvid serves static directories and a handful of demo routes over HTTP/1.x.
Every connection carries exactly one request, served by a fixed pool of workers.
Running without a subcommand is the same as "corvid serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&addrFlag, "addr", defaultAddr, "Address to listen on")
	flags.IntVar(&workersFlag, "workers", 0, "Number of workers (default from config)")
	flags.StringVar(&configFlag, "config", "", "Path to the config file (toml, yaml or json)")
	flags.StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error or off")
	flags.StringArrayVar(&staticFlags, "static", nil, "Static directory to mount, as dir:mountpoint (repeatable)")
	flags.StringArrayVar(&redirectFlags, "redirect", nil, "Permanent redirect, as from=to (repeatable)")
	flags.BoolVar(&echoFlag, "echo", false, "Register POST /echo, answering with the request body as JSON")
}

// loadConfig returns the effective configuration: defaults, overridden by the config file
// and environment, overridden by explicitly passed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("workers") {
		cfg.Pool.Workers = workersFlag
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevelFlag
	}

	return cfg, cfg.Validate()
}

type mount struct {
	Dir, MountPoint string
}

// parseMount splits dir:mountpoint at the last colon. The mount point defaults to the root.
func parseMount(value string) (mount, error) {
	sep := strings.LastIndexByte(value, ':')
	if sep == -1 {
		return mount{Dir: value, MountPoint: "/"}, nil
	}

	if sep == 0 {
		return mount{}, fmt.Errorf("bad static mount %q: empty directory", value)
	}

	return mount{Dir: value[:sep], MountPoint: value[sep+1:]}, nil
}

type redirect struct {
	From, To string
}

func parseRedirect(value string) (redirect, error) {
	from, to, found := strings.Cut(value, "=")
	if !found || len(from) == 0 || len(to) == 0 {
		return redirect{}, fmt.Errorf("bad redirect %q: want from=to", value)
	}

	return redirect{From: from, To: to}, nil
}
