package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kilianp07/monwatch/app"
	"github.com/kilianp07/monwatch/config"
	"github.com/kilianp07/monwatch/infra/logger"
)

type options struct {
	cfgPath  string
	envFile  string
	key      string
	location string
	interval int
	debug    bool
}

var rootCmd = newRootCmd()

// logOut receives process logs; nil means stdout.
var logOut io.Writer

func newRootCmd() *cobra.Command {
	o := &options{}
	c := &cobra.Command{
		Use:   "monwatch [names...]",
		Short: "Alert on sightings you can reach before they despawn",
		Long: "monwatch polls a live sightings map for the named items, asks the Distance Matrix API\n" +
			"how long transit, walking and cycling would take from your location, and pops an alert\n" +
			"for every sighting you can still reach in time.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, args)
		},
	}
	f := c.Flags()
	f.StringVarP(&o.cfgPath, "config", "c", "", "configuration file (default "+config.DefaultPath+" if present)")
	f.StringVar(&o.envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	f.StringVarP(&o.key, "key", "k", "", "Distance Matrix API key")
	f.StringVarP(&o.location, "location", "l", "", "origin address for travel estimates")
	f.IntVar(&o.interval, "interval", 0, "polling interval in seconds")
	f.BoolVar(&o.debug, "debug", false, "enable debug logging")
	return c
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig(cmd *cobra.Command, o *options) (*config.Config, error) {
	if err := loadEnv(o.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.key != "" {
		cfg.Maps.APIKey = o.key
	}
	if o.location != "" {
		cfg.Maps.Origin = o.location
	}
	if cmd.Flags().Changed("interval") {
		cfg.Scheduler.IntervalSeconds = o.interval
	}
	if o.debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, o *options, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}
	logger.Configure(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Out: logOut})
	log := logger.New("main")

	svc, err := app.New(ctx, cfg, args)
	if err != nil {
		log.Errorf("startup: %v", err)
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("service close: %v", err)
		}
	}()
	log.Infof("watching %d items from %q every %s", len(svc.Tracked()), cfg.Maps.Origin, cfg.Scheduler.Interval())
	return svc.Run(ctx)
}
