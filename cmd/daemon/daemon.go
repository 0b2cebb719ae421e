package daemon

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"ratesync/cmd/env"
	"ratesync/cmd/run"
	"ratesync/config"
)

// daemonCfg wraps the daemon configuration
type daemonCfg struct {
	config *config.Config

	configPath string
}

// NewDaemonCmd creates the daemon subcommand
func NewDaemonCmd() *ffcli.Command {
	cfg := &daemonCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "daemon",
		ShortUsage: "daemon [flags]",
		LongHelp:   "Runs synchronization passes on a cron schedule until interrupted",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *daemonCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the synchronizer TOML configuration, if any",
	)
}

// exec executes the daemon command [BLOCKING]
func (c *daemonCfg) exec(ctx context.Context, _ []string) error {
	// Read the synchronizer configuration, if any
	if c.configPath != "" {
		cfg, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read config, %w", err)
		}

		c.config = cfg
	}

	if err := config.ValidateConfig(c.config); err != nil {
		return fmt.Errorf("invalid config, %w", err)
	}

	// Create a new logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// A pass failure must not take the daemon down;
	// it is logged and the schedule keeps going
	pass := func() {
		if err := run.Execute(gCtx, c.config, logger); err != nil {
			logger.Error("synchronization pass failed", "err", err)
		}
	}

	schedule := cron.New()

	if _, err := schedule.AddFunc(c.config.Daemon.Cron, pass); err != nil {
		return fmt.Errorf("unable to register cron schedule: %w", err)
	}

	// Optionally run a pass immediately on boot
	if c.config.Daemon.RunOnStart {
		group.Go(func() error {
			pass()

			return nil
		})
	}

	// Run the scheduler until a shutdown signal arrives
	group.Go(func() error {
		schedule.Start()

		logger.Info(
			"daemon started",
			"cron", c.config.Daemon.Cron,
		)

		<-gCtx.Done()

		// Let an in-flight pass finish
		stopCtx := schedule.Stop()
		<-stopCtx.Done()

		logger.Info("daemon shut down")

		return nil
	})

	return group.Wait()
}
