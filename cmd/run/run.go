package run

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/rs/xid"

	"ratesync/cmd/env"
	"ratesync/config"
	"ratesync/fetch"
	"ratesync/notify"
	sqlstore "ratesync/storage/sql"
	"ratesync/sync"
)

// runCfg wraps the run configuration
type runCfg struct {
	config *config.Config

	configPath string
}

// NewRunCmd creates the run subcommand
func NewRunCmd() *ffcli.Command {
	cfg := &runCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "run",
		ShortUsage: "run [flags]",
		LongHelp:   "Runs a single synchronization pass across all feed sources",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *runCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the synchronizer TOML configuration, if any",
	)
}

// exec executes the run command
func (c *runCfg) exec(ctx context.Context, _ []string) error {
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

	return Execute(ctx, c.config, logger)
}

// Execute performs one synchronization pass: it connects to the gateway,
// synchronizes every feed source in fixed order, and emails the combined
// report when anything was persisted
func Execute(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Tag every log line of this pass
	logger = logger.With("run_id", xid.New().String())

	// Secrets come from the environment, not the config file
	if pw := os.Getenv(env.Prefix + env.SMTPPasswordSuffix); pw != "" {
		cfg.SMTP.Password = pw
	}

	dsn := os.Getenv(env.Prefix + env.DBURLSuffix)
	if dsn == "" {
		return fmt.Errorf("missing %s", env.Prefix+env.DBURLSuffix)
	}

	// Open DB connection
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("unable to open DB connection: %w", err)
	}

	defer func() {
		closeCtx, cancelFn := context.WithTimeout(ctx, time.Second*5)
		defer cancelFn()

		if err = conn.Close(closeCtx); err != nil {
			logger.Error(
				"unable to gracefully close DB connection",
				"err", err,
			)
		}
	}()

	// Check DB reachability
	pingCtx, cancelPing := context.WithTimeout(ctx, time.Second*5)
	defer cancelPing()

	if err = conn.Ping(pingCtx); err != nil {
		return fmt.Errorf("unable to reach DB (ping): %w", err)
	}

	window, err := cfg.Window.Resolve(time.Now())
	if err != nil {
		return fmt.Errorf("unable to resolve date window: %w", err)
	}

	// Create the orchestrator over the SQL gateway
	orchestrator := sync.New(
		sqlstore.NewGateway(conn),
		sync.WithLogger(logger),
		sync.WithFetcher(fetch.NewClient(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second)),
	)

	var (
		reports     []*sync.Report
		failedItems int
		sourceErrs  []error
	)

	// One source after another, in report order. A source whose initial
	// gateway lists cannot be fetched is aborted; the others still run
	for _, src := range defaultSources(cfg) {
		report, err := orchestrator.Synchronize(ctx, src, window)
		if err != nil {
			logger.Error(
				"source synchronization aborted",
				"source", src.Name(),
				"err", err,
			)

			sourceErrs = append(sourceErrs, fmt.Errorf("%s: %w", src.Name(), err))

			continue
		}

		reports = append(reports, report)
		failedItems += report.Failed
	}

	// Notify only when something was actually persisted
	if body := sync.Combine(reports...); body != "" {
		switch {
		case cfg.SMTP.Host == "":
			logger.Warn("SMTP is not configured, skipping report email")
		default:
			mailer := notify.NewMailer(notify.Config{
				Host:     cfg.SMTP.Host,
				Port:     cfg.SMTP.Port,
				Username: cfg.SMTP.Username,
				Password: cfg.SMTP.Password,
				From:     cfg.SMTP.From,
				To:       cfg.SMTP.To,
			})

			if err := mailer.SendReport(ctx, cfg.SMTP.Subject, body); err != nil {
				return fmt.Errorf("unable to send report: %w", err)
			}

			logger.Info("report email sent", "to", cfg.SMTP.To)
		}
	} else {
		logger.Info("no new exchange rates downloaded")
	}

	if cfg.FailOnItemError && failedItems > 0 {
		sourceErrs = append(
			sourceErrs,
			fmt.Errorf("%d work items failed during the run", failedItems),
		)
	}

	return errors.Join(sourceErrs...)
}
