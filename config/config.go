package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"

	"ratesync/storage/types"
)

const dateLayout = "2006-01-02"

// Default source identifiers, matching the seeded gateway rows
const (
	DefaultCBRSourceID = 2
	DefaultNBUSourceID = 8
)

const (
	DefaultFetchTimeoutSeconds = 30
	DefaultWindowDays          = 7
	DefaultDaemonCron          = "0 9 * * *" // daily at 09:00
)

var (
	ErrInvalidDate         = errors.New("invalid window date")
	ErrInvalidWindow       = errors.New("window min date is after max date")
	ErrInvalidFetchTimeout = errors.New("invalid fetch timeout")
	ErrInvalidSourceID     = errors.New("invalid source ID")
	ErrInvalidSMTPPort     = errors.New("invalid SMTP port")
	ErrMissingDaemonCron   = errors.New("missing daemon cron expression")
)

// Config defines the base-level synchronizer configuration
type Config struct {
	Window  *Window  `toml:"window"`
	Fetch   *Fetch   `toml:"fetch"`
	Sources *Sources `toml:"sources"`
	SMTP    *SMTP    `toml:"smtp"`
	Daemon  *Daemon  `toml:"daemon"`

	// When set, a run with any failed work item exits non-zero.
	// The default preserves the lenient behavior where per-item
	// failures are only visible in logs
	FailOnItemError bool `toml:"fail_on_item_error"`
}

// Window bounds which dates a run downloads rates for
type Window struct {
	// Earliest date to download rates for, YYYY-MM-DD.
	// Empty means today minus the default window
	MinDate string `toml:"min_date"`

	// Latest date to download rates for, YYYY-MM-DD.
	// Empty means today
	MaxDate string `toml:"max_date"`

	// When set, the min date bound is ignored and the full available
	// history of each source is requested
	FullHistory bool `toml:"full_history"`
}

// Fetch configures the remote feed client
type Fetch struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Sources holds the gateway identifiers of the feed sources
type Sources struct {
	CBRID int `toml:"cbr_id"`
	NBUID int `toml:"nbu_id"`
}

// SMTP configures the report notifier. An empty host disables
// email notification; the combined report is then only logged
type SMTP struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	To       string `toml:"to"`
	Subject  string `toml:"subject"`
}

// Daemon configures the scheduled synchronization mode
type Daemon struct {
	Cron       string `toml:"cron"`
	RunOnStart bool   `toml:"run_on_start"`
}

// DefaultConfig returns the default synchronizer configuration
func DefaultConfig() *Config {
	return &Config{
		Window: &Window{},
		Fetch: &Fetch{
			TimeoutSeconds: DefaultFetchTimeoutSeconds,
		},
		Sources: &Sources{
			CBRID: DefaultCBRSourceID,
			NBUID: DefaultNBUSourceID,
		},
		SMTP: &SMTP{
			Port:    587,
			Subject: "Downloaded exchange rates",
		},
		Daemon: &Daemon{
			Cron: DefaultDaemonCron,
		},
	}
}

// ValidateConfig validates the synchronizer configuration
func ValidateConfig(config *Config) error {
	if _, err := config.Window.Resolve(time.Now()); err != nil {
		return err
	}

	if config.Fetch.TimeoutSeconds <= 0 {
		return ErrInvalidFetchTimeout
	}

	if config.Sources.CBRID <= 0 || config.Sources.NBUID <= 0 {
		return ErrInvalidSourceID
	}

	if config.SMTP.Host != "" && (config.SMTP.Port < 1 || config.SMTP.Port > 65535) {
		return ErrInvalidSMTPPort
	}

	if config.Daemon.Cron == "" {
		return ErrMissingDaemonCron
	}

	return nil
}

// Read reads the configuration from the given path
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it on top of the defaults
	cfg := DefaultConfig()

	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Resolve turns the configured window into a concrete date window,
// relative to the given current time
func (w *Window) Resolve(now time.Time) (types.DateWindow, error) {
	var (
		today  = midnight(now)
		window = types.DateWindow{
			Min:        today.AddDate(0, 0, -DefaultWindowDays),
			Max:        today,
			EnforceMin: !w.FullHistory,
		}
	)

	if w.MinDate != "" {
		min, err := time.Parse(dateLayout, w.MinDate)
		if err != nil {
			return types.DateWindow{}, fmt.Errorf("%w: %q", ErrInvalidDate, w.MinDate)
		}

		window.Min = min
	}

	if w.MaxDate != "" {
		max, err := time.Parse(dateLayout, w.MaxDate)
		if err != nil {
			return types.DateWindow{}, fmt.Errorf("%w: %q", ErrInvalidDate, w.MaxDate)
		}

		window.Max = max
	}

	if window.EnforceMin && window.Min.After(window.Max) {
		return types.DateWindow{}, ErrInvalidWindow
	}

	return window, nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
