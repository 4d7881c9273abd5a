// Command patientctl manages patients through the patient API. The patient
// list is mirrored into a local cache file, or into Redis when
// PATIENTCTL_REDIS_URL is set.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medicalife/patient-api/pkg/client"
	"github.com/medicalife/patient-api/pkg/kv"
	"github.com/medicalife/patient-api/pkg/store"
)

// errFailed is returned after the notifier already reported the failure.
var errFailed = errors.New("operation failed")

type envConfig struct {
	APIURL    string        `envconfig:"API_URL" default:"http://localhost:3000"`
	CacheFile string        `envconfig:"CACHE_FILE"`
	RedisURL  string        `envconfig:"REDIS_URL"`
	Channel   string        `envconfig:"CHANNEL" default:"patient-events"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"10s"`
	Verbose   bool          `envconfig:"VERBOSE"`
}

func loadEnv() (*envConfig, error) {
	var cfg envConfig
	if err := envconfig.Process("patientctl", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if cfg.CacheFile == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.CacheFile = filepath.Join(dir, "medicalife", "patients.cache")
	}
	return &cfg, nil
}

type app struct {
	cfg    *envConfig
	api    *client.Client
	store  *store.Store
	log    zerolog.Logger
	closer io.Closer
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func newApp(ctx context.Context, cfg *envConfig, stderr io.Writer) (*app, error) {
	log := newLogger(stderr, cfg.Verbose)

	api, err := client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, api: api, log: log}

	var cache kv.Store
	if cfg.RedisURL != "" {
		r, err := kv.NewRedisFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		cache, a.closer = r, r
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.CacheFile), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		m, err := kv.NewMemory(cfg.CacheFile)
		if err != nil {
			return nil, err
		}
		cache = m
	}

	a.store = store.New(ctx, api, cache, store.NewLogNotifier(log), log)
	return a, nil
}

func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// withApp builds the app for one command run and closes it afterwards.
func withApp(run func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadEnv()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.Close()

		return run(ctx, a, cmd, args)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "patientctl",
		Short:         "Manage Medicalife patients",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(listCmd())
	root.AddCommand(getCmd())
	root.AddCommand(createCmd())
	root.AddCommand(updateCmd())
	root.AddCommand(deleteCmd())
	root.AddCommand(watchCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
