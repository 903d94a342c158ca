package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hypergopher/inkwell"
	"github.com/hypergopher/inkwell/bboltstore"
	"github.com/hypergopher/inkwell/internal/config"
	"github.com/hypergopher/inkwell/sqlitestore"
)

const (
	sqliteFile  = "inkwell.sqlite"
	sqliteTable = "kv_store"
)

// app holds the state shared by every command
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "inkwell",
		Short:        "A small blog post service",
		Long:         "inkwell seeds blog posts from a remote content API, keeps them in a local store, and lets you list, search and edit them from the terminal or over HTTP.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			a.cfg = cfg
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file")

	rootCmd.AddCommand(
		newVersionCmd(),
		a.newListCmd(),
		a.newShowCmd(),
		a.newCreateCmd(),
		a.newUpdateCmd(),
		a.newDeleteCmd(),
		a.newCountCmd(),
		a.newClearCmd(),
		a.newResetCmd(),
		a.newSearchCmd(),
		a.newImportCmd(),
		a.newExportCmd(),
		a.newServeCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkwell %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// openService builds a Service from the loaded config. The caller must Close it.
func (a *app) openService() (*inkwell.Service, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	svc, err := inkwell.New(inkwell.Options{
		AdminPageSize:  a.cfg.Pagination.AdminPageSize,
		Logger:         a.logger,
		PublicPageSize: a.cfg.Pagination.PublicPageSize,
		Seeder:         a.newSeeder(),
		Store:          store,
		StorageKey:     a.cfg.Storage.Key,
	})
	if err != nil {
		// New has already closed the store
		return nil, fmt.Errorf("creating service: %w", err)
	}

	return svc, nil
}

func (a *app) openStore() (inkwell.KVStore, error) {
	switch a.cfg.Storage.Driver {
	case config.DriverMemory:
		return inkwell.NewMemoryKVStore(), nil
	case config.DriverSQLite:
		dataDir := a.cfg.DataDir()
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}

		dbPath := filepath.Join(dataDir, sqliteFile)
		db, err := sqlitestore.NewDB(dbPath)
		if err != nil {
			return nil, err
		}
		return sqlitestore.NewSQLiteStore(db, dbPath, sqliteTable), nil
	default:
		return bboltstore.New(a.cfg.DataDir(), a.logger), nil
	}
}

func (a *app) newSeeder() inkwell.Seeder {
	client := &http.Client{Timeout: a.cfg.SeedTimeout()}

	if a.cfg.Seed.Type == config.SeedFeed {
		return inkwell.NewFeedSeeder(a.cfg.Seed.URL, client)
	}
	return inkwell.NewHTTPSeeder(a.cfg.Seed.URL, client)
}

// withService opens the Service, runs fn and closes the Service
func (a *app) withService(fn func(svc *inkwell.Service) error) error {
	svc, err := a.openService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			a.logger.Error("failed to close service", slog.String("error", err.Error()))
		}
	}()

	return fn(svc)
}
