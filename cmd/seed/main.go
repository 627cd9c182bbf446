package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pilot_logbook/internal/config"
	"pilot_logbook/internal/logger"
	"pilot_logbook/internal/seed"
	"pilot_logbook/internal/store"
)

func main() {
	var airportsPath, aircraftPath string

	rootCmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load reference airports and aircraft types into the database",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if airportsPath == "" && aircraftPath == "" {
				return errors.New("nothing to import: pass --airports and/or --aircraft")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger.Setup(logger.Options{
				Level:      cfg.Log.Level,
				Format:     cfg.Log.Format,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
			})

			db, err := config.InitDB(cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			st := store.New(db)

			ctx := cmd.Context()
			if airportsPath != "" {
				if err := importFile(ctx, airportsPath, "airports", func(r io.Reader) (seed.Report, error) {
					return seed.ImportAirports(ctx, st, r)
				}); err != nil {
					return err
				}
			}
			if aircraftPath != "" {
				if err := importFile(ctx, aircraftPath, "aircraft types", func(r io.Reader) (seed.Report, error) {
					return seed.ImportAircraftTypes(ctx, st, r)
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}

	rootCmd.Flags().StringVar(&airportsPath, "airports", "", "airports CSV (iata,icao,airport_name,country_code,region_name,latitude,longitude)")
	rootCmd.Flags().StringVar(&aircraftPath, "aircraft", "", "ICAO Doc 8643 aircraft type designators as text")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Error("Seed failed")
		stop()
		os.Exit(1)
	}
}

func importFile(ctx context.Context, path, what string, load func(io.Reader) (seed.Report, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s file: %w", what, err)
	}
	defer f.Close()

	report, err := load(f)
	log := logrus.WithFields(logrus.Fields{
		"file":     path,
		"imported": report.Imported,
		"skipped":  report.Skipped,
	})
	if err != nil {
		log.WithError(err).Errorf("Import of %s stopped", what)
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	log.Infof("Imported %s", what)
	return nil
}
