/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"foodshare/internal/bootstrap"
	"foodshare/internal/bootstrap/logging"
	"foodshare/internal/errs"
	sqliterepo "foodshare/internal/infrastructure/persistence/sqlite/repository"
	"foodshare/internal/ports"
	riskuc "foodshare/internal/usecase/risk"
)

// initDbCmd represents the initDb command
var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Initialize database schema, optionally seeding fixture data",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ *riskuc.Service) error {
		return runInitDb(cmd, app)
	}),
}

func init() {
	rootCmd.AddCommand(initDbCmd)

	initDbCmd.Flags().String("seed", "", "YAML fixture with suppliers and listings")
}

type seedSupplier struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type seedListing struct {
	Title           string   `yaml:"title"`
	Supplier        string   `yaml:"supplier"`
	Quantity        float64  `yaml:"quantity"`
	Unit            string   `yaml:"unit"`
	ExpiresInHours  float64  `yaml:"expires_in_hours"`
	ListingType     string   `yaml:"listing_type"`
	MinimumQuantity *float64 `yaml:"minimum_quantity"`
}

type seedFile struct {
	Suppliers []seedSupplier `yaml:"suppliers"`
	Listings  []seedListing  `yaml:"listings"`
}

func seedFromFile(ctx context.Context, repo ports.ListingRepository, path string) (int, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, errs.Wrapf(err, "read seed file %q", path)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return 0, 0, errs.Wrapf(err, "parse seed file %q", path)
	}

	supplierIDs := make(map[string]uint64, len(seed.Suppliers))
	for _, s := range seed.Suppliers {
		created, err := repo.CreateSupplier(ctx, ports.Supplier{
			Name:  s.Name,
			Email: s.Email,
		})
		if err != nil {
			return 0, 0, errs.Wrapf(err, "seed supplier %q", s.Name)
		}
		supplierIDs[strings.TrimSpace(s.Name)] = created.SupplierID
	}

	now := time.Now()
	for _, l := range seed.Listings {
		supplierID, ok := supplierIDs[strings.TrimSpace(l.Supplier)]
		if !ok {
			return 0, 0, fmt.Errorf("seed listing %q references unknown supplier %q", l.Title, l.Supplier)
		}

		if _, err := repo.CreateListing(ctx, ports.Listing{
			Title:           l.Title,
			SupplierID:      supplierID,
			Quantity:        l.Quantity,
			Unit:            l.Unit,
			ExpiresAt:       now.Add(time.Duration(l.ExpiresInHours * float64(time.Hour))),
			ListingType:     l.ListingType,
			MinimumQuantity: l.MinimumQuantity,
			Status:          ports.ListingStatusActive,
		}); err != nil {
			return 0, 0, errs.Wrapf(err, "seed listing %q", l.Title)
		}
	}

	return len(seed.Suppliers), len(seed.Listings), nil
}

func runInitDb(cmd *cobra.Command, app *bootstrap.App) error {
	ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
	logging.Info(ctx, "start init-db")

	if err := app.InitSchema(ctx); err != nil {
		logging.Error(ctx, "initialize schema failed", slog.Any("err", errs.Loggable(err)))
		return errs.Wrap(err, "initialize schema")
	}

	if seedPath, _ := cmd.Flags().GetString("seed"); seedPath != "" {
		repo := sqliterepo.NewListingRepository(app.DB)
		suppliers, listings, err := seedFromFile(ctx, repo, seedPath)
		if err != nil {
			return errs.Wrap(err, "seed fixture data")
		}
		logging.Info(ctx, "fixture data seeded",
			slog.Int("suppliers", suppliers),
			slog.Int("listings", listings),
		)
	}

	logging.Info(ctx, "init-db finished", slog.String("database_dsn", app.Config.Database.DSN))
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "database schema initialized: %s\n", app.Config.Database.DSN); err != nil {
		return errs.Wrap(err, "write init-db output")
	}
	return nil
}
