package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
	"go.uber.org/zap"
)

func (app *cli) openRepository(cmd *cobra.Command) (*sqlite.SQLiteRepository, error) {
	dbURL, _ := cmd.Flags().GetString("db")
	if dbURL == "" {
		dbURL = app.cfg.DatabaseURL
	}
	repo, err := sqlite.NewSQLiteRepository(dbURL)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	return repo, nil
}

func (app *cli) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored share, deleted ones included, as JSON to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := app.openRepository(cmd)
			if err != nil {
				return err
			}
			defer repo.Close()

			shares, err := repo.Dump(cmd.Context())
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			if shares == nil {
				shares = []domain.Share{}
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(shares)
		},
	}
	cmd.Flags().String("db", "", "database URL; defaults to DATABASE_URL")
	return cmd
}

func (app *cli) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load shares written by export, skipping short codes that already exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("file")
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			var shares []domain.Share
			if err := json.Unmarshal(data, &shares); err != nil {
				return fmt.Errorf("decode import file: %w", err)
			}

			repo, err := app.openRepository(cmd)
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx := cmd.Context()
			count := 0
			for i := range shares {
				inserted, err := repo.Import(ctx, &shares[i])
				if err != nil {
					app.logger.Warn("failed to import share", zap.String("code", shares[i].ShortCode), zap.Error(err))
					continue
				}
				if !inserted {
					app.logger.Info("skipping existing code", zap.String("code", shares[i].ShortCode))
					continue
				}
				count++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d shares\n", count)
			return nil
		},
	}
	cmd.Flags().String("file", "", "JSON file written by export")
	cmd.Flags().String("db", "", "database URL; defaults to DATABASE_URL")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
