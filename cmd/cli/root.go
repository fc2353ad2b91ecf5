package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/adapters/clipboard"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/config"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/services"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/logging"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/ports"
	"go.uber.org/zap"
)

// cli carries what every subcommand needs once flags are parsed.
type cli struct {
	cfg        *config.Config
	logger     *zap.Logger
	comparison *services.ComparisonService
	clipboard  func() ports.Clipboard
	stdin      io.Reader
}

func newRootCmd() *cobra.Command {
	app := &cli{
		clipboard: func() ports.Clipboard { return clipboard.New() },
		stdin:     os.Stdin,
	}
	return app.rootCmd()
}

func (app *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "unserialize-compare",
		Short: "Decode PHP-serialized or JSON data and share comparisons as links",
		Long: `unserialize-compare decodes PHP serialize() output and JSON documents,
and packs up to three of them into a compact link token so a comparison
can be reopened from its URL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	root.PersistentFlags().String("log-level", "", "log level (debug, normal, none); defaults to LOG_LEVEL")
	root.PersistentFlags().Int("max-entries", 0, "entries per comparison; defaults to MAX_ENTRIES")

	root.AddCommand(app.decodeCmd())
	root.AddCommand(app.linkCmd())
	root.AddCommand(app.compareCmd())
	root.AddCommand(app.exportCmd())
	root.AddCommand(app.importCmd())
	return root
}

func (app *cli) setup(cmd *cobra.Command) error {
	app.cfg = config.Load()
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		app.cfg.LogLevel = level
	}
	if n, _ := cmd.Flags().GetInt("max-entries"); n > 0 {
		app.cfg.MaxEntries = n
	}

	// log lines go to stderr so stdout stays pipeable
	logger, err := logging.NewWithWriters(app.cfg.LogLevel, cmd.ErrOrStderr(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	app.logger = logger
	app.comparison = services.NewComparisonService(app.cfg.MaxEntries, logger)
	return nil
}

// readInput returns the contents of name, or stdin for "-".
func (app *cli) readInput(name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(app.stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
