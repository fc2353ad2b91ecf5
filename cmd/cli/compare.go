package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/adapters/location"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
	"go.uber.org/zap"
)

func (app *cli) compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Open a comparison URL, edit its entries and print the new URL",
		Long: `Compare loads the entries carried by --url, removes the entries at
the --remove positions, appends one entry per --file and prints every
decoded entry followed by the updated URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rawURL, _ := cmd.Flags().GetString("url")
			files, _ := cmd.Flags().GetStringSlice("file")
			titles, _ := cmd.Flags().GetStringSlice("title")
			remove, _ := cmd.Flags().GetIntSlice("remove")
			copyURL, _ := cmd.Flags().GetBool("copy")

			loc, err := location.Parse(rawURL)
			if err != nil {
				return fmt.Errorf("parse --url: %w", err)
			}
			ws := app.comparison.NewWorkspace(loc)
			if token := loc.Token(); token != "" && !ws.LoadLink(token) {
				app.logger.Warn("the URL does not carry a readable comparison, starting empty")
			}

			// highest first so earlier positions stay valid
			slices.Sort(remove)
			for i := len(remove) - 1; i >= 0; i-- {
				if err := ws.Remove(remove[i]); err != nil {
					return fmt.Errorf("remove entry %d: %w", remove[i], err)
				}
			}
			for i, name := range files {
				text, err := app.readInput(name)
				if err != nil {
					return err
				}
				entry := domain.RawEntry{Text: text}
				if i < len(titles) {
					entry.Title = titles[i]
				}
				if _, err := ws.Add(entry); err != nil {
					if errors.Is(err, domain.ErrCollectionFull) {
						return fmt.Errorf("cannot add %s: the comparison already holds %d entries", name, app.comparison.MaxEntries())
					}
					return err
				}
			}

			out := cmd.OutOrStdout()
			for i, e := range ws.Entries() {
				printEntry(out, i, e, "json")
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, loc.String())

			if copyURL {
				if err := app.clipboard().WriteText(loc.String()); err != nil {
					app.logger.Warn("could not copy the URL", zap.Error(err))
				} else {
					app.logger.Info("URL copied to clipboard")
				}
			}
			return nil
		},
	}
	cmd.Flags().String("url", "", "comparison page URL, optionally carrying a data parameter")
	cmd.Flags().StringSlice("file", nil, "files to add as entries (\"-\" for stdin)")
	cmd.Flags().StringSlice("title", nil, "titles for the added entries, in file order")
	cmd.Flags().IntSlice("remove", nil, "positions of entries to remove before adding")
	cmd.Flags().Bool("copy", false, "copy the resulting URL to the clipboard")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
