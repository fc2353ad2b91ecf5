package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/linkcodec"
	"go.uber.org/zap"
)

func (app *cli) linkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Encode entries into a link token or decode one",
	}
	cmd.AddCommand(app.linkEncodeCmd())
	cmd.AddCommand(app.linkDecodeCmd())
	return cmd
}

func (app *cli) linkEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [file|-]...",
		Short: "Encode one entry per file into a link token",
		Long: `Encode reads one entry per file ("-" for stdin) and prints the link
token. Titles are matched to files by position. With --url the full
shareable URL is printed instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			titles, _ := cmd.Flags().GetStringSlice("title")
			base, _ := cmd.Flags().GetString("url")

			entries, err := app.readEntries(args, titles)
			if err != nil {
				return err
			}

			token, err := linkcodec.EncodeErr(entries)
			if err != nil {
				return err
			}
			if base == "" {
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			}
			u, err := url.Parse(base)
			if err != nil {
				return fmt.Errorf("parse --url: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), linkcodec.SetToken(u, token).String())
			return nil
		},
	}
	cmd.Flags().StringSlice("title", nil, "entry titles, in file order")
	cmd.Flags().String("url", "", "page URL to attach the token to")
	return cmd
}

func (app *cli) readEntries(files, titles []string) ([]domain.RawEntry, error) {
	if len(files) > app.comparison.MaxEntries() {
		return nil, fmt.Errorf("at most %d entries fit in a link, got %d", app.comparison.MaxEntries(), len(files))
	}
	entries := make([]domain.RawEntry, len(files))
	for i, name := range files {
		text, err := app.readInput(name)
		if err != nil {
			return nil, err
		}
		entries[i].Text = text
		if i < len(titles) {
			entries[i].Title = titles[i]
		}
	}
	return entries, nil
}

func (app *cli) linkDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <token|url>",
		Short: "Decode a link token, or the data parameter of a URL, and print its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := outputFlag(cmd)
			if err != nil {
				return err
			}
			entries, err := entriesFromArg(args[0])
			if err != nil {
				app.logger.Debug("link decode failed", zap.Error(err))
				return fmt.Errorf("no entries could be read from the link")
			}

			out := cmd.OutOrStdout()
			for i, e := range app.comparison.DecodeAll(entries) {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printEntry(out, i, e, output)
			}
			return nil
		},
	}
	addOutputFlag(cmd)
	return cmd
}

// entriesFromArg decodes a bare token or the data parameter of a URL.
func entriesFromArg(arg string) ([]domain.RawEntry, error) {
	if strings.Contains(arg, "://") || strings.Contains(arg, "?") {
		u, err := url.Parse(arg)
		if err != nil {
			return nil, err
		}
		entries := linkcodec.FromURL(u)
		if len(entries) == 0 {
			return nil, fmt.Errorf("no readable %q parameter in %s", linkcodec.QueryParam, u.Redacted())
		}
		return entries, nil
	}
	return linkcodec.DecodeErr(arg)
}
