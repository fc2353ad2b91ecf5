package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/decoder"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
	"gopkg.in/yaml.v3"
)

func (app *cli) decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file|-]",
		Short: "Decode PHP-serialized or JSON data and print it",
		Long: `Decode reads serialized data from a file, from stdin ("-" or no
argument) or from --text, detects its format and prints the decoded value.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _ := cmd.Flags().GetString("text")
			if !cmd.Flags().Changed("text") {
				name := "-"
				if len(args) == 1 {
					name = args[0]
				}
				var err error
				if text, err = app.readInput(name); err != nil {
					return err
				}
			}

			output, err := outputFlag(cmd)
			if err != nil {
				return err
			}
			entry := app.comparison.Decode(domain.RawEntry{Text: text})
			printEntry(cmd.OutOrStdout(), -1, entry, output)
			if !entry.OK() {
				return fmt.Errorf("decode failed")
			}
			return nil
		},
	}
	cmd.Flags().String("text", "", "serialized data to decode instead of reading a file")
	addOutputFlag(cmd)
	return cmd
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "json", "value notation: json or yaml")
}

func outputFlag(cmd *cobra.Command) (string, error) {
	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "json", "yaml":
		return output, nil
	default:
		return "", fmt.Errorf("unknown output %q, use json or yaml", output)
	}
}

// printEntry writes a heading and the formatted value or error. A negative
// index omits the position.
func printEntry(w io.Writer, index int, e domain.DecodedEntry, output string) {
	heading := e.Format
	if heading == "" {
		heading = "unknown format"
	}
	if e.Title != "" {
		heading = e.Title + " (" + heading + ")"
	}
	if index >= 0 {
		heading = fmt.Sprintf("[%d] %s", index, heading)
	}
	fmt.Fprintf(w, "# %s\n", heading)
	if !e.OK() {
		fmt.Fprintf(w, "Error: %s\n", e.Error)
		return
	}
	if output == "yaml" && e.Value.Kind() != domain.KindString {
		out, err := yaml.Marshal(*e.Value)
		if err == nil {
			fmt.Fprint(w, string(out))
			return
		}
	}
	fmt.Fprintln(w, strings.TrimRight(decoder.Format(*e.Value), "\n"))
}
