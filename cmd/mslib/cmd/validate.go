package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/mslib/pkg/core"
)

func newValidateCmd(a *app) *cobra.Command {
	var inputFormat string

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate input file format and contents",
		Long: `Validate that an input file is properly formatted and contains valid spectral data.

Every skipped or malformed entry is printed. The command fails if there was
at least one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := resolveFormat(path, inputFormat, "from", core.FormatMSP, core.FormatMoNA, core.FormatSQLite)
			if err != nil {
				return err
			}
			lib, err := a.readLibrary(path, format, readOptions{collect: true})
			if err != nil {
				return fmt.Errorf("invalid %s library: %w", format, err)
			}

			out := cmd.OutOrStdout()
			for _, d := range lib.Diagnostics {
				fmt.Fprintln(out, d.String())
			}
			if n := len(lib.Diagnostics) + invalidSpectra(out, path, lib); n > 0 {
				return fmt.Errorf("%s: %s problems found", path, humanize.Comma(int64(n)))
			}
			fmt.Fprintf(out, "%s: OK, %s records\n", path, humanize.Comma(int64(lib.Len())))
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputFormat, "from", "f", "", "Input format: msp, mona, sqlite (auto-detect if not specified)")
	return cmd
}

// invalidSpectra prints and counts records whose peaks are not finite.
func invalidSpectra(out io.Writer, path string, lib *core.Library) int {
	bad := 0
	for i, rec := range lib.Records {
		if err := rec.Spectrum.Validate(); err != nil {
			fmt.Fprintf(out, "%s: record %d: %v\n", path, i+1, err)
			bad++
		}
	}
	return bad
}
