package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/mslib/pkg/core"
)

func newSummarizeCmd(a *app) *cobra.Command {
	var inputFormat string

	cmd := &cobra.Command{
		Use:   "summarize [file]",
		Short: "Summarize spectral library contents",
		Long:  `Print summary statistics about a spectral library including record count, peak counts, m/z range, and field coverage.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := resolveFormat(path, inputFormat, "from", core.FormatMSP, core.FormatMoNA, core.FormatSQLite)
			if err != nil {
				return err
			}
			lib, err := a.readLibrary(path, format, readOptions{})
			if err != nil {
				return fmt.Errorf("error reading input file: %w", err)
			}
			return printSummary(cmd, path, format, lib)
		},
	}
	cmd.Flags().StringVarP(&inputFormat, "from", "f", "", "Input format: msp, mona, sqlite (auto-detect if not specified)")
	return cmd
}

func printSummary(cmd *cobra.Command, path, format string, lib *core.Library) error {
	s := core.Summarize(lib)
	out := cmd.OutOrStdout()

	size := ""
	if st, err := os.Stat(path); err == nil {
		size = fmt.Sprintf(" (%s)", humanize.Bytes(uint64(st.Size())))
	}
	fmt.Fprintf(out, "File: %s%s\n", path, size)
	fmt.Fprintf(out, "Format: %s\n", format)
	if lib.Source.Digest != "" {
		fmt.Fprintf(out, "Digest: %s\n", lib.Source.Digest)
	}
	fmt.Fprintf(out, "Records: %s\n", humanize.Comma(int64(s.Records)))
	if s.Skipped > 0 {
		fmt.Fprintf(out, "Skipped: %s\n", humanize.Comma(int64(s.Skipped)))
	}
	if s.Records > 0 {
		fmt.Fprintf(out, "Peaks per record: %d to %d\n", s.MinPeaks, s.MaxPeaks)
	}
	if s.HasPeaks {
		fmt.Fprintf(out, "m/z range: %.4f to %.4f\n", s.MinMZ, s.MaxMZ)
	}
	if len(s.Fields) == 0 {
		return nil
	}

	fmt.Fprintf(out, "Fields:\n")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, f := range s.Fields {
		pct := 0.0
		if s.Records > 0 {
			pct = 100 * float64(f.Count) / float64(s.Records)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%.1f%%\n", f.Name, humanize.Comma(int64(f.Count)), pct)
	}
	return tw.Flush()
}
