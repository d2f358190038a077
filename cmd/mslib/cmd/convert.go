package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/mslib/pkg/core"
)

type convertFlags struct {
	inputFile    string
	inputFormat  string
	outputFile   string
	outputFormat string
}

func newConvertCmd(a *app) *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a spectral library to MSP or SQLite",
		Long: `Convert spectral libraries in MSP or MoNA JSON format (or an mslib SQLite
database) to MSP text or a SQLite database.

Formats are detected from the file extensions (.msp, .json, .db, .sqlite),
ignoring a trailing .gz or .zst.

Examples:
  # MoNA export to MSP
  mslib convert --in MoNA-export.json --out library.msp

  # MSP with comment mining to SQLite
  mslib convert --in library.msp.gz --out library.db --parse-comments

  # Shortest exact peak values, omitting absent fields
  mslib convert --in library.db --out library.msp --precision -1 --skip-missing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.inputFile, "in", "i", "", "Input file path (required)")
	cmd.Flags().StringVarP(&f.inputFormat, "from", "f", "", "Input format: msp, mona, sqlite (auto-detect if not specified)")
	cmd.Flags().StringVarP(&f.outputFile, "out", "o", "", "Output file path (required)")
	cmd.Flags().StringVarP(&f.outputFormat, "to", "t", "", "Output format: msp, sqlite (auto-detect if not specified)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) runConvert(cmd *cobra.Command, f convertFlags) error {
	inFormat, err := resolveFormat(f.inputFile, f.inputFormat, "from", core.FormatMSP, core.FormatMoNA, core.FormatSQLite)
	if err != nil {
		return err
	}
	outFormat, err := resolveFormat(f.outputFile, f.outputFormat, "to", core.FormatMSP, core.FormatSQLite)
	if err != nil {
		return err
	}

	a.logger.Info("Converting", "in", f.inputFile, "from", inFormat, "out", f.outputFile, "to", outFormat)

	lib, err := a.readLibrary(f.inputFile, inFormat, readOptions{})
	if err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}
	for _, d := range lib.Diagnostics {
		a.logger.Warn("Skipped input", "diagnostic", d.String())
	}

	if err := a.writeLibrary(f.outputFile, outFormat, lib); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.outputFile, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Conversion complete!\n")
	fmt.Fprintf(out, "Processed: %s records\n", humanize.Comma(int64(lib.Len())))
	if n := lib.SkippedLines(); n > 0 {
		fmt.Fprintf(out, "Skipped: %s entries\n", humanize.Comma(int64(n)))
	}
	fmt.Fprintf(out, "Output: %s\n", f.outputFile)
	return nil
}
