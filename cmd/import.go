package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizbucket/internal/importer"
	"github.com/abhisek/quizbucket/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <source>",
	Short: "Build a question corpus from an HTML page or a spreadsheet",
	Long: `Convert a question catalogue into the corpus JSON format.

Supported sources:
  html   a saved catalogue page (questions inside div#questions)
  xlsx   a workbook with one option per row: question, answer, correct flag
  csv    the same layout as xlsx

The format is guessed from the file extension unless --format is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.String("format", "", "Source format: html, xlsx or csv")
	f.StringP("out", "o", "", "Output corpus file (default: the configured questions file)")
	f.String("sheet", "Sheet1", "Worksheet to read (xlsx)")
	f.Bool("no-header", false, "The first spreadsheet row already holds data")
	f.Bool("skip-invalid", false, "Drop questions without a correct option instead of failing")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	src := args[0]
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(src)), ".")
		if format == "htm" {
			format = "html"
		}
	}

	var records []importer.Record
	switch format {
	case "html":
		f, err := os.Open(src)
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		records, err = importer.ParseHTML(f)
		f.Close()
		if err != nil {
			return err
		}
	case "xlsx", "csv":
		sc := importer.DefaultSheetConfig()
		sc.SheetName, _ = cmd.Flags().GetString("sheet")
		noHeader, _ := cmd.Flags().GetBool("no-header")
		sc.SkipHeader = !noHeader
		records, err = importer.ParseSheet(src, sc)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown source format %q: use --format html, xlsx or csv", format)
	}

	skip, _ := cmd.Flags().GetBool("skip-invalid")
	res, err := importer.Build(records, skip)
	if err != nil {
		return fmt.Errorf("import %s: %w", src, err)
	}
	if len(res.Questions) == 0 {
		return fmt.Errorf("import %s: no questions found", src)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.Questions
	}
	if err := store.WriteCorpusFile(out, res.Questions); err != nil {
		return err
	}

	log.Info("corpus imported",
		zap.String("source", src),
		zap.String("format", format),
		zap.Int("questions", len(res.Questions)),
		zap.Ints("skipped", res.Skipped))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d questions to %s\n", len(res.Questions), out)
	if len(res.Skipped) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d without a correct option\n", len(res.Skipped))
	}
	return nil
}
