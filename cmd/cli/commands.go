package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"conversor/adapters/excel"
	"conversor/app"
	"conversor/domain/datalogger"
	"conversor/internal/layout"
	"conversor/internal/report"
	"conversor/internal/session"
	"conversor/internal/testkit"
	"conversor/ui"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newService() *app.ConversionService {
	logo, _ := ui.Logo()
	return app.NewConversionService(
		excel.NewDataReader(excel.DefaultReaderConfig()),
		session.NewMemoryStore(0),
		report.NewRenderer(logo, report.DefaultLetterhead),
		4,
	)
}

func newClassifyCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Print the detected layout of a datalogger spreadsheet",
		Long: `Read the first worksheet of a spreadsheet and print which export layout it uses:
datalogger_export, summary_report or generic_timeseries.

Example: conversor-cli classify dados.xlsx -v`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.Context(), cmd.OutOrStdout(), args[0], verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print the rule and header row that decided")
	return cmd
}

func runClassify(ctx context.Context, out io.Writer, path string, verbose bool) error {
	sheet, err := excel.NewDataReader(excel.DefaultReaderConfig()).Read(ctx, path)
	if err != nil {
		return err
	}
	detection := layout.Detect(sheet)
	if verbose {
		fmt.Fprintf(out, "%s\trule=%s\theader_row=%d\n", detection.Layout, detection.Rule, detection.HeaderRow)
		return nil
	}
	fmt.Fprintln(out, detection.Layout)
	return nil
}

func newConvertCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Print the daily max/min table of one or more spreadsheets",
		Long: `Convert datalogger spreadsheets into daily temperature and humidity extremes.
Files are converted concurrently and printed in argument order.

Example: conversor-cli convert janeiro.xlsx fevereiro.csv --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cmd.OutOrStdout(), newService(), args, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a text table")
	return cmd
}

type convertOutput struct {
	File   string                  `json:"file"`
	Layout datalogger.LayoutTag    `json:"layout"`
	Table  *datalogger.ResultTable `json:"table"`
}

func runConvert(ctx context.Context, out io.Writer, svc *app.ConversionService, files []string, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]convertOutput, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			outcome, err := svc.Process(gctx, file)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i] = convertOutput{File: file, Layout: outcome.Result.Layout, Table: outcome.Result.Table}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "# %s (%s)\n", res.File, res.Layout)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, record := range res.Table.Records() {
			fmt.Fprintln(tw, strings.Join(record, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func newPDFCmd() *cobra.Command {
	var output string
	var meta datalogger.ReportMetadata

	cmd := &cobra.Command{
		Use:   "pdf [file]",
		Short: "Convert a spreadsheet and write the PDF report",
		Long: `Convert a datalogger spreadsheet and print its daily table as the letterhead PDF report.

Example: conversor-cli pdf dados.xlsx -o "Resultado Final.pdf" --study EST-01 --equipment DL-07`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPDF(cmd.Context(), newService(), args[0], output, meta)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "Resultado Final.pdf", "PDF file to write")
	cmd.Flags().StringVar(&meta.StudyNumber, "study", "", "Número do estudo")
	cmd.Flags().StringVar(&meta.EquipmentCode, "equipment", "", "Código do equipamento")
	cmd.Flags().StringVar(&meta.TestNumber, "test", "", "Número do ensaio")
	cmd.Flags().StringVar(&meta.ReadingLocation, "location", "", "Local de leitura do equipamento")
	cmd.Flags().StringVar(&meta.ReportDate, "date", "", "Report date DD/MM/YYYY (default today)")
	return cmd
}

func runPDF(ctx context.Context, svc *app.ConversionService, path, output string, meta datalogger.ReportMetadata) error {
	if ctx == nil {
		ctx = context.Background()
	}
	conv, err := svc.ConvertFile(ctx, path, filepath.Base(path))
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := svc.RenderReport(ctx, f, conv.ID.String(), meta); err != nil {
		f.Close()
		os.Remove(output)
		return err
	}
	return f.Close()
}

func newSampleCmd() *cobra.Command {
	var output string
	var days, perDay int
	var seed int64

	cmd := &cobra.Command{
		Use:   "sample [layout]",
		Short: "Write a synthetic spreadsheet in one of the known layouts",
		Long: `Generate synthetic readings and write them as an xlsx workbook in the given layout
(datalogger_export, summary_report or generic_timeseries).

Example: conversor-cli sample summary_report -o relatorio.xlsx --days 14 --per-day 48`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := datalogger.ParseLayoutTag(args[0])
			if err != nil {
				return err
			}
			cfg := testkit.DefaultSampleConfig()
			cfg.Days = days
			cfg.PerDay = perDay
			cfg.Seed = seed
			return runSample(cmd.OutOrStdout(), tag, output, cfg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "sample.xlsx", "Workbook to write")
	cmd.Flags().IntVar(&days, "days", 7, "Number of days")
	cmd.Flags().IntVar(&perDay, "per-day", 24, "Readings per day")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic output")
	return cmd
}

func runSample(out io.Writer, tag datalogger.LayoutTag, output string, cfg testkit.SampleGeneratorConfig) error {
	if cfg.Days < 1 || cfg.PerDay < 1 {
		return fmt.Errorf("--days and --per-day must be positive")
	}
	start := time.Now()
	readings, err := testkit.NewSampleGenerator(cfg).WriteSample(output, tag)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d readings (%s) to %s in %v\n", len(readings), tag, output, time.Since(start).Round(time.Millisecond))
	return nil
}
