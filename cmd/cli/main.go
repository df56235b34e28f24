package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"abtest/adapters/excel"
	"abtest/domain/abtest"
	"abtest/internal/batch"
	"abtest/internal/config"
	"abtest/internal/container"
	"abtest/internal/engine"
	"abtest/internal/logging"
)

var (
	significantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	neutralStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)

type app struct {
	config *config.Config
	engine *engine.Engine
	logger *log.Logger
}

func main() {
	_ = godotenv.Load()

	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "abtest",
		Short: "A/B test significance calculator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(a),
		newBatchCmd(a),
		newSampleSizeCmd(a),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c, err := container.NewWithLogger(cfg, logging.NewWithWriter(os.Stderr, cfg.Logging.Level))
	if err != nil {
		return err
	}
	a.config = cfg
	a.engine = c.Engine
	a.logger = c.Logger
	return nil
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var in abtest.Input
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse a single experiment",
		Long: `Run every significance procedure on one control/variation pair.

Example: abtest analyze --control-size 1000 --control-conversions 100 --variation-size 1000 --variation-conversions 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.Validate(); err != nil {
				return err
			}
			report := a.engine.Analyze(in)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().IntVar(&in.ControlSize, "control-size", 0, "Visitors in the control group")
	cmd.Flags().IntVar(&in.ControlConversions, "control-conversions", 0, "Conversions in the control group")
	cmd.Flags().IntVar(&in.VariationSize, "variation-size", 0, "Visitors in the variation group")
	cmd.Flags().IntVar(&in.VariationConversions, "variation-conversions", 0, "Conversions in the variation group")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	for _, name := range []string{"control-size", "control-conversions", "variation-size", "variation-conversions"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var out, sheet string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch [input.xlsx|input.csv]",
		Short: "Analyse every experiment in a workbook",
		Long: `Analyse one experiment per row. The header row must name control_size,
control_conversions, variation_size and variation_conversions; a name column is optional.

Example: abtest batch experiments.xlsx --out results.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := excel.NewDataReader(args[0], sheet).ReadItems()
			if err != nil {
				return err
			}
			if concurrency <= 0 {
				concurrency = a.config.Batch.Concurrency
			}

			a.logger.Info("Analysing experiments", "file", args[0], "rows", len(items), "concurrency", concurrency)
			results, err := batch.NewRunner(a.engine, concurrency).Run(cmd.Context(), items)
			if err != nil {
				return err
			}

			printBatch(cmd.OutOrStdout(), results, batch.Summarize(results))

			if out != "" {
				if err := excel.WriteResults(out, results); err != nil {
					return err
				}
				a.logger.Info("Results written", "file", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write results to this .xlsx file")
	cmd.Flags().StringVar(&sheet, "sheet", excel.DefaultSheet, "Sheet to read experiments from")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel analyses (default from BATCH_CONCURRENCY)")

	return cmd
}

func newSampleSizeCmd(a *app) *cobra.Command {
	var baseline, mde float64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sample-size",
		Short: "Plan the per-group sample size for a future experiment",
		Long: `Compute visitors per group needed to detect an absolute lift at the configured alpha and power.

Example: abtest sample-size --baseline 0.10 --mde 0.02`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := a.engine.Sizer().Plan(baseline, mde)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), plan)
			}
			w := cmd.OutOrStdout()
			params := a.engine.Params()
			fmt.Fprintf(w, "Baseline rate:      %.2f%%\n", plan.BaselineRate*100)
			fmt.Fprintf(w, "Detectable lift:    %+.2f pp\n", plan.MinimumDetectableEffect*100)
			fmt.Fprintf(w, "Alpha / power:      %.2f / %.2f\n", params.Alpha, params.Power)
			fmt.Fprintf(w, "Per group:          %s\n", headerStyle.Render(fmt.Sprint(plan.PerGroup)))
			fmt.Fprintf(w, "Total:              %d\n", plan.Total)
			return nil
		},
	}

	cmd.Flags().Float64Var(&baseline, "baseline", 0, "Baseline conversion rate, e.g. 0.10")
	cmd.Flags().Float64Var(&mde, "mde", 0, "Minimum detectable absolute lift, e.g. 0.02 for +2 points")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")
	_ = cmd.MarkFlagRequired("baseline")
	_ = cmd.MarkFlagRequired("mde")

	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(w io.Writer, r abtest.Report) {
	fmt.Fprintln(w, headerStyle.Render("Groups"))
	fmt.Fprintf(w, "  control    %6.2f%%  (%d/%d)  CI [%.2f%%, %.2f%%]\n",
		r.Control.ConversionRate*100, r.Control.Conversions, r.Control.SampleSize,
		r.Control.CILower*100, r.Control.CIUpper*100)
	fmt.Fprintf(w, "  variation  %6.2f%%  (%d/%d)  CI [%.2f%%, %.2f%%]\n",
		r.Variation.ConversionRate*100, r.Variation.Conversions, r.Variation.SampleSize,
		r.Variation.CILower*100, r.Variation.CIUpper*100)
	fmt.Fprintf(w, "  difference %+.2f pp (%+.2f%%)  CI [%.2f, %.2f] pp\n\n",
		r.Difference.Absolute*100, r.Difference.Relative,
		r.Difference.CILower*100, r.Difference.CIUpper*100)

	fmt.Fprintln(w, headerStyle.Render("Procedures"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	t := r.StatisticalTests
	fmt.Fprintf(tw, "  z-test\t%s\t%s\n", num(t.ZTest.ZScore), num(t.ZTest.PValue))
	fmt.Fprintf(tw, "  chi-square\t%s\t%s\n", num(t.ChiSquare.Statistic), num(t.ChiSquare.PValue))
	fmt.Fprintf(tw, "  chi-square (Yates)\t%s\t%s\n", num(t.Chi2Contingency.Statistic), num(t.Chi2Contingency.PValue))
	fmt.Fprintf(tw, "  Fisher exact\t%s\t%s\n", num(t.FishersExact.OddsRatio), num(t.FishersExact.PValue))
	fmt.Fprintf(tw, "  Barnard (approx.)\t%s\t%s\n", num(t.BarnardsExact.PooledRate), num(t.BarnardsExact.PValue))
	fmt.Fprintf(tw, "  G-test\t%s\t%s\n", num(t.GTest.Statistic), num(t.GTest.PValue))
	tw.Flush()

	fmt.Fprintf(w, "\nCohen's h: %.4f (%s)\n", r.EffectSize.CohensH, r.EffectSize.Interpretation)
	if r.Results.IsSignificant {
		fmt.Fprintln(w, significantStyle.Render(fmt.Sprintf("Significant at %d%% confidence", r.Results.ConfidenceLevel)))
		return
	}
	fmt.Fprintln(w, neutralStyle.Render(fmt.Sprintf("Not significant at %d%% confidence", r.Results.ConfidenceLevel)))
	if r.Results.RecommendedSampleSize > 0 {
		fmt.Fprintf(w, "Recommended sample size per group: %d\n", r.Results.RecommendedSampleSize)
	}
}

func printBatch(w io.Writer, results []batch.Result, summary batch.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tNAME\tCONTROL\tVARIATION\tLIFT\tP-VALUE\tVERDICT")
	for _, res := range results {
		if res.Err != nil || res.Report == nil {
			fmt.Fprintf(tw, "%d\t%s\t\t\t\t\t%s\n", res.Item.Row, res.Item.Name, errorStyle.Render(fmt.Sprint(res.Err)))
			continue
		}
		r := res.Report
		verdict := neutralStyle.Render("not significant")
		if r.Results.IsSignificant {
			verdict = significantStyle.Render("significant")
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f%%\t%.2f%%\t%+.2f%%\t%s\t%s\n",
			res.Item.Row, res.Item.Name,
			r.Control.ConversionRate*100, r.Variation.ConversionRate*100,
			r.Difference.Relative, num(r.StatisticalTests.ZTest.PValue), verdict)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d experiments: %d analysed, %d significant, %d failed\n",
		summary.Total, summary.Analyzed, summary.Significant, summary.Failed)
	fmt.Fprintf(w, "Relative lift: mean %+.2f%%, median %+.2f%%; median p-value %.4f\n",
		summary.MeanRelativeLift, summary.MedianRelativeLift, summary.MedianPValue)
}

func num(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}
