package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"RallyFinder/internal/collector"

	"github.com/spf13/cobra"
)

var (
	analyzeSymbol   string
	analyzePeriod   string
	analyzeOut      string
	analyzeStrict   bool
	analyzeNoCharts bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse one stock and chart its rise points",
	Long: `Analyse one stock and chart its rise points.

Symbol and period are prompted for when not given as flags.

Examples:
  rallyfinder analyze --symbol AAPL --period 1y
  rallyfinder analyze --symbol 2330.TW --period 6mo --out ./charts --strict-period`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeSymbol, "symbol", "s", "", "stock symbol (e.g. AAPL)")
	analyzeCmd.Flags().StringVarP(&analyzePeriod, "period", "p", "", "history length, one of "+strings.Join(collector.ValidPeriods, ", "))
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "chart output directory (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeStrict, "strict-period", false, "accept only the listed period tokens")
	analyzeCmd.Flags().BoolVar(&analyzeNoCharts, "no-charts", false, "print the report only")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	symbol := analyzeSymbol
	if symbol == "" {
		if symbol, err = prompt(in, out, "Enter the stock symbol: "); err != nil {
			return err
		}
	}
	period := analyzePeriod
	if period == "" {
		period = a.cfg.Period.Default
	}
	if period == "" {
		msg := fmt.Sprintf("Enter the period you want, must be one of [%s]\nPlease enter: ",
			strings.Join(collector.ValidPeriods, ", "))
		if period, err = prompt(in, out, msg); err != nil {
			return err
		}
	}

	dir := analyzeOut
	if dir == "" {
		dir = a.cfg.Output.Dir
	}
	charts := a.cfg.Output.Charts && !analyzeNoCharts
	strict := a.cfg.Period.Strict || analyzeStrict

	r := a.runner(dir, charts, strict)
	r.Reporter = out
	result, err := r.Run(cmd.Context(), symbol, period)
	if err != nil {
		return err
	}
	if charts {
		fmt.Fprintf(out, "\nCharts written to %s\n", dir)
	}
	a.log.WithField("rise_points", len(result.RiseDates())).Debug("analyze finished")
	return nil
}

// prompt reads one trimmed line. EOF with no input is an error.
func prompt(in *bufio.Reader, out io.Writer, msg string) (string, error) {
	fmt.Fprint(out, msg)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
