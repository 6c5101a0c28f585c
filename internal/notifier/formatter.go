package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"RallyFinder/internal/calculator"
	"RallyFinder/internal/collector"
	"RallyFinder/internal/model"
)

const dateLayout = "2006-01-02"

// FormatReport renders a plain-text summary of the most recent bar and the
// rise points found over the whole series.
func FormatReport(a *model.AnnotatedSeries) string {
	var b strings.Builder
	if a == nil || a.Len() == 0 {
		return "no data\n"
	}
	last := a.Last()
	s := a.Series

	b.WriteString(fmt.Sprintf("%s | %s | %d bars | %s .. %s\n\n",
		s.Symbol, s.Period, s.Len(),
		s.Points[0].Date.Format(dateLayout), last.Date.Format(dateLayout)))

	b.WriteString(fmt.Sprintf("Close:     %.2f\n", last.Close))
	if high, low, err := calculator.CalculateRange(s.Points, 0); err == nil {
		if pos, err := calculator.CalculatePosition(last.Close, high, low); err == nil {
			b.WriteString(fmt.Sprintf("Range:     %.2f - %.2f (at %.0f%%)\n", low, high, pos*100))
		}
	}
	b.WriteString(fmt.Sprintf("MACD:      %s (signal %s, %s)\n",
		num(last.MACD), num(last.Signal), crossState(last)))
	b.WriteString(fmt.Sprintf("RSI:       %s\n", num(last.RSI)))
	b.WriteString(fmt.Sprintf("Bollinger: %s / %s / %s\n\n",
		num(last.LowerBand), num(last.SMA20), num(last.UpperBand)))

	dates := a.RiseDates()
	if len(dates) == 0 {
		b.WriteString("Rise points: none\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Rise points (%d):\n", len(dates)))
	for _, d := range dates {
		b.WriteString("  " + d.Format(dateLayout) + "\n")
	}
	return b.String()
}

// FormatAlert wraps the report for Telegram when the latest bar is a rise point.
func FormatAlert(a *model.AnnotatedSeries) string {
	last := a.Last()
	return fmt.Sprintf("📈 <b>Rise point</b> | %s %s\n\n<pre>%s</pre>",
		html.EscapeString(a.Series.Symbol), last.Date.Format(dateLayout),
		html.EscapeString(FormatReport(a)))
}

// FormatError renders a failed run for Telegram.
func FormatError(symbol, period string, err error) string {
	return fmt.Sprintf("❌ %s %s: %s",
		html.EscapeString(symbol), html.EscapeString(period), html.EscapeString(err.Error()))
}

// FormatPeriods lists the accepted period tokens.
func FormatPeriods() string {
	return "Valid periods: " + strings.Join(collector.ValidPeriods, ", ")
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func crossState(p model.AnnotatedPoint) string {
	switch {
	case math.IsNaN(p.MACD) || math.IsNaN(p.Signal):
		return "n/a"
	case p.MACD > p.Signal:
		return "above"
	case p.MACD < p.Signal:
		return "below"
	default:
		return "equal"
	}
}
