package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"RallyFinder/internal/model"

	"gonum.org/v1/plot/vg"
)

// Presenter renders an annotated series.
type Presenter interface {
	Render(a *model.AnnotatedSeries) error
}

// PNGPresenter writes the signal and Bollinger charts as PNG files into Dir.
// Width and Height are in inches.
type PNGPresenter struct {
	Dir    string
	Width  float64
	Height float64
}

// NewPNGPresenter creates a presenter writing into dir.
func NewPNGPresenter(dir string, width, height float64) *PNGPresenter {
	return &PNGPresenter{Dir: dir, Width: width, Height: height}
}

// SignalsPath returns the path of the three-panel signal chart.
func (p *PNGPresenter) SignalsPath(symbol, period string) string {
	return filepath.Join(p.Dir, fmt.Sprintf("%s_%s_signals.png", symbol, period))
}

// BollingerPath returns the path of the Bollinger chart.
func (p *PNGPresenter) BollingerPath(symbol, period string) string {
	return filepath.Join(p.Dir, fmt.Sprintf("%s_%s_bollinger.png", symbol, period))
}

func (p *PNGPresenter) Render(a *model.AnnotatedSeries) error {
	if a == nil || a.Len() == 0 {
		return fmt.Errorf("render: empty series")
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}

	w, h := p.size()
	sym, period := a.Series.Symbol, a.Series.Period

	if err := renderSignals(a, w, h, p.SignalsPath(sym, period)); err != nil {
		return fmt.Errorf("signals chart: %w", err)
	}
	if err := renderBollinger(a, w, h*3/4, p.BollingerPath(sym, period)); err != nil {
		return fmt.Errorf("bollinger chart: %w", err)
	}
	return nil
}

func (p *PNGPresenter) size() (vg.Length, vg.Length) {
	w, h := p.Width, p.Height
	if w <= 0 {
		w = 12
	}
	if h <= 0 {
		h = 8
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// Discard is a Presenter that draws nothing. Used with --no-charts.
type Discard struct{}

func (Discard) Render(*model.AnnotatedSeries) error { return nil }
