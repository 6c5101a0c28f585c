package chart

import (
	"image/color"
	"math"
	"os"

	"RallyFinder/internal/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	black  = color.RGBA{A: 255}
	blue   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	red    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	green  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	orange = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	shade  = color.RGBA{R: 128, G: 128, B: 128, A: 50}
	dashed = []vg.Length{vg.Points(4), vg.Points(3)}
)

func renderSignals(a *model.AnnotatedSeries, w, h vg.Length, path string) error {
	xs := timeAxis(a.Series)
	ind := a.Indicators
	title := a.Series.Symbol + " " + a.Series.Period

	price := newPlot(title+" close and rise points", "Price")
	if err := addLine(price, "Close", xs, a.Series.Closes(), black, nil); err != nil {
		return err
	}
	if err := addRiseMarkers(price, xs, a.Series.Closes(), a.RisePoints); err != nil {
		return err
	}

	macd := newPlot("MACD", "")
	if err := addLine(macd, "MACD", xs, ind.MACD, blue, nil); err != nil {
		return err
	}
	if err := addLine(macd, "Signal", xs, ind.Signal, red, nil); err != nil {
		return err
	}

	rsi := newPlot("RSI", "")
	rsi.Y.Min, rsi.Y.Max = 0, 100
	if err := addLine(rsi, "RSI", xs, ind.RSI, blue, nil); err != nil {
		return err
	}
	addLevel(rsi, "Overbought (70)", 70, red)
	addLevel(rsi, "Oversold (30)", 30, green)

	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      3,
		Cols:      1,
		PadY:      vg.Points(10),
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(10),
	}
	plots := [][]*plot.Plot{{price}, {macd}, {rsi}}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderBollinger(a *model.AnnotatedSeries, w, h vg.Length, path string) error {
	xs := timeAxis(a.Series)
	ind := a.Indicators

	p := newPlot(a.Series.Symbol+" "+a.Series.Period+" Bollinger bands", "Price")
	if err := addBand(p, xs, ind.UpperBand, ind.LowerBand); err != nil {
		return err
	}
	if err := addLine(p, "Close", xs, a.Series.Closes(), black, nil); err != nil {
		return err
	}
	if err := addLine(p, "SMA", xs, ind.SMA20, orange, nil); err != nil {
		return err
	}
	if err := addLine(p, "Upper band", xs, ind.UpperBand, red, dashed); err != nil {
		return err
	}
	if err := addLine(p, "Lower band", xs, ind.LowerBand, green, dashed); err != nil {
		return err
	}
	return p.Save(w, h, path)
}

func newPlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ylabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())
	return p
}

func timeAxis(s *model.PriceSeries) []float64 {
	dates := s.Dates()
	xs := make([]float64, len(dates))
	for i, d := range dates {
		xs[i] = float64(d.Unix())
	}
	return xs
}

// segments splits a column into runs of defined values. NaN rows break the
// line rather than being interpolated across.
func segments(xs, ys []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i := range ys {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func addLine(p *plot.Plot, name string, xs, ys []float64, c color.Color, dashes []vg.Length) error {
	for i, seg := range segments(xs, ys) {
		l, err := plotter.NewLine(seg)
		if err != nil {
			return err
		}
		l.Color = c
		l.Width = vg.Points(1.2)
		l.Dashes = dashes
		p.Add(l)
		if i == 0 {
			p.Legend.Add(name, l)
		}
	}
	return nil
}

func addRiseMarkers(p *plot.Plot, xs, closes []float64, rise []bool) error {
	var pts plotter.XYs
	for i, r := range rise {
		if r {
			pts = append(pts, plotter.XY{X: xs[i], Y: closes[i]})
		}
	}
	if len(pts) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Shape = draw.TriangleGlyph{}
	s.GlyphStyle.Color = green
	s.GlyphStyle.Radius = vg.Points(5)
	p.Add(s)
	p.Legend.Add("Rise point", s)
	return nil
}

func addLevel(p *plot.Plot, name string, y float64, c color.Color) {
	f := plotter.NewFunction(func(float64) float64 { return y })
	f.Color = c
	f.Dashes = dashed
	f.Width = vg.Points(1)
	p.Add(f)
	p.Legend.Add(name, f)
}

// addBand shades the region between upper and lower wherever both are
// defined.
func addBand(p *plot.Plot, xs, upper, lower []float64) error {
	var run []int
	flush := func() error {
		defer func() { run = run[:0] }()
		if len(run) < 2 {
			return nil
		}
		poly := make(plotter.XYs, 0, 2*len(run))
		for _, i := range run {
			poly = append(poly, plotter.XY{X: xs[i], Y: upper[i]})
		}
		for k := len(run) - 1; k >= 0; k-- {
			i := run[k]
			poly = append(poly, plotter.XY{X: xs[i], Y: lower[i]})
		}
		pg, err := plotter.NewPolygon(poly)
		if err != nil {
			return err
		}
		pg.Color = shade
		pg.LineStyle.Width = 0
		p.Add(pg)
		return nil
	}
	for i := range xs {
		if math.IsNaN(upper[i]) || math.IsNaN(lower[i]) {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		run = append(run, i)
	}
	return flush()
}
