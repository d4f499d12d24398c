package trigeff

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultDir is the output directory used when Output.Dir is empty.
const DefaultDir = "plots"

// Output says where and how plots are drawn.
type Output struct {
	Dir    string
	Style  Style
	Logger *zap.Logger
}

func (o Output) dir() string {
	if o.Dir == "" {
		return DefaultDir
	}
	return o.Dir
}

func (o Output) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// AccumulatorDir is the directory holding the plots of acc.
func (o Output) AccumulatorDir(acc *Accumulator) string {
	return filepath.Join(o.dir(), acc.Name())
}

// PlotPath is the image file of the plot tagged tag for acc.
func (o Output) PlotPath(acc *Accumulator, tag string) string {
	return filepath.Join(o.AccumulatorDir(acc), acc.Name()+tag+".png")
}

// ComparisonPath is the image file of the comparison of metric m.
func (o Output) ComparisonPath(m Metric) string {
	return filepath.Join(o.dir(), "All", "All"+m.String()+".png")
}

func (o Output) save(p *hplot.Plot, fname string) error {
	w, h := o.Style.size()
	if err := p.Save(w, h, fname); err != nil {
		return fmt.Errorf("trigeff: could not save %s: %w", fname, err)
	}
	o.logger().Debug("wrote plot", zap.String("file", fname))
	return nil
}

// TriggerEtaTag tags the quality fractions vs matched trigger eta.
const TriggerEtaTag = "EffvsGmtEta"

// Renderer draws the plots of accumulators and persists their histograms.
type Renderer struct {
	Output
	// Store receives every histogram on export; nil skips persistence.
	Store Store
}

func NewRenderer(out Output, store Store) *Renderer {
	return &Renderer{Output: out, Store: store}
}

// Export writes one image per booked efficiency curve, the trigger eta
// quality fractions, and the phi-eta efficiency map, then persists the
// histograms. Export only reads the accumulated counts and may be repeated.
func (r *Renderer) Export(acc *Accumulator) error {
	dir := r.AccumulatorDir(acc)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("trigeff: could not create %s: %w", dir, err)
	}

	var errs error
	for _, m := range acc.Metrics() {
		errs = multierr.Append(errs, r.saveCurve(acc, m))
	}
	errs = multierr.Append(errs, r.saveTriggerEta(acc))
	errs = multierr.Append(errs, r.saveMap(acc))

	if r.Store != nil {
		errs = multierr.Append(errs, Persist(r.Store, acc))
	}

	acc.exported = true

	if errs != nil {
		r.logger().Error("export failed", zap.String("name", acc.Name()), zap.Error(errs))
		return errs
	}
	r.logger().Info("exported", zap.String("name", acc.Name()), zap.String("dir", dir))
	return nil
}

func (r *Renderer) saveCurve(acc *Accumulator, m Metric) error {
	p, err := r.curvePlot(acc, m)
	if err != nil {
		return err
	}
	return r.save(p, r.PlotPath(acc, m.Tag()))
}

// curvePlot draws the m efficiency of acc over its stacked quality fractions.
func (r *Renderer) curvePlot(acc *Accumulator, m Metric) (*hplot.Plot, error) {
	eff := acc.Efficiency(m)

	p := newPlot(m, "efficiency")
	p.Add(qualityStack(acc.Quality(m).Fractions(eff.Total()), r.Style))

	if pts := eff.Points(acc.Interval()); len(pts) > 0 {
		c, err := newCurve(pts, color.Black)
		if err != nil {
			return nil, fmt.Errorf("trigeff: %s: %w", eff.Name(), err)
		}
		p.Add(c.plotters()...)
	}

	p.X.Min, p.X.Max = m.XRange()
	p.Y.Min, p.Y.Max = 0, 1.1
	return p, nil
}

func (r *Renderer) saveTriggerEta(acc *Accumulator) error {
	p := newPlot(EffVsEta, "quality contrib. to efficiency")
	p.X.Label.Text = "trigger eta"
	p.Add(qualityStack(acc.TriggerEtaQuality().Fractions(acc.TriggerEta()), r.Style))
	p.X.Min, p.X.Max = etaBinning.Min, etaBinning.Max
	p.Y.Min, p.Y.Max = 0, 1.1

	return r.save(p, r.PlotPath(acc, TriggerEtaTag))
}

func newPlot(m Metric, yLabel string) *hplot.Plot {
	p := hplot.New()
	p.X.Label.Text = metricInfos[m].xLabel
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = axisTicks(m.Binning())
	p.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	p.Add(plotter.NewGrid())
	return p
}

func axisTicks(b Binning) plot.Ticker {
	if b == phiBinning {
		return PiTicks{}
	}
	return PreciseTicks{NSuggestedTicks: 5}
}

// qualityStack stacks the per-quality fractions, quality 1 at the bottom.
func qualityStack(fracs []*hbook.H1D, style Style) *hplot.HStack {
	hs := make([]*hplot.H1D, len(fracs))
	for i, frac := range fracs {
		c := style.QualityColor(i + 1)
		h := hplot.NewH1D(frac)
		h.FillColor = c
		h.LineStyle.Color = c
		h.Infos.Style = hplot.HInfoNone
		hs[i] = h
	}
	return hplot.NewHStack(hs)
}

// curve is an efficiency graph drawn as markers with asymmetric error bars.
type curve struct {
	points *plotter.Scatter
	xerr   *plotter.XErrorBars
	yerr   *plotter.YErrorBars
}

func newCurve(pts []Point, c color.Color) (*curve, error) {
	xys := make(plotter.XYs, len(pts))
	xErrors := make(plotter.XErrors, len(pts))
	yErrors := make(plotter.YErrors, len(pts))
	for i, pt := range pts {
		xys[i].X = pt.X
		xys[i].Y = pt.Eff
		xErrors[i].Low = pt.HalfWidth
		xErrors[i].High = pt.HalfWidth
		yErrors[i].Low = pt.Low
		yErrors[i].High = pt.High
	}
	errPoints := plotutil.ErrorPoints{XYs: xys, XErrors: xErrors, YErrors: yErrors}

	xerr, err := plotter.NewXErrorBars(errPoints)
	if err != nil {
		return nil, err
	}
	yerr, err := plotter.NewYErrorBars(errPoints)
	if err != nil {
		return nil, err
	}
	points, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}

	xerr.LineStyle.Color = c
	yerr.LineStyle.Color = c
	points.GlyphStyle.Color = c
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Radius = vg.Points(1.5)

	return &curve{points: points, xerr: xerr, yerr: yerr}, nil
}

func (c *curve) plotters() []plot.Plotter {
	return []plot.Plotter{c.xerr, c.yerr, c.points}
}
