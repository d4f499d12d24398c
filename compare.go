package trigeff

import (
	"fmt"
	"os"
	"path/filepath"

	"go-hep.org/x/hep/hplot"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// LinearFit is y = Intercept + Slope*x.
type LinearFit struct {
	Intercept, Slope float64
}

func (f LinearFit) At(x float64) float64 { return f.Intercept + f.Slope*x }

// FitLine fits a first-degree polynomial to the points, weighting each by
// the inverse of its squared mean error. Points with no error are skipped.
// It returns nil with fewer than two usable points.
func FitLine(pts []Point) *LinearFit {
	var xs, ys, ws []float64
	for _, p := range pts {
		sigma := (p.Low + p.High) / 2
		if sigma <= 0 {
			continue
		}
		xs = append(xs, p.X)
		ys = append(ys, p.Eff)
		ws = append(ws, 1/(sigma*sigma))
	}
	if len(xs) < 2 {
		return nil
	}
	alpha, beta := stat.LinearRegression(xs, ys, ws, false)
	return &LinearFit{Intercept: alpha, Slope: beta}
}

// Compare overlays the m curve of every accumulator on one plot written to
// out.ComparisonPath(m). Curve i uses out.Style.LineColor(i). The y axis
// starts at 0.8 unless m is binned in pt. For luminosity sweeps the first
// curve is fitted with a straight line, which is drawn and returned.
// Accumulators that did not book m are skipped.
func Compare(out Output, accs []*Accumulator, m Metric) (*LinearFit, error) {
	p, _, fit, err := comparePlot(out, accs, m)
	if err != nil {
		return nil, err
	}

	fname := out.ComparisonPath(m)
	if err := os.MkdirAll(filepath.Dir(fname), 0o755); err != nil {
		return nil, fmt.Errorf("trigeff: could not create %s: %w", filepath.Dir(fname), err)
	}
	if err := out.save(p, fname); err != nil {
		return nil, err
	}
	return fit, nil
}

// comparePlot builds the comparison plot of m. curves[i] is the curve of
// accs[i], nil when accs[i] has nothing to draw.
func comparePlot(out Output, accs []*Accumulator, m Metric) (*hplot.Plot, []*curve, *LinearFit, error) {
	if m >= numMetrics || m.Is2D() {
		return nil, nil, nil, fmt.Errorf("trigeff: cannot compare metric %v", m)
	}
	log := out.logger()

	p := newPlot(m, "efficiency")
	p.Legend.Top = true
	p.Legend.Left = true

	curves := make([]*curve, len(accs))
	var fit *LinearFit
	for i, acc := range accs {
		eff := acc.Efficiency(m)
		if eff == nil {
			log.Warn("metric not booked", zap.String("name", acc.Name()), zap.Stringer("metric", m))
			continue
		}

		pts := eff.Points(acc.Interval())
		if len(pts) == 0 {
			continue
		}
		lineColor := out.Style.LineColor(i)
		c, err := newCurve(pts, lineColor)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("trigeff: %s: %w", eff.Name(), err)
		}
		curves[i] = c
		p.Add(c.plotters()...)
		p.Legend.Add(acc.Name(), c.points)

		if i == 0 && m.LumiSweep() {
			fit = FitLine(pts)
			if fit != nil {
				fn := plotter.NewFunction(fit.At)
				fn.XMin, fn.XMax = pts[0].X-pts[0].HalfWidth, pts[len(pts)-1].X+pts[len(pts)-1].HalfWidth
				fn.LineStyle.Color = lineColor
				fn.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
				p.Add(fn)
				log.Info("linear fit",
					zap.String("name", acc.Name()),
					zap.Float64("intercept", fit.Intercept),
					zap.Float64("slope", fit.Slope),
				)
			}
		}
	}

	p.X.Min, p.X.Max = m.XRange()
	p.Y.Min, p.Y.Max = 0, 1.1
	if !m.PtBased() {
		p.Y.Min = 0.8
		p.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 4}
	}
	return p, curves, fit, nil
}
