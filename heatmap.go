package trigeff

import (
	"fmt"
	"os"

	"go-hep.org/x/hep/hplot"
	"go.uber.org/zap"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// colorBarWidth is the canvas width kept for the color bar.
const colorBarWidth = 70

// EffGrid exposes an Efficiency2D as a plotter.GridXYZ of ratios. Empty
// bins are NaN and left undrawn.
type EffGrid struct {
	Eff *Efficiency2D
}

func (g EffGrid) Dims() (c, r int)   { return g.Eff.Dims() }
func (g EffGrid) Z(c, r int) float64 { return g.Eff.Ratio(c, r) }

func (g EffGrid) X(c int) float64 {
	x, _ := g.Eff.Binnings()
	return binCenter(x, c)
}

func (g EffGrid) Y(r int) float64 {
	_, y := g.Eff.Binnings()
	return binCenter(y, r)
}

func binCenter(b Binning, i int) float64 {
	return b.Min + (float64(i)+0.5)*(b.Max-b.Min)/float64(b.N)
}

func (r *Renderer) saveMap(acc *Accumulator) error {
	w, h := r.Style.size()
	img := vgimg.New(w, h)
	dc := draw.New(img)
	dc0 := draw.Crop(dc, 0, -colorBarWidth, 0, 0)
	dc1 := draw.Crop(dc, w-colorBarWidth+20, 0, 0, 0)

	p := newPlot(EffPhiVsEta, metricInfos[EffPhiVsEta].yLabel)
	p.Y.Tick.Marker = axisTicks(etaBinning)

	colorMap := moreland.ExtendedBlackBody()
	colorMap.SetMin(0)
	colorMap.SetMax(1)
	heatMap := plotter.NewHeatMap(EffGrid{Eff: acc.EfficiencyMap()}, colorMap.Palette(1000))
	heatMap.Min = 0
	heatMap.Max = 1
	p.Add(heatMap)
	p.X.Min, p.X.Max = phiBinning.Min, phiBinning.Max
	p.Y.Min, p.Y.Max = etaBinning.Min, etaBinning.Max

	p.Draw(dc0)

	bar := hplot.New()
	colorBar := &plotter.ColorBar{ColorMap: colorMap}
	colorBar.Vertical = true
	bar.Add(colorBar)
	bar.HideX()
	bar.Y.Padding = 0
	bar.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}

	bar.Draw(dc1)

	fname := r.PlotPath(acc, EffPhiVsEta.Tag())
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("trigeff: could not create %s: %w", fname, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("trigeff: could not write %s: %w", fname, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("trigeff: could not close %s: %w", fname, err)
	}
	r.logger().Debug("wrote plot", zap.String("file", fname))
	return nil
}

var _ plotter.GridXYZ = EffGrid{}
