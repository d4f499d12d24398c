package trigeff

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestFitLine(t *testing.T) {
	var pts []Point
	for i := 0; i < 10; i++ {
		x := float64(i) + 0.5
		pts = append(pts, Point{X: x, Eff: 0.9 - 0.01*x, Low: 0.01, High: 0.01})
	}
	fit := FitLine(pts)
	require.NotNil(t, fit)
	assert.InDelta(t, 0.9, fit.Intercept, 1e-9)
	assert.InDelta(t, -0.01, fit.Slope, 1e-9)
	assert.InDelta(t, 0.8, fit.At(10), 1e-9)

	assert.Nil(t, FitLine(pts[:1]))
	assert.Nil(t, FitLine([]Point{{X: 1, Eff: 1}, {X: 2, Eff: 1}}))
}

func TestCompareLumiFit(t *testing.T) {
	out := Output{Dir: t.TempDir(), Style: DefaultStyle(), Logger: zaptest.NewLogger(t)}

	first := New("T20", 20, WithPileupPlots())
	second := New("T25", 25, WithPileupPlots())
	for i := 0; i < lumiBinning.N; i++ {
		lumi := float64(i) + 0.5
		nPass := int(math.Round(400 * (0.95 - 0.01*lumi)))
		for j := 0; j < 400; j++ {
			r := Record{Pt: 50, Eta: 0.1, Phi: 0.1, InstLumi: lumi}
			if j < nPass {
				r.HasMatch = true
				r.MatchedPt = 50
				r.MatchedQuality = 7
			}
			first.Fill(r)
			second.Fill(r)
		}
	}

	fit, err := Compare(out, []*Accumulator{first, second}, EffVsLumi)
	require.NoError(t, err)
	require.NotNil(t, fit)
	assert.InDelta(t, -0.01, fit.Slope, 1e-3)
	assert.InDelta(t, 0.95, fit.Intercept, 1e-2)

	_, err = os.Stat(out.ComparisonPath(EffVsLumi))
	assert.NoError(t, err)
}

func TestCompareSkipsMissingMetric(t *testing.T) {
	out := Output{Dir: t.TempDir(), Style: DefaultStyle(), Logger: zaptest.NewLogger(t)}

	withVtx := New("T20", 20, WithPileupPlots())
	without := New("T12", 12)
	for _, acc := range []*Accumulator{withVtx, without} {
		fillTurnOn(acc, 500, 3)
	}

	fit, err := Compare(out, []*Accumulator{without, withVtx}, EffVsVtx)
	require.NoError(t, err)
	assert.Nil(t, fit)
	_, err = os.Stat(out.ComparisonPath(EffVsVtx))
	assert.NoError(t, err)

	for _, m := range []Metric{EffVsPt, EffVsEta, EffVsPhi} {
		fit, err := Compare(out, []*Accumulator{without, withVtx}, m)
		require.NoError(t, err, m.String())
		assert.Nil(t, fit)
		_, err = os.Stat(out.ComparisonPath(m))
		assert.NoError(t, err, m.String())
	}
}

func TestCompareRejects2D(t *testing.T) {
	out := Output{Dir: t.TempDir()}
	_, err := Compare(out, []*Accumulator{New("T20", 20)}, EffPhiVsEta)
	assert.Error(t, err)
	_, err = Compare(out, nil, Metric(99))
	assert.Error(t, err)
}

func TestComparePlotRangesAndColors(t *testing.T) {
	out := Output{Style: DefaultStyle(), Logger: zaptest.NewLogger(t)}

	accs := []*Accumulator{New("T12", 12), New("T16", 16, WithPileupPlots()), New("T20", 20, WithPileupPlots())}
	for i, acc := range accs {
		fillTurnOn(acc, 2000, uint64(i+1))
	}

	p, curves, fit, err := comparePlot(out, accs, EffVsPt)
	require.NoError(t, err)
	assert.Nil(t, fit)
	assert.Equal(t, 0.0, p.X.Min)
	assert.Equal(t, 60.0, p.X.Max)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.Equal(t, 1.1, p.Y.Max)
	require.Len(t, curves, len(accs))
	for i, c := range curves {
		require.NotNil(t, c, accs[i].Name())
		assert.Equal(t, out.Style.LineColor(i), c.points.GlyphStyle.Color)
		assert.Equal(t, out.Style.LineColor(i), c.xerr.LineStyle.Color)
		assert.Equal(t, out.Style.LineColor(i), c.yerr.LineStyle.Color)
	}

	for _, m := range []Metric{EffVsEta, EffVsPhi} {
		p, _, _, err := comparePlot(out, accs, m)
		require.NoError(t, err, m.String())
		assert.Equal(t, m.Binning().Min, p.X.Min, m.String())
		assert.Equal(t, m.Binning().Max, p.X.Max, m.String())
		assert.Equal(t, 0.8, p.Y.Min, m.String())
		assert.Equal(t, 1.1, p.Y.Max, m.String())
	}

	// colors follow the position in accs, not the drawn curve count
	p, curves, _, err = comparePlot(out, accs, EffVsVtx)
	require.NoError(t, err)
	assert.Equal(t, 5.0, p.X.Min)
	assert.Equal(t, 30.0, p.X.Max)
	assert.Equal(t, 0.8, p.Y.Min)
	assert.Nil(t, curves[0])
	require.NotNil(t, curves[2])
	assert.Equal(t, out.Style.LineColor(2), curves[2].points.GlyphStyle.Color)
}
