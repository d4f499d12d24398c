package trigeff

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// fillTurnOn feeds n records with a sharp turn-on at 20.5 GeV.
func fillTurnOn(acc *Accumulator, n int, seed uint64) {
	src := rand.NewSource(seed)
	ptDist := distuv.Uniform{Min: 0, Max: 60, Src: src}
	etaDist := distuv.Uniform{Min: -1, Max: 1, Src: src}
	phiDist := distuv.Uniform{Min: -math.Pi, Max: math.Pi, Src: src}
	quality := distuv.NewCategorical([]float64{1, 1, 1, 1, 1, 1, 1}, src)

	for i := 0; i < n; i++ {
		r := Record{Pt: ptDist.Rand(), Eta: etaDist.Rand(), Phi: phiDist.Rand()}
		if r.Pt > 20.5 {
			r.HasMatch = true
			r.MatchedPt = r.Pt
			r.MatchedEta = r.Eta
			r.MatchedQuality = int(quality.Rand()) + 1
		}
		acc.Fill(r)
	}
}

func snapshot(acc *Accumulator) map[string][]float64 {
	counts := make(map[string][]float64)
	for _, m := range acc.Metrics() {
		eff := acc.Efficiency(m)
		for i := 0; i < eff.Len(); i++ {
			pass, total := eff.Counts(i)
			counts[m.String()] = append(counts[m.String()], pass, total, acc.Quality(m).Sum(i))
		}
	}
	effMap := acc.EfficiencyMap()
	nx, ny := effMap.Dims()
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			pass, total := effMap.Counts(ix, iy)
			counts["map"] = append(counts["map"], pass, total)
		}
	}
	return counts
}

func TestEndToEndTurnOn(t *testing.T) {
	dir := t.TempDir()
	acc := New("T20", 20)
	fillTurnOn(acc, 1000, 1)

	eff := acc.Efficiency(EffVsPt)
	var below, above int
	for i := 0; i < eff.Len(); i++ {
		pass, total := eff.Counts(i)
		if total == 0 {
			continue
		}
		bin := &eff.Total().Binning.Bins[i]
		switch {
		case bin.XMax() <= 20.5:
			assert.Equal(t, 0.0, pass, "bin %d", i)
			below++
		case bin.XMin() >= 20.5:
			assert.Equal(t, total, pass, "bin %d", i)
			above++
		}
	}
	assert.Greater(t, below, 10)
	assert.Greater(t, above, 30)

	store, err := OpenStore(filepath.Join(dir, "eff.root"))
	require.NoError(t, err)

	out := Output{Dir: filepath.Join(dir, "plots"), Style: DefaultStyle(), Logger: zaptest.NewLogger(t)}
	r := NewRenderer(out, store)
	require.NoError(t, r.Export(acc))
	assert.True(t, acc.Exported())

	for _, tag := range []string{"EffvsPt", "EffvsEta", "EffvsPhi", "EffPhivsEta", TriggerEtaTag} {
		fname := filepath.Join(dir, "plots", "T20", "T20"+tag+".png")
		fi, err := os.Stat(fname)
		require.NoError(t, err, tag)
		assert.Greater(t, fi.Size(), int64(0), tag)
	}
	_, err = os.Stat(out.PlotPath(acc, EffVsVtx.Tag()))
	assert.True(t, os.IsNotExist(err))

	before := snapshot(acc)
	require.NoError(t, r.Export(acc))
	assert.Equal(t, before, snapshot(acc))

	require.NoError(t, store.Close())
	assert.Panics(t, func() { acc.Fill(Record{Pt: 40}) })
}

func TestExportEmptyAccumulator(t *testing.T) {
	out := Output{Dir: t.TempDir(), Style: DefaultStyle()}
	acc := New("T0", 0, WithPileupPlots())
	require.NoError(t, NewRenderer(out, nil).Export(acc))

	for _, m := range acc.Metrics() {
		_, err := os.Stat(out.PlotPath(acc, m.Tag()))
		assert.NoError(t, err, m.String())
	}
}

func TestOutputPaths(t *testing.T) {
	acc := New("T12", 12)
	out := Output{}
	assert.Equal(t, filepath.Join("plots", "T12", "T12EffvsPt.png"), out.PlotPath(acc, EffVsPt.Tag()))
	assert.Equal(t, filepath.Join("plots", "All", "AllEffVsEta.png"), out.ComparisonPath(EffVsEta))

	out.Dir = "out"
	assert.Equal(t, filepath.Join("out", "T12"), out.AccumulatorDir(acc))
}

func TestExportUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	acc := New("T20", 20)
	acc.Fill(matched(40, 0.1, 0.1, 40, 7))
	before := snapshot(acc)

	err := NewRenderer(Output{Dir: blocker}, nil).Export(acc)
	assert.Error(t, err)
	assert.Equal(t, before, snapshot(acc))
	assert.False(t, acc.Exported())
}

func TestCurvePlotRanges(t *testing.T) {
	r := NewRenderer(Output{Style: DefaultStyle()}, nil)
	acc := New("T20", 20, WithPileupPlots())
	fillTurnOn(acc, 2000, 4)

	for _, tc := range []struct {
		m          Metric
		xMin, xMax float64
	}{
		{EffVsPt, 0, 60},
		{EffVsEta, etaBinning.Min, etaBinning.Max},
		{EffVsPhi, -math.Pi, math.Pi},
		{EffVsVtx, 5, 30},
		{EffVsLumi, 0, 20},
	} {
		p, err := r.curvePlot(acc, tc.m)
		require.NoError(t, err, tc.m.String())
		assert.Equal(t, tc.xMin, p.X.Min, tc.m.String())
		assert.Equal(t, tc.xMax, p.X.Max, tc.m.String())
		assert.Equal(t, 0.0, p.Y.Min, tc.m.String())
		assert.Equal(t, 1.1, p.Y.Max, tc.m.String())
	}
}
