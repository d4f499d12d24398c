package trigeff

import (
	"go-hep.org/x/hep/hbook"
)

// NumQualities is the number of trigger quality categories, 1 to 7.
const NumQualities = 7

var qualityBinning = Binning{N: NumQualities, Min: 0.5, Max: NumQualities + 0.5}

// QualityBreakdown counts trigger passes by kinematic bin and trigger
// quality.
type QualityBreakdown struct {
	x Binning
	h *hbook.H2D
}

func newQualityBreakdown(name, dir string, x Binning) *QualityBreakdown {
	return &QualityBreakdown{x: x, h: newH2D(name, dir, x, qualityBinning)}
}

func (q *QualityBreakdown) Fill(x float64, quality int) {
	q.h.Fill(x, float64(quality), 1)
}

func (q *QualityBreakdown) Hist() *hbook.H2D { return q.h }

// Count returns the entries of kinematic bin ix with the given quality.
// Qualities outside 1..NumQualities count zero.
func (q *QualityBreakdown) Count(ix, quality int) float64 {
	if quality < 1 || quality > NumQualities {
		return 0
	}
	return q.h.GridXYZ().Z(ix, quality-1)
}

// Sum returns the entries of kinematic bin ix over all qualities.
func (q *QualityBreakdown) Sum(ix int) float64 {
	grid := q.h.GridXYZ()
	var sum float64
	for iq := 0; iq < NumQualities; iq++ {
		sum += grid.Z(ix, iq)
	}
	return sum
}

// Fractions projects each quality slice along x and divides it bin-wise by
// total. Element i holds quality i+1. Bins where total is empty are zero.
func (q *QualityBreakdown) Fractions(total *hbook.H1D) []*hbook.H1D {
	grid := q.h.GridXYZ()
	out := make([]*hbook.H1D, NumQualities)
	for iq := range out {
		frac := hbook.NewH1D(q.x.N, q.x.Min, q.x.Max)
		for ix := 0; ix < q.x.N; ix++ {
			bin := &total.Binning.Bins[ix]
			n := bin.SumW()
			if n <= 0 {
				continue
			}
			frac.Fill(bin.XMid(), grid.Z(ix, iq)/n)
		}
		out[iq] = frac
	}
	return out
}
