package trigeff

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Toy generates muon records with a smeared trigger pt, a flat matching
// probability falling linearly with luminosity, and random trigger qualities.
// It stands in for an ntuple reader.
type Toy struct {
	Seed uint64 `yaml:"seed"`

	MinPt  float64 `yaml:"minPt"`
	MaxPt  float64 `yaml:"maxPt"`
	EtaMax float64 `yaml:"etaMax"`

	// Resolution is the relative gaussian smearing of the trigger pt.
	Resolution float64 `yaml:"resolution"`
	// Plateau is the matching probability at zero luminosity.
	Plateau float64 `yaml:"plateau"`
	// LumiSlope is the loss of matching probability per luminosity unit.
	LumiSlope float64 `yaml:"lumiSlope"`

	MaxLumi    float64 `yaml:"maxLumi"`
	VtxPerLumi float64 `yaml:"vtxPerLumi"`

	// QualityWeights[q-1] is the relative frequency of quality q.
	QualityWeights []float64 `yaml:"qualityWeights"`
}

func DefaultToy() Toy {
	return Toy{
		Seed:           1,
		MinPt:          0,
		MaxPt:          60,
		EtaMax:         1.05,
		Resolution:     0.1,
		Plateau:        0.97,
		LumiSlope:      0.002,
		MaxLumi:        20,
		VtxPerLumi:     1.5,
		QualityWeights: []float64{0.01, 0.02, 0.04, 0.08, 0.15, 0.3, 0.4},
	}
}

type toySampler struct {
	toy     Toy
	pt      distuv.Uniform
	eta     distuv.Uniform
	phi     distuv.Uniform
	lumi    distuv.Uniform
	match   distuv.Uniform
	smear   distuv.Normal
	etaRes  distuv.Normal
	quality distuv.Categorical
	src     rand.Source
}

func (t Toy) sampler() *toySampler {
	src := rand.NewSource(t.Seed)
	weights := t.QualityWeights
	if len(weights) == 0 {
		weights = DefaultToy().QualityWeights
	}
	return &toySampler{
		toy:     t,
		pt:      distuv.Uniform{Min: t.MinPt, Max: t.MaxPt, Src: src},
		eta:     distuv.Uniform{Min: -t.EtaMax, Max: t.EtaMax, Src: src},
		phi:     distuv.Uniform{Min: -math.Pi, Max: math.Pi, Src: src},
		lumi:    distuv.Uniform{Min: 0, Max: t.MaxLumi, Src: src},
		match:   distuv.Uniform{Min: 0, Max: 1, Src: src},
		smear:   distuv.Normal{Mu: 1, Sigma: t.Resolution, Src: src},
		etaRes:  distuv.Normal{Mu: 0, Sigma: 0.02, Src: src},
		quality: distuv.NewCategorical(weights, src),
		src:     src,
	}
}

func (s *toySampler) next() Record {
	r := Record{
		Pt:  s.pt.Rand(),
		Eta: s.eta.Rand(),
		Phi: s.phi.Rand(),
	}
	if s.toy.MaxLumi > 0 {
		r.InstLumi = s.lumi.Rand()
	}
	if lambda := r.InstLumi * s.toy.VtxPerLumi; lambda > 0 {
		r.NVtx = int(distuv.Poisson{Lambda: lambda, Src: s.src}.Rand())
	}

	prob := s.toy.Plateau - s.toy.LumiSlope*r.InstLumi
	if s.match.Rand() < prob {
		r.HasMatch = true
		r.MatchedPt = r.Pt
		if s.toy.Resolution > 0 {
			r.MatchedPt *= s.smear.Rand()
		}
		r.MatchedEta = r.Eta + s.etaRes.Rand()
		r.MatchedQuality = int(s.quality.Rand()) + 1
	}
	return r
}

// Generate returns n records. The same seed yields the same records.
func (t Toy) Generate(n int) []Record {
	s := t.sampler()
	recs := make([]Record, n)
	for i := range recs {
		recs[i] = s.next()
	}
	return recs
}

// Scan streams n records on the returned channel, which is closed after the
// last one.
func (t Toy) Scan(n int) <-chan Record {
	out := make(chan Record)
	go func() {
		defer close(out)
		s := t.sampler()
		for i := 0; i < n; i++ {
			out <- s.next()
		}
	}()
	return out
}
