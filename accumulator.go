package trigeff

import (
	"math"

	"go-hep.org/x/hep/hbook"
)

const (
	// PtTolerance absorbs rounding of the trigger pt at the threshold.
	PtTolerance = 0.01

	// MuPtOffset is added to the trigger threshold to form the muon pt cut
	// gating the eta, phi and eta-phi plots. It does not change the pass
	// threshold.
	MuPtOffset = 10.0

	// DefaultMaxMuEta is the |eta| acceptance of the pt and phi plots.
	DefaultMaxMuEta = 0.8
)

// Record is one reconstructed muon and its trigger match, if any.
type Record struct {
	Pt, Eta, Phi float64

	HasMatch       bool
	MatchedPt      float64
	MatchedEta     float64
	MatchedQuality int

	NVtx     int
	InstLumi float64
}

// Accumulator books and fills the efficiency estimators of one trigger
// configuration. Histogram names are prefixed by the base name so several
// accumulators can share one output store.
type Accumulator struct {
	name     string
	minPt    float64
	maxMuEta float64
	pileup   bool
	interval Interval

	effs   [numMetrics]*Efficiency1D
	quals  [numMetrics]*QualityBreakdown
	phiEta *Efficiency2D

	trigEta     *hbook.H1D
	trigEtaQual *QualityBreakdown

	exported bool
}

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithMaxMuEta sets the |eta| acceptance bound.
func WithMaxMuEta(v float64) Option {
	return func(a *Accumulator) { a.maxMuEta = v }
}

// WithPileupPlots books the efficiency vs vertex count and vs instantaneous
// luminosity.
func WithPileupPlots() Option {
	return func(a *Accumulator) { a.pileup = true }
}

// WithInterval sets the per-bin uncertainty used when rendering.
func WithInterval(iv Interval) Option {
	return func(a *Accumulator) { a.interval = iv }
}

// New books the estimators for trigger threshold minPt.
func New(baseName string, minPt float64, opts ...Option) *Accumulator {
	a := &Accumulator{
		name:     baseName,
		minPt:    minPt,
		maxMuEta: DefaultMaxMuEta,
		interval: ClopperPearson,
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, m := range Curves() {
		if !a.pileup && (m == EffVsVtx || m == EffVsLumi) {
			continue
		}
		a.effs[m] = newEfficiency1D(m.histName(baseName), baseName, m.Binning())
		a.quals[m] = newQualityBreakdown(m.qualityName(baseName), baseName, m.Binning())
	}

	x := EffPhiVsEta.Binning()
	y, _ := EffPhiVsEta.Binning2D()
	a.phiEta = newEfficiency2D(EffPhiVsEta.histName(baseName), baseName, x, y)

	a.trigEta = newH1D(baseName+"_hGmtBinEta", baseName, etaBinning)
	a.trigEtaQual = newQualityBreakdown(baseName+"_hGmtBinEtaVsQual", baseName, etaBinning)

	return a
}

func (a *Accumulator) Name() string           { return a.name }
func (a *Accumulator) MinPt() float64         { return a.minPt }
func (a *Accumulator) MaxMuEta() float64      { return a.maxMuEta }
func (a *Accumulator) Interval() Interval     { return a.interval }
func (a *Accumulator) Exported() bool         { return a.exported }
func (a *Accumulator) PileupPlots() bool      { return a.pileup }
func (a *Accumulator) TriggerEta() *hbook.H1D { return a.trigEta }

// MinMuPt is the muon pt cut of the eta, phi and eta-phi plots.
func (a *Accumulator) MinMuPt() float64 { return a.minPt + MuPtOffset }

// Efficiency returns the 1-D estimator for m, or nil when m is 2-D or was
// not booked.
func (a *Accumulator) Efficiency(m Metric) *Efficiency1D {
	if m >= numMetrics {
		return nil
	}
	return a.effs[m]
}

// Quality returns the quality breakdown paired with the 1-D estimator m.
func (a *Accumulator) Quality(m Metric) *QualityBreakdown {
	if m >= numMetrics {
		return nil
	}
	return a.quals[m]
}

// EfficiencyMap returns the phi-eta estimator.
func (a *Accumulator) EfficiencyMap() *Efficiency2D { return a.phiEta }

// TriggerEtaQuality returns the quality breakdown vs matched trigger eta.
func (a *Accumulator) TriggerEtaQuality() *QualityBreakdown { return a.trigEtaQual }

// Metrics lists the booked 1-D metrics.
func (a *Accumulator) Metrics() []Metric {
	var ms []Metric
	for _, m := range Curves() {
		if a.effs[m] != nil {
			ms = append(ms, m)
		}
	}
	return ms
}

// Pass reports whether r counts as a trigger pass for this threshold.
func (a *Accumulator) Pass(r Record) bool {
	return r.HasMatch && r.MatchedPt+PtTolerance > a.minPt
}

// Fill adds one record. Filling an exported accumulator panics.
func (a *Accumulator) Fill(r Record) {
	if a.exported {
		panic("trigeff: fill after export of " + a.name)
	}

	pass := a.Pass(r)
	inEta := math.Abs(r.Eta) < a.maxMuEta
	inPt := r.Pt > a.MinMuPt()

	if inEta {
		a.fill(EffVsPt, pass, r.Pt, r.MatchedQuality)
	}

	if inPt {
		a.fill(EffVsEta, pass, r.Eta, r.MatchedQuality)
		a.phiEta.Fill(pass, r.Phi, r.Eta)
		if pass {
			a.trigEta.Fill(r.MatchedEta, 1)
			a.trigEtaQual.Fill(r.MatchedEta, r.MatchedQuality)
		}
	}

	if inPt && inEta {
		a.fill(EffVsPhi, pass, r.Phi, r.MatchedQuality)
		a.fill(EffVsVtx, pass, float64(r.NVtx), r.MatchedQuality)
		a.fill(EffVsLumi, pass, r.InstLumi, r.MatchedQuality)
	}
}

func (a *Accumulator) fill(m Metric, pass bool, x float64, quality int) {
	e := a.effs[m]
	if e == nil {
		return
	}
	e.Fill(pass, x)
	if pass {
		a.quals[m].Fill(x, quality)
	}
}
