package trigeff

import (
	"fmt"
	"math"
)

// Binning describes N equal-width bins over [Min, Max).
type Binning struct {
	N        int
	Min, Max float64
}

// Metric identifies one of the efficiency estimators booked by an
// Accumulator.
type Metric uint8

const (
	EffVsPt Metric = iota
	EffVsEta
	EffVsPhi
	EffVsVtx
	EffVsLumi
	EffPhiVsEta

	numMetrics
)

var (
	ptBinning   = Binning{N: 60, Min: 0.5, Max: 60.5}
	etaBinning  = Binning{N: 56, Min: -1.05, Max: 1.05}
	phiBinning  = Binning{N: 48, Min: -math.Pi, Max: math.Pi}
	vtxBinning  = Binning{N: 25, Min: 0, Max: 50}
	lumiBinning = Binning{N: 20, Min: 0, Max: 20}
)

type metricInfo struct {
	name    string
	tag     string
	qualTag string
	xLabel  string
	yLabel  string
	x, y    Binning
	// display range along x; zero value means the binning range
	xMin, xMax float64
}

var metricInfos = [numMetrics]metricInfo{
	EffVsPt: {
		name: "EffVsPt", tag: "EffvsPt", qualTag: "Pt",
		xLabel: "tight muon p_T [GeV/c]", x: ptBinning,
		xMin: 0, xMax: 60,
	},
	EffVsEta: {
		name: "EffVsEta", tag: "EffvsEta", qualTag: "Eta",
		xLabel: "tight muon eta", x: etaBinning,
	},
	EffVsPhi: {
		name: "EffVsPhi", tag: "EffvsPhi", qualTag: "Phi",
		xLabel: "tight muon phi [rad]", x: phiBinning,
	},
	EffVsVtx: {
		name: "EffVsVtx", tag: "EffvsVtx", qualTag: "Vtx",
		xLabel: "N. reco vtx", x: vtxBinning,
		xMin: 5, xMax: 30,
	},
	EffVsLumi: {
		name: "EffVsLumi", tag: "EffvsLumi", qualTag: "Lumi",
		xLabel: "inst. lumi [1e33 cm^-2 s^-1]", x: lumiBinning,
	},
	EffPhiVsEta: {
		name: "EffPhiVsEta", tag: "EffPhivsEta",
		xLabel: "tight muon phi [rad]", yLabel: "tight muon eta",
		x: phiBinning, y: etaBinning,
	},
}

func (m Metric) String() string {
	if m >= numMetrics {
		return fmt.Sprintf("Metric(%d)", uint8(m))
	}
	return metricInfos[m].name
}

// Tag is the suffix used in image file names.
func (m Metric) Tag() string { return metricInfos[m].tag }

// Binning returns the binning along x.
func (m Metric) Binning() Binning { return metricInfos[m].x }

// Binning2D returns the binning along y for 2-D metrics.
func (m Metric) Binning2D() (Binning, bool) {
	return metricInfos[m].y, m.Is2D()
}

func (m Metric) Is2D() bool { return m == EffPhiVsEta }

// PtBased reports whether the metric is binned in transverse momentum.
func (m Metric) PtBased() bool { return m == EffVsPt }

// LumiSweep reports whether the metric scans instantaneous luminosity.
func (m Metric) LumiSweep() bool { return m == EffVsLumi }

// XRange returns the displayed x-axis range.
func (m Metric) XRange() (min, max float64) {
	info := metricInfos[m]
	if info.xMin == 0 && info.xMax == 0 {
		return info.x.Min, info.x.Max
	}
	return info.xMin, info.xMax
}

func (m Metric) histName(base string) string {
	return base + "_h" + metricInfos[m].name
}

func (m Metric) qualityName(base string) string {
	return base + "_hGmt" + metricInfos[m].qualTag + "VsQual"
}

// Curves lists the 1-D metrics in plotting order.
func Curves() []Metric {
	return []Metric{EffVsPt, EffVsEta, EffVsPhi, EffVsVtx, EffVsLumi}
}

// ParseMetric looks up a metric by name, e.g. "EffVsPt".
func ParseMetric(name string) (Metric, error) {
	for m := Metric(0); m < numMetrics; m++ {
		if metricInfos[m].name == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("trigeff: unknown metric %q", name)
}
