package trigeff

import (
	"math"

	"go-hep.org/x/hep/hbook"
)

// Index returns the bin holding x, or -1 when x is outside [Min, Max).
// Edge values resolve to the bin hbook fills.
func (b Binning) Index(x float64) int {
	if x < b.Min || x >= b.Max || math.IsNaN(x) {
		return -1
	}
	step := (b.Max - b.Min) / float64(b.N)
	i := int((x - b.Min) / step)
	if i >= b.N {
		i = b.N - 1
	}
	return i
}

func newH1D(name, dir string, b Binning) *hbook.H1D {
	h := hbook.NewH1D(b.N, b.Min, b.Max)
	h.Ann = annotate(h.Ann, name, dir)
	return h
}

func newH2D(name, dir string, x, y Binning) *hbook.H2D {
	h := hbook.NewH2D(x.N, x.Min, x.Max, y.N, y.Min, y.Max)
	h.Ann = annotate(h.Ann, name, dir)
	return h
}

func annotate(ann hbook.Annotation, name, dir string) hbook.Annotation {
	if ann == nil {
		ann = make(hbook.Annotation)
	}
	ann["name"] = name
	ann["path"] = "/" + dir + "/" + name
	return ann
}

// Point is one non-empty bin of an efficiency curve.
type Point struct {
	X, HalfWidth float64
	Eff          float64
	Low, High    float64
}

// Efficiency1D tracks passed and total counts over one variable.
type Efficiency1D struct {
	name    string
	dir     string
	binning Binning
	passed  *hbook.H1D
	total   *hbook.H1D
}

func newEfficiency1D(name, dir string, b Binning) *Efficiency1D {
	return &Efficiency1D{
		name:    name,
		dir:     dir,
		binning: b,
		passed:  newH1D(name+"_passed", dir, b),
		total:   newH1D(name+"_total", dir, b),
	}
}

func (e *Efficiency1D) Fill(pass bool, x float64) {
	e.total.Fill(x, 1)
	if pass {
		e.passed.Fill(x, 1)
	}
}

func (e *Efficiency1D) Name() string       { return e.name }
func (e *Efficiency1D) Len() int           { return e.binning.N }
func (e *Efficiency1D) Binning() Binning   { return e.binning }
func (e *Efficiency1D) Passed() *hbook.H1D { return e.passed }
func (e *Efficiency1D) Total() *hbook.H1D  { return e.total }

// Bin returns the index of the bin holding x, or -1.
func (e *Efficiency1D) Bin(x float64) int { return e.binning.Index(x) }

// Counts returns the passed and total counts of bin i.
func (e *Efficiency1D) Counts(i int) (pass, total float64) {
	return e.passed.Binning.Bins[i].SumW(), e.total.Binning.Bins[i].SumW()
}

// Ratio returns pass/total for bin i, NaN when the bin is empty.
func (e *Efficiency1D) Ratio(i int) float64 {
	pass, total := e.Counts(i)
	if total <= 0 {
		return math.NaN()
	}
	return pass / total
}

// Points returns the efficiency of every non-empty bin.
func (e *Efficiency1D) Points(iv Interval) []Point {
	var pts []Point
	for i := range e.total.Binning.Bins {
		pass, total := e.Counts(i)
		if total <= 0 {
			continue
		}
		bin := &e.total.Binning.Bins[i]
		eff, lo, hi := iv.Errors(pass, total)
		pts = append(pts, Point{
			X:         bin.XMid(),
			HalfWidth: bin.XWidth() / 2,
			Eff:       eff,
			Low:       lo,
			High:      hi,
		})
	}
	return pts
}

// Graph returns the efficiency curve as a scatter with asymmetric errors,
// named after the efficiency.
func (e *Efficiency1D) Graph(iv Interval) *hbook.S2D {
	pts := e.Points(iv)
	s := make([]hbook.Point2D, len(pts))
	for i, p := range pts {
		s[i] = hbook.Point2D{
			X:    p.X,
			Y:    p.Eff,
			ErrX: hbook.Range{Min: p.HalfWidth, Max: p.HalfWidth},
			ErrY: hbook.Range{Min: p.Low, Max: p.High},
		}
	}
	g := hbook.NewS2D(s...)
	g.Annotation()["name"] = e.name
	g.Annotation()["path"] = "/" + e.dir + "/" + e.name
	return g
}

// Efficiency2D tracks passed and total counts over two variables.
type Efficiency2D struct {
	name   string
	x, y   Binning
	passed *hbook.H2D
	total  *hbook.H2D
}

func newEfficiency2D(name, dir string, x, y Binning) *Efficiency2D {
	return &Efficiency2D{
		name:   name,
		x:      x,
		y:      y,
		passed: newH2D(name+"_passed", dir, x, y),
		total:  newH2D(name+"_total", dir, x, y),
	}
}

func (e *Efficiency2D) Fill(pass bool, x, y float64) {
	e.total.Fill(x, y, 1)
	if pass {
		e.passed.Fill(x, y, 1)
	}
}

func (e *Efficiency2D) Name() string                { return e.name }
func (e *Efficiency2D) Dims() (nx, ny int)          { return e.x.N, e.y.N }
func (e *Efficiency2D) Binnings() (x, y Binning)    { return e.x, e.y }
func (e *Efficiency2D) Passed() *hbook.H2D          { return e.passed }
func (e *Efficiency2D) Total() *hbook.H2D           { return e.total }
func (e *Efficiency2D) Bin(x, y float64) (int, int) { return e.x.Index(x), e.y.Index(y) }

func (e *Efficiency2D) Counts(ix, iy int) (pass, total float64) {
	return e.passed.GridXYZ().Z(ix, iy), e.total.GridXYZ().Z(ix, iy)
}

// Ratio returns pass/total for the bin, NaN when it is empty.
func (e *Efficiency2D) Ratio(ix, iy int) float64 {
	pass, total := e.Counts(ix, iy)
	if total <= 0 {
		return math.NaN()
	}
	return pass / total
}
