package trigeff

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// PreciseTicks places labeled major ticks on round values and unlabeled minor
// ticks between them.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	if t.NSuggestedTicks == 0 {
		t.NSuggestedTicks = 4
	}

	if max <= min {
		panic("illegal range")
	}

	tens := math.Pow10(int(math.Floor(math.Log10(max - min))))
	n := (max - min) / tens
	for n < float64(t.NSuggestedTicks)-1 {
		tens /= 10
		n = (max - min) / tens
	}

	majorMult := int(n / float64(t.NSuggestedTicks-1))
	switch majorMult {
	case 7:
		majorMult = 6
	case 9:
		majorMult = 8
	}
	majorDelta := float64(majorMult) * tens

	ticks := majorTicks(min, max, majorDelta)
	return append(ticks, minorTicks(min, max, majorDelta, majorMult, ticks)...)
}

func majorTicks(min, max, delta float64) []plot.Tick {
	var vals []float64
	val := math.Floor(min/delta) * delta
	for val <= max {
		if val >= min {
			vals = append(vals, val)
		}
		val += delta
	}

	// decimals needed to tell neighbouring labels apart
	decimals := int(-math.Floor(math.Log10(delta)))

	ticks := make([]plot.Tick, 0, len(vals))
	for _, v := range vals {
		v = round(v, decimals)
		ticks = append(ticks, plot.Tick{Value: v, Label: formatFloatTick(v, -1)})
	}
	return ticks
}

func minorTicks(min, max, majorDelta float64, majorMult int, major []plot.Tick) []plot.Tick {
	delta := majorDelta / 2
	switch majorMult {
	case 3, 6:
		delta = majorDelta / 3
	case 5:
		delta = majorDelta / 5
	}

	var ticks []plot.Tick
	val := math.Floor(min/delta) * delta
	for val <= max {
		if val >= min && !hasTick(major, val, delta/1e3) {
			ticks = append(ticks, plot.Tick{Value: val})
		}
		val += delta
	}
	return ticks
}

func hasTick(ticks []plot.Tick, v, tol float64) bool {
	for _, t := range ticks {
		if math.Abs(t.Value-v) < tol {
			return true
		}
	}
	return false
}

// PiTicks labels an angular axis at multiples of pi/2 with minor ticks every
// pi/8.
type PiTicks struct{}

var piLabels = map[int]string{
	-4: "-2π", -3: "-3π/2", -2: "-π", -1: "-π/2",
	0: "0", 1: "π/2", 2: "π", 3: "3π/2", 4: "2π",
}

func (PiTicks) Ticks(min, max float64) []plot.Tick {
	if max <= min {
		panic("illegal range")
	}

	const eps = 1e-9
	var ticks []plot.Tick
	for i := int(math.Ceil(min/(math.Pi/8) - eps)); float64(i)*math.Pi/8 <= max+eps; i++ {
		v := float64(i) * math.Pi / 8
		if i%4 != 0 {
			ticks = append(ticks, plot.Tick{Value: v})
			continue
		}
		label, ok := piLabels[i/4]
		if !ok {
			label = strconv.Itoa(i/4) + "π/2"
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: label})
	}
	return ticks
}

func round(x float64, prec int) float64 {
	if x == 0 {
		// Make sure zero is returned
		// without the negative bit set.
		return 0
	}
	// Fast path for positive precision on integers.
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	intermed := x * pow
	if math.IsInf(intermed, 0) {
		return x
	}
	if x < 0 {
		x = math.Ceil(intermed - 0.5)
	} else {
		x = math.Floor(intermed + 0.5)
	}

	if x == 0 {
		return 0
	}

	return x / pow
}

func formatFloatTick(v float64, prec int) string {
	return strconv.FormatFloat(v, 'g', prec, 64)
}
