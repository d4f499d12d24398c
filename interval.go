package trigeff

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Interval selects how per-bin efficiency uncertainties are computed.
type Interval uint8

const (
	// ClopperPearson is the exact binomial central interval.
	ClopperPearson Interval = iota
	// NormalApprox is sqrt(e(1-e)/n), clamped to [0, 1].
	NormalApprox
)

// oneSigma is the coverage of a +-1 sigma gaussian interval.
const oneSigma = 0.682689492137086

func (iv Interval) String() string {
	switch iv {
	case ClopperPearson:
		return "clopper-pearson"
	case NormalApprox:
		return "normal"
	}
	return fmt.Sprintf("Interval(%d)", uint8(iv))
}

// ParseInterval accepts the names returned by Interval.String.
func ParseInterval(s string) (Interval, error) {
	switch s {
	case "", "clopper-pearson", "cp":
		return ClopperPearson, nil
	case "normal":
		return NormalApprox, nil
	}
	return 0, fmt.Errorf("trigeff: unknown error mode %q", s)
}

// Errors returns the efficiency pass/total and its distance to the lower and
// upper edges of the interval. total must be positive.
func (iv Interval) Errors(pass, total float64) (eff, low, high float64) {
	eff = pass / total
	switch iv {
	case NormalApprox:
		sigma := math.Sqrt((1 - eff) * eff / total)
		low = math.Min(sigma, eff)
		high = math.Min(sigma, 1-eff)
	default:
		alpha := (1 - oneSigma) / 2
		lo, hi := 0.0, 1.0
		if pass > 0 {
			lo = distuv.Beta{Alpha: pass, Beta: total - pass + 1}.Quantile(alpha)
		}
		if pass < total {
			hi = distuv.Beta{Alpha: pass + 1, Beta: total - pass}.Quantile(1 - alpha)
		}
		low = eff - lo
		high = hi - eff
	}
	return eff, low, high
}
