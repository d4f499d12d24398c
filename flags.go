package trigeff

import (
	"fmt"
	"strconv"
	"strings"
)

// FloatArrayFlags collects a repeated float flag such as -minpt. The first
// value given on the command line replaces the defaults.
type FloatArrayFlags struct {
	Array   []float64
	beenSet bool
}

func (f *FloatArrayFlags) Set(valueStr string) error {
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return err
	}

	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	f.Array = append(f.Array, value)
	return nil
}

func (f *FloatArrayFlags) String() string {
	return fmt.Sprint(f.Array)
}

// IsSet reports whether the flag appeared on the command line.
func (f *FloatArrayFlags) IsSet() bool { return f.beenSet }

// MetricFlags collects metric names given as repeated or comma separated
// values, e.g. -compare EffVsPt,EffVsEta.
type MetricFlags struct {
	Metrics []Metric
	beenSet bool
}

func (f *MetricFlags) Set(valueStr string) error {
	if !f.beenSet {
		f.beenSet = true
		f.Metrics = nil
	}

	for _, name := range strings.Split(valueStr, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m, err := ParseMetric(name)
		if err != nil {
			return err
		}
		f.Metrics = append(f.Metrics, m)
	}
	return nil
}

func (f *MetricFlags) String() string {
	names := make([]string, len(f.Metrics))
	for i, m := range f.Metrics {
		names[i] = m.String()
	}
	return strings.Join(names, ",")
}

func (f *MetricFlags) IsSet() bool { return f.beenSet }
