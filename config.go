package trigeff

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"go.uber.org/multierr"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"
)

// Threshold is one trigger configuration to accumulate.
type Threshold struct {
	Name  string  `yaml:"name"`
	MinPt float64 `yaml:"minPt"`
}

// StyleConfig is the YAML form of Style.
type StyleConfig struct {
	QualityPalette string   `yaml:"qualityPalette"`
	LineColors     []string `yaml:"lineColors"`
	WidthInch      float64  `yaml:"widthInch"`
	HeightInch     float64  `yaml:"heightInch"`
}

// Config is a run of the effplot command.
type Config struct {
	Output      string      `yaml:"output"`
	Store       string      `yaml:"store"`
	Events      int         `yaml:"events"`
	MaxMuEta    float64     `yaml:"maxMuEta"`
	PileupPlots bool        `yaml:"pileupPlots"`
	Errors      string      `yaml:"errors"`
	Thresholds  []Threshold `yaml:"configurations"`
	Compare     []string    `yaml:"compare"`
	Toy         Toy         `yaml:"toy"`
	Style       StyleConfig `yaml:"style"`
}

func DefaultConfig() Config {
	return Config{
		Output:   DefaultDir,
		Store:    "efficiency.root",
		Events:   100000,
		MaxMuEta: DefaultMaxMuEta,
		Errors:   ClopperPearson.String(),
		Thresholds: []Threshold{
			{Name: "T12", MinPt: 12},
			{Name: "T16", MinPt: 16},
			{Name: "T20", MinPt: 20},
		},
		Compare: []string{EffVsPt.String(), EffVsEta.String(), EffVsPhi.String()},
		Toy:     DefaultToy(),
		Style: StyleConfig{
			QualityPalette: DefaultQualityPalette,
			WidthInch:      5,
			HeightInch:     5,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("trigeff: could not read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("trigeff: could not parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs error
	if len(c.Thresholds) == 0 {
		errs = multierr.Append(errs, errors.New("no configurations"))
	}
	seen := make(map[string]bool)
	for _, t := range c.Thresholds {
		switch {
		case t.Name == "":
			errs = multierr.Append(errs, fmt.Errorf("configuration with minPt %v has no name", t.MinPt))
		case seen[t.Name]:
			errs = multierr.Append(errs, fmt.Errorf("duplicate configuration %q", t.Name))
		}
		seen[t.Name] = true
		if t.MinPt < 0 {
			errs = multierr.Append(errs, fmt.Errorf("configuration %q: negative minPt", t.Name))
		}
	}
	if c.MaxMuEta <= 0 {
		errs = multierr.Append(errs, errors.New("maxMuEta must be positive"))
	}
	if c.Events < 0 {
		errs = multierr.Append(errs, errors.New("events must not be negative"))
	}
	if _, err := ParseInterval(c.Errors); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := c.CompareMetrics(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := c.Style.Style(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

// CompareMetrics parses the metric names of the comparison plots.
func (c Config) CompareMetrics() ([]Metric, error) {
	ms := make([]Metric, 0, len(c.Compare))
	for _, name := range c.Compare {
		m, err := ParseMetric(name)
		if err != nil {
			return nil, err
		}
		if m.Is2D() {
			return nil, fmt.Errorf("trigeff: cannot compare 2-D metric %v", m)
		}
		ms = append(ms, m)
	}
	return ms, nil
}

// Options returns the accumulator options of the run.
func (c Config) Options() ([]Option, error) {
	iv, err := ParseInterval(c.Errors)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithMaxMuEta(c.MaxMuEta), WithInterval(iv)}
	if c.PileupPlots {
		opts = append(opts, WithPileupPlots())
	}
	return opts, nil
}

// Style resolves palette names and colors.
func (sc StyleConfig) Style() (Style, error) {
	style := DefaultStyle()
	if sc.QualityPalette != "" {
		qual, err := QualityPalette(sc.QualityPalette)
		if err != nil {
			return style, err
		}
		style.QualityColors = qual
	}
	if len(sc.LineColors) > 0 {
		style.LineColors = make([]color.Color, len(sc.LineColors))
		for i, s := range sc.LineColors {
			c, err := ParseColor(s)
			if err != nil {
				return style, err
			}
			style.LineColors[i] = c
		}
	}
	if sc.WidthInch > 0 {
		style.Width = vg.Length(sc.WidthInch) * vg.Inch
	}
	if sc.HeightInch > 0 {
		style.Height = vg.Length(sc.HeightInch) * vg.Inch
	}
	return style, nil
}
