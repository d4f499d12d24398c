package trigeff

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	ms, err := cfg.CompareMetrics()
	require.NoError(t, err)
	assert.Equal(t, []Metric{EffVsPt, EffVsEta, EffVsPhi}, ms)

	opts, err := cfg.Options()
	require.NoError(t, err)
	acc := New("T", 10, opts...)
	assert.Equal(t, DefaultMaxMuEta, acc.MaxMuEta())
	assert.Equal(t, ClopperPearson, acc.Interval())
	assert.False(t, acc.PileupPlots())
}

func TestLoadConfig(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(fname, []byte(`
output: out
maxMuEta: 0.9
pileupPlots: true
errors: normal
configurations:
  - name: T5
    minPt: 5
  - name: T22
    minPt: 22
compare: [EffVsPt, EffVsLumi]
toy:
  seed: 7
  plateau: 0.9
style:
  qualityPalette: Dark2
  lineColors: ["#ff0000", "#00ff0080"]
  widthInch: 6
`), 0o644))

	cfg, err := LoadConfig(fname)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, "efficiency.root", cfg.Store)
	assert.Equal(t, []Threshold{{Name: "T5", MinPt: 5}, {Name: "T22", MinPt: 22}}, cfg.Thresholds)
	assert.Equal(t, uint64(7), cfg.Toy.Seed)
	assert.Equal(t, 0.9, cfg.Toy.Plateau)
	assert.Equal(t, 60.0, cfg.Toy.MaxPt)

	opts, err := cfg.Options()
	require.NoError(t, err)
	acc := New("T5", 5, opts...)
	assert.Equal(t, 0.9, acc.MaxMuEta())
	assert.Equal(t, NormalApprox, acc.Interval())
	assert.True(t, acc.PileupPlots())

	style, err := cfg.Style.Style()
	require.NoError(t, err)
	assert.Len(t, style.QualityColors, NumQualities)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, style.LineColor(0))
	assert.Equal(t, color.RGBA{G: 255, A: 128}, style.LineColor(1))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, style.LineColor(2))
	assert.Equal(t, 6*vg.Inch, style.Width)
	assert.Equal(t, 5*vg.Inch, style.Height)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds = []Threshold{{Name: "T1", MinPt: 1}, {Name: "T1", MinPt: -2}, {MinPt: 3}}
	cfg.MaxMuEta = 0
	cfg.Errors = "bayes"
	cfg.Compare = []string{"EffPhiVsEta"}
	cfg.Style.QualityPalette = "NoSuchPalette"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"duplicate", "negative minPt", "no name", "maxMuEta", "bayes", "2-D", "NoSuchPalette"} {
		assert.Contains(t, err.Error(), want)
	}

	cfg = DefaultConfig()
	cfg.Thresholds = nil
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	fname := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(fname, []byte("configurations: {"), 0o644))
	_, err = LoadConfig(fname)
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#102030")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, c)

	for _, bad := range []string{"", "#12345", "#zzzzzz"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestStyleFallbacks(t *testing.T) {
	var s Style
	assert.NotNil(t, s.LineColor(3))
	assert.NotNil(t, s.QualityColor(7))
	w, h := s.size()
	assert.Equal(t, 5*vg.Inch, w)
	assert.Equal(t, 5*vg.Inch, h)

	def := DefaultStyle()
	assert.Equal(t, def.QualityColors[0], def.QualityColor(1))
	assert.Equal(t, def.LineColors[0], def.LineColor(len(def.LineColors)))
}
