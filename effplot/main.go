package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/profile"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/decibelcooper/trigeff"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options]

Fills one efficiency accumulator per trigger threshold from toy muon records,
writes the per-threshold plots under <output>/<name>/ and the comparisons
under <output>/All/.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	var (
		minPts     trigeff.FloatArrayFlags
		compare    trigeff.MetricFlags
		configPath = flag.String("config", "", "YAML run configuration")
		nEvents    = flag.Int("n", -1, "number of toy records (overrides config)")
		seed       = flag.Uint64("seed", 0, "toy seed (overrides config when non-zero)")
		output     = flag.String("output", "", "output directory (overrides config)")
		store      = flag.String("store", "", "output ROOT or YODA file (overrides config)")
		pileup     = flag.Bool("pileup", false, "also plot efficiency vs vertices and luminosity")
		errMode    = flag.String("errors", "", "efficiency errors: clopper-pearson or normal")
		profDir    = flag.String("profile", "", "write a CPU profile to this directory")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Var(&minPts, "minpt", "trigger threshold in GeV, repeatable (overrides config)")
	flag.Var(&compare, "compare", "metrics to compare across thresholds, comma separated (overrides config)")
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() != 0 {
		printUsage()
		os.Exit(2)
	}

	logger := newLogger(*verbose)
	defer logger.Sync()

	if *profDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profDir), profile.Quiet).Stop()
	}

	cfg := trigeff.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = trigeff.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("invalid config", zap.String("file", *configPath), zap.Error(err))
		}
	}

	if minPts.IsSet() {
		cfg.Thresholds = nil
		for _, pt := range minPts.Array {
			name := "T" + strconv.FormatFloat(pt, 'g', -1, 64)
			cfg.Thresholds = append(cfg.Thresholds, trigeff.Threshold{Name: name, MinPt: pt})
		}
	}
	if compare.IsSet() {
		cfg.Compare = nil
		for _, m := range compare.Metrics {
			cfg.Compare = append(cfg.Compare, m.String())
		}
	}
	if *nEvents >= 0 {
		cfg.Events = *nEvents
	}
	if *seed != 0 {
		cfg.Toy.Seed = *seed
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *store != "" {
		cfg.Store = *store
	}
	if *pileup {
		cfg.PileupPlots = true
	}
	if *errMode != "" {
		cfg.Errors = *errMode
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid arguments", zap.Error(err))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

func newLogger(verbose bool) *zap.Logger {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		zc.Level.SetLevel(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func run(cfg trigeff.Config, logger *zap.Logger) (err error) {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	style, err := cfg.Style.Style()
	if err != nil {
		return err
	}
	metrics, err := cfg.CompareMetrics()
	if err != nil {
		return err
	}

	var accs []*trigeff.Accumulator
	for _, t := range cfg.Thresholds {
		accs = append(accs, trigeff.New(t.Name, t.MinPt, opts...))
	}

	nRecords := 0
	for rec := range cfg.Toy.Scan(cfg.Events) {
		for _, acc := range accs {
			acc.Fill(rec)
		}
		nRecords++
	}
	logger.Info("filled", zap.Int("records", nRecords), zap.Int("configurations", len(accs)))

	var st trigeff.Store
	if cfg.Store != "" {
		st, err = trigeff.OpenStore(cfg.Store)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, st.Close())
		}()
	}

	out := trigeff.Output{Dir: cfg.Output, Style: style, Logger: logger}
	renderer := trigeff.NewRenderer(out, st)
	for _, acc := range accs {
		err = multierr.Append(err, renderer.Export(acc))
	}

	for _, m := range metrics {
		if _, cerr := trigeff.Compare(out, accs, m); cerr != nil {
			err = multierr.Append(err, cerr)
			continue
		}
		logger.Info("compared", zap.String("file", out.ComparisonPath(m)))
	}
	return err
}
