// Package trigeff measures muon trigger efficiencies.
//
// An Accumulator books pass/total estimators vs pt, eta, phi and phi-eta for
// one trigger threshold, together with histograms splitting the passes by
// trigger quality. A Renderer draws each efficiency curve over the stacked
// quality contributions, writes PNG images under <dir>/<name>/ and persists
// the histograms in a ROOT or YODA file. Compare overlays one metric of
// several accumulators.
//
//	acc := trigeff.New("T20", 20)
//	for _, r := range records {
//		acc.Fill(r)
//	}
//	err := trigeff.NewRenderer(trigeff.Output{Style: trigeff.DefaultStyle()}, nil).Export(acc)
package trigeff
