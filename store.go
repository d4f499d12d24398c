package trigeff

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hbook/yodacnv"
	"go.uber.org/multierr"
)

// Store persists histograms grouped by directory.
type Store interface {
	PutH1D(dir string, h *hbook.H1D) error
	PutH2D(dir string, h *hbook.H2D) error
	PutS2D(dir, name string, s *hbook.S2D) error
	Close() error
}

// OpenStore creates the output container at path. Files ending in ".yoda"
// are written as YODA text, anything else as a ROOT file.
func OpenStore(path string) (Store, error) {
	if strings.EqualFold(filepath.Ext(path), ".yoda") {
		return &yodaStore{path: path}, nil
	}
	f, err := groot.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trigeff: could not create %s: %w", path, err)
	}
	return &rootStore{f: f}, nil
}

// Persist writes every histogram of acc under the directory acc.Name().
// Efficiencies are stored as their passed and total histograms plus the
// efficiency graph with acc's error bars.
func Persist(s Store, acc *Accumulator) error {
	dir := acc.Name()
	var errs error
	for _, m := range acc.Metrics() {
		eff := acc.Efficiency(m)
		errs = multierr.Append(errs, s.PutH1D(dir, eff.Passed()))
		errs = multierr.Append(errs, s.PutH1D(dir, eff.Total()))
		errs = multierr.Append(errs, s.PutS2D(dir, eff.Name(), eff.Graph(acc.Interval())))
		errs = multierr.Append(errs, s.PutH2D(dir, acc.Quality(m).Hist()))
	}
	effMap := acc.EfficiencyMap()
	errs = multierr.Append(errs, s.PutH2D(dir, effMap.Passed()))
	errs = multierr.Append(errs, s.PutH2D(dir, effMap.Total()))
	errs = multierr.Append(errs, s.PutH1D(dir, acc.TriggerEta()))
	errs = multierr.Append(errs, s.PutH2D(dir, acc.TriggerEtaQuality().Hist()))
	return errs
}

type rootStore struct {
	f *riofs.File
}

func (s *rootStore) mkdir(name string) (riofs.Directory, error) {
	obj, err := s.f.Get(name)
	if err == nil {
		if dir, ok := obj.(riofs.Directory); ok {
			return dir, nil
		}
		return nil, fmt.Errorf("trigeff: %s is not a directory", name)
	}
	return s.f.Mkdir(name)
}

func (s *rootStore) PutH1D(dir string, h *hbook.H1D) error {
	d, err := s.mkdir(dir)
	if err != nil {
		return err
	}
	return d.Put(h.Name(), rhist.NewH1DFrom(h))
}

func (s *rootStore) PutH2D(dir string, h *hbook.H2D) error {
	d, err := s.mkdir(dir)
	if err != nil {
		return err
	}
	return d.Put(h.Name(), rhist.NewH2DFrom(h))
}

func (s *rootStore) PutS2D(dir, name string, g *hbook.S2D) error {
	d, err := s.mkdir(dir)
	if err != nil {
		return err
	}
	return d.Put(name, rhist.NewGraphAsymmErrorsFrom(g))
}

func (s *rootStore) Close() error {
	return s.f.Close()
}

// yodaStore buffers histograms until Close. Putting a path twice keeps the
// latest histogram.
type yodaStore struct {
	path  string
	objs  []yodacnv.Marshaler
	index map[string]int
}

func (s *yodaStore) put(path string, obj yodacnv.Marshaler) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[path]; ok {
		s.objs[i] = obj
		return
	}
	s.index[path] = len(s.objs)
	s.objs = append(s.objs, obj)
}

func (s *yodaStore) PutH1D(dir string, h *hbook.H1D) error {
	path := "/" + dir + "/" + h.Name()
	h.Ann["path"] = path
	s.put(path, h)
	return nil
}

func (s *yodaStore) PutH2D(dir string, h *hbook.H2D) error {
	path := "/" + dir + "/" + h.Name()
	h.Ann["path"] = path
	s.put(path, h)
	return nil
}

func (s *yodaStore) PutS2D(dir, name string, g *hbook.S2D) error {
	path := "/" + dir + "/" + name
	g.Annotation()["path"] = path
	s.put(path, g)
	return nil
}

func (s *yodaStore) Close() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("trigeff: could not create %s: %w", s.path, err)
	}
	defer f.Close()

	if err := yodacnv.Write(f, s.objs...); err != nil {
		return fmt.Errorf("trigeff: could not write %s: %w", s.path, err)
	}
	return f.Close()
}
