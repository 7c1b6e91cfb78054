// Package splitter splits OBJ files into one file per material.
package splitter

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/objsplit/internal/config"
	"github.com/Faultbox/objsplit/internal/fsutil"
	"github.com/Faultbox/objsplit/internal/logger"
	"github.com/Faultbox/objsplit/pkg/meshsplit"
	"github.com/Faultbox/objsplit/pkg/wavefront"
)

// Output describes the file produced for one material group.
type Output struct {
	Material  string
	Path      string
	Faces     int
	Vertices  int
	TexCoords int
	Normals   int
	Err       error // Set when the group was aborted; no file is written
}

// Report summarises a split of one input file.
type Report struct {
	Input        string
	Lines        int
	DroppedFaces int
	Outputs      []Output
}

// Failed returns the outputs that were aborted.
func (r *Report) Failed() []Output {
	var failed []Output
	for _, out := range r.Outputs {
		if out.Err != nil {
			failed = append(failed, out)
		}
	}
	return failed
}

// Splitter runs the parse, remap and write stages for input files.
type Splitter struct {
	cfg config.SplitConfig
	log *zap.Logger
}

// New creates a splitter. A nil logger uses the global one.
func New(cfg config.SplitConfig, log *zap.Logger) *Splitter {
	if log == nil {
		log = logger.Named("splitter")
	}
	return &Splitter{cfg: cfg, log: log}
}

// Split writes one OBJ file per material of the input. Read and parse
// errors abort the whole input before anything is written. Groups that fail
// are reported in the returned Report and combined into the returned error;
// the remaining groups are still written.
func (s *Splitter) Split(inputPath string) (*Report, error) {
	return s.run(inputPath, true)
}

// Plan parses the input and computes every group's remap tables without
// writing any file.
func (s *Splitter) Plan(inputPath string) (*Report, error) {
	return s.run(inputPath, false)
}

func (s *Splitter) run(inputPath string, write bool) (*Report, error) {
	start := time.Now()

	opts, err := s.cfg.ParseOptions()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", inputPath, err)
	}

	doc, err := wavefront.ParseBytes(data, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", inputPath, err)
	}

	s.log.Debug("parsed input",
		logger.Path(inputPath),
		zap.Int("lines", doc.Lines),
		zap.Int("vertices", len(doc.Vertices)),
		zap.Int("texcoords", len(doc.TexCoords)),
		zap.Int("normals", len(doc.Normals)),
		zap.Int("materials", len(doc.Groups)),
		zap.Duration("elapsed", time.Since(start)),
	)
	if doc.DroppedFaces > 0 {
		s.log.Warn("dropped faces without an active material",
			logger.Path(inputPath),
			zap.Int("faces", doc.DroppedFaces),
		)
	}

	report := &Report{
		Input:        inputPath,
		Lines:        doc.Lines,
		DroppedFaces: doc.DroppedFaces,
		Outputs:      make([]Output, len(doc.Groups)),
	}
	for i, group := range doc.Groups {
		report.Outputs[i] = Output{
			Material: group.Name,
			Path:     meshsplit.OutputPath(inputPath, s.cfg.OutputDir, group.Name),
			Faces:    len(group.Faces),
		}
	}
	if err := checkCollisions(report.Outputs); err != nil {
		return report, err
	}

	if write && s.cfg.OutputDir != "" {
		if err := os.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
			return report, fmt.Errorf("creating output dir: %w", err)
		}
	}

	// The document is read-only from here on; each worker owns one output slot.
	var g errgroup.Group
	g.SetLimit(s.workers())
	for i, group := range doc.Groups {
		out := &report.Outputs[i]
		g.Go(func() error {
			out.Err = s.processGroup(doc, group, out, write)
			return nil
		})
	}
	_ = g.Wait()

	var errs error
	for _, out := range report.Outputs {
		errs = multierr.Append(errs, out.Err)
	}

	s.log.Info("input processed",
		logger.Path(inputPath),
		zap.Bool("write", write),
		zap.Int("materials", len(report.Outputs)),
		zap.Int("failed", len(report.Failed())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, errs
}

func (s *Splitter) processGroup(doc *wavefront.Document, group *wavefront.MaterialGroup, out *Output, write bool) error {
	log := s.log.With(logger.Material(group.Name))

	tables, err := meshsplit.BuildRemap(doc, group)
	if err != nil {
		log.Error("aborting material group", zap.Error(err))
		return err
	}
	out.Vertices = tables.Get(wavefront.Position).Len()
	out.TexCoords = tables.Get(wavefront.TexCoord).Len()
	out.Normals = tables.Get(wavefront.Normal).Len()

	if !write {
		return nil
	}

	var buf bytes.Buffer
	if err := meshsplit.WriteGroup(&buf, doc, group, tables); err != nil {
		log.Error("aborting material group", zap.Error(err))
		return err
	}
	if err := fsutil.WriteFileAtomic(out.Path, buf.Bytes(), 0644); err != nil {
		err = fmt.Errorf("material %q: %w", group.Name, err)
		log.Error("writing output failed", logger.Path(out.Path), zap.Error(err))
		return err
	}

	log.Info("wrote material",
		logger.Path(out.Path),
		zap.Int("faces", out.Faces),
		zap.Int("vertices", out.Vertices),
		zap.Int("texcoords", out.TexCoords),
		zap.Int("normals", out.Normals),
	)
	return nil
}

func (s *Splitter) workers() int {
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// checkCollisions rejects material names that map to the same output file.
func checkCollisions(outputs []Output) error {
	seen := make(map[string]string, len(outputs))
	for _, out := range outputs {
		if other, ok := seen[out.Path]; ok {
			return fmt.Errorf("materials %q and %q both map to %s", other, out.Material, out.Path)
		}
		seen[out.Path] = out.Material
	}
	return nil
}
