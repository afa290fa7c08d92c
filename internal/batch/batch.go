// Package batch generates many model variants concurrently.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/phyllo/internal/config"
	"github.com/Faultbox/phyllo/internal/generate"
	"github.com/Faultbox/phyllo/internal/logger"
)

// ManifestName is the manifest file written next to the exported models.
const ManifestName = "manifest.json"

// Result holds the outcome of one variant.
type Result struct {
	Name     string
	Kind     string
	File     string
	Stats    generate.Stats
	Success  bool
	Error    string
	Duration time.Duration
}

// Report is the outcome of a whole run.
type Report struct {
	RunID    string
	Dir      string
	Results  []Result
	Failed   int
	Duration time.Duration
}

// Run generates every variant of cfg.Batch with at most cfg.Batch.Workers
// concurrent jobs and writes the models plus a manifest into cfg.Export.Dir.
// A failing variant is recorded in its Result and does not stop the others.
// Cancelling ctx stops scheduling new variants and returns ctx.Err().
func Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	exp, err := cfg.Exporter()
	if err != nil {
		return nil, err
	}
	format, err := cfg.Format()
	if err != nil {
		return nil, err
	}

	log := logger.Named("batch")
	runID := uuid.NewString()
	variants := cfg.Batch.Variants
	results := make([]Result, len(variants))
	var processed atomic.Int64
	start := time.Now()

	log.Info("batch started",
		zap.String("run", runID),
		zap.Int("variants", len(variants)),
		zap.Int("workers", workers(cfg)),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(cfg))

	used := make(map[string]bool, len(variants))
	for i, v := range variants {
		if gctx.Err() != nil {
			break
		}
		name := fileStem(v, i)
		if used[name] {
			name = fmt.Sprintf("%s-%03d", name, i)
		}
		used[name] = true
		resolved := cfg.Resolve(v)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			jobStart := time.Now()
			res := Result{Name: name, Kind: v.Kind, File: name + format.Ext()}

			buf, stats, err := generate.Model(resolved, v.Kind)
			if err == nil {
				err = generate.WriteFile(filepath.Join(cfg.Export.Dir, res.File), exp, buf)
			}
			res.Stats = stats
			res.Duration = time.Since(jobStart)
			if err != nil {
				res.Error = err.Error()
				log.Warn("variant failed", zap.String("name", name), zap.Error(err))
			} else {
				res.Success = true
				log.Debug("variant done",
					zap.String("name", name),
					zap.Int("vertices", stats.Vertices),
					zap.Duration("elapsed", res.Duration),
				)
			}
			results[i] = res
			processed.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:    runID,
		Dir:      cfg.Export.Dir,
		Results:  results,
		Duration: time.Since(start),
	}
	for _, r := range results {
		if !r.Success {
			report.Failed++
		}
	}

	if err := WriteManifest(filepath.Join(cfg.Export.Dir, ManifestName), report); err != nil {
		return report, fmt.Errorf("write manifest: %w", err)
	}

	log.Info("batch finished",
		zap.String("run", runID),
		zap.Int64("processed", processed.Load()),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", report.Duration),
	)
	return report, nil
}

func workers(cfg *config.Config) int {
	if cfg.Batch.Workers < 1 {
		return 1
	}
	return cfg.Batch.Workers
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// fileStem returns a file-system safe base name for variant i.
func fileStem(v config.Variant, i int) string {
	name := unsafeChars.ReplaceAllString(v.Name, "_")
	if name == "" || name == "." || name == ".." {
		name = fmt.Sprintf("%s-%03d", v.Kind, i)
	}
	return name
}
