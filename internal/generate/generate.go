// Package generate turns a loaded config into meshes and files.
package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/phyllo/internal/config"
	"github.com/Faultbox/phyllo/internal/logger"
	"github.com/Faultbox/phyllo/pkg/export"
	"github.com/Faultbox/phyllo/pkg/flower"
	"github.com/Faultbox/phyllo/pkg/leaf"
	"github.com/Faultbox/phyllo/pkg/math"
	"github.com/Faultbox/phyllo/pkg/mesh"
	"github.com/Faultbox/phyllo/pkg/palm"
)

// Stats summarises one generated model.
type Stats struct {
	Kind            string
	Vertices        int
	Faces           int
	Groups          int
	FoliageVertices int // Palm only
	Bounds          mesh.Bounds
	Elapsed         time.Duration
}

// Model builds the model of the given kind from cfg.
func Model(cfg *config.Config, kind string) (*mesh.Buffer, Stats, error) {
	start := time.Now()
	stats := Stats{Kind: kind}

	var (
		buf *mesh.Buffer
		err error
	)
	switch kind {
	case config.KindPalm:
		buf, stats.FoliageVertices, err = buildPalm(cfg)
	case config.KindLeaf:
		buf, err = buildLeaf(cfg)
	case config.KindFlower:
		buf, err = buildFlower(cfg)
	default:
		err = fmt.Errorf("%w: %q", config.ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, stats, err
	}

	stats.Vertices = buf.VertexCount()
	stats.Faces = buf.FaceCount()
	stats.Groups = len(buf.Groups)
	stats.Bounds = buf.Bounds()
	stats.Elapsed = time.Since(start)

	logger.Named("generate").Debug("model built",
		zap.String("kind", kind),
		zap.Int("vertices", stats.Vertices),
		zap.Int("faces", stats.Faces),
		zap.Int("groups", stats.Groups),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return buf, stats, nil
}

func buildPalm(cfg *config.Config) (*mesh.Buffer, int, error) {
	pp, err := cfg.PalmParams()
	if err != nil {
		return nil, 0, err
	}
	c, err := cfg.Curve()
	if err != nil {
		return nil, 0, err
	}
	res, err := palm.Build(cfg.Leaf, pp, c)
	if err != nil {
		return nil, 0, err
	}
	return res.Buffer, res.FoliageVertices, nil
}

func buildLeaf(cfg *config.Config) (*mesh.Buffer, error) {
	m, err := leaf.Build(cfg.Leaf)
	if err != nil {
		return nil, err
	}
	color, err := mesh.ParseHexColor(cfg.Palm.FoliageColor)
	if err != nil {
		return nil, err
	}
	b := mesh.NewBuilder()
	if err := b.Append(m, math.Identity(), color, palm.Foliage); err != nil {
		return nil, err
	}
	return b.Finish(), nil
}

func buildFlower(cfg *config.Config) (*mesh.Buffer, error) {
	lp, fp, err := cfg.FlowerParams()
	if err != nil {
		return nil, err
	}
	return flower.Generate(lp, fp)
}

// FileMode is the permission of exported files.
const FileMode os.FileMode = 0644

// WriteFile exports buf to path, creating parent directories. The file is
// written to a temporary name first and renamed into place.
func WriteFile(path string, exp export.Exporter, buf *mesh.Buffer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	// CreateTemp opens with 0600.
	if err := tmp.Chmod(FileMode); err != nil {
		tmp.Close()
		return err
	}
	if err := exp.Export(tmp, buf); err != nil {
		tmp.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
