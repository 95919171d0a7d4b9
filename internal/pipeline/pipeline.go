// Package pipeline runs the mesh processing stages over a model in order:
// normals, tangents, merge, uniquify and strip conversion.
package pipeline

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/cmodfix/internal/config"
	"github.com/Faultbox/cmodfix/internal/logger"
	"github.com/Faultbox/cmodfix/pkg/cmod"
	"github.com/Faultbox/cmodfix/pkg/geometry"
)

// Stage names reported to a Reporter.
const (
	StageNormals  = "normals"
	StageTangents = "tangents"
	StageMerge    = "merge"
	StageUniquify = "uniquify"
	StageOptimize = "optimize"
)

// Reporter receives stage progress.
type Reporter interface {
	Start(stage string, total int)
	Step()
	Finish()
}

type nopReporter struct{}

func (nopReporter) Start(string, int) {}
func (nopReporter) Step()             {}
func (nopReporter) Finish()           {}

// Stats summarizes a run.
type Stats struct {
	MeshesIn       int
	MeshesOut      int
	VerticesIn     int
	VerticesOut    int
	Removed        int // Vertices dropped by uniquify
	Stripified     int // Meshes converted to strips
	StripsSkipped  int // Meshes left as lists
	IndicesIn      int
	IndicesOut     int
	ProcessingTime time.Duration
}

// Pipeline applies the configured stages to models.
type Pipeline struct {
	cfg        config.PipelineConfig
	reporter   Reporter
	stripifier geometry.Stripifier
	log        *zap.Logger
}

// New creates a pipeline. A nil reporter disables progress reporting.
func New(cfg config.PipelineConfig, reporter Reporter) *Pipeline {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Pipeline{
		cfg:        cfg,
		reporter:   reporter,
		stripifier: geometry.GreedyStripifier{CacheSize: cfg.VertexCacheSize},
		log:        logger.Named("pipeline"),
	}
}

// Run processes model and returns the resulting model. Generators and the
// merge stage replace meshes; uniquify and strip conversion work in place.
// On error the returned model is nil and model may be partly processed.
func (p *Pipeline) Run(model *cmod.Model) (*cmod.Model, Stats, error) {
	start := time.Now()
	stats := Stats{
		MeshesIn:   len(model.Meshes),
		VerticesIn: model.VertexCount(),
		IndicesIn:  indexCount(model),
	}

	if p.cfg.Normals {
		opts := geometry.NormalOptions{
			SmoothingAngle: mgl32.DegToRad(float32(p.cfg.SmoothAngle)),
			Weld:           p.cfg.Weld,
		}
		err := p.eachMesh(model, StageNormals, func(i int, m *cmod.Mesh) (*cmod.Mesh, error) {
			return geometry.GenerateNormals(m, opts)
		})
		if err != nil {
			return nil, stats, err
		}
	}

	if p.cfg.Tangents {
		opts := geometry.TangentOptions{Weld: p.cfg.Weld}
		err := p.eachMesh(model, StageTangents, func(i int, m *cmod.Mesh) (*cmod.Mesh, error) {
			return geometry.GenerateTangents(m, opts)
		})
		if err != nil {
			return nil, stats, err
		}
	}

	if p.cfg.Merge {
		p.reporter.Start(StageMerge, 1)
		before := len(model.Meshes)
		model = geometry.MergeModelMeshes(model)
		p.reporter.Step()
		p.reporter.Finish()
		p.log.Info("merged meshes",
			zap.Int("before", before),
			zap.Int("after", len(model.Meshes)))
	}

	if p.cfg.Uniquify {
		err := p.eachMesh(model, StageUniquify, func(i int, m *cmod.Mesh) (*cmod.Mesh, error) {
			before := m.VertexCount()
			removed, err := geometry.UniquifyVertices(m)
			if err != nil {
				return nil, err
			}
			stats.Removed += removed
			p.log.Debug("uniquified mesh",
				zap.Int("mesh", i),
				zap.Uint32("before", before),
				zap.Int("removed", removed))
			return m, nil
		})
		if err != nil {
			return nil, stats, err
		}
	}

	if p.cfg.Optimize {
		err := p.eachMesh(model, StageOptimize, func(i int, m *cmod.Mesh) (*cmod.Mesh, error) {
			converted, err := geometry.ConvertToStrips(m, p.stripifier)
			if err != nil {
				return nil, err
			}
			if converted {
				stats.Stripified++
			} else {
				stats.StripsSkipped++
				p.log.Debug("mesh not stripified",
					zap.Int("mesh", i),
					zap.Uint32("vertices", m.VertexCount()))
			}
			return m, nil
		})
		if err != nil {
			return nil, stats, err
		}
	}

	stats.MeshesOut = len(model.Meshes)
	stats.VerticesOut = model.VertexCount()
	stats.IndicesOut = indexCount(model)
	stats.ProcessingTime = time.Since(start)

	p.log.Info("pipeline finished",
		zap.Int("meshes_in", stats.MeshesIn),
		zap.Int("meshes_out", stats.MeshesOut),
		zap.Int("vertices_in", stats.VerticesIn),
		zap.Int("vertices_out", stats.VerticesOut),
		zap.Int("indices_out", stats.IndicesOut),
		zap.Duration("elapsed", stats.ProcessingTime))

	return model, stats, nil
}

// eachMesh runs fn on every mesh of model, replacing each mesh with the
// one fn returns.
func (p *Pipeline) eachMesh(model *cmod.Model, stage string, fn func(int, *cmod.Mesh) (*cmod.Mesh, error)) error {
	p.reporter.Start(stage, len(model.Meshes))
	defer p.reporter.Finish()

	for i, m := range model.Meshes {
		out, err := fn(i, m)
		if err != nil {
			p.log.Error("stage failed",
				zap.String("stage", stage),
				zap.Int("mesh", i),
				zap.Error(err))
			return fmt.Errorf("mesh %d: %s: %w", i, stage, err)
		}
		if out != m {
			p.log.Debug("mesh replaced",
				zap.String("stage", stage),
				zap.Int("mesh", i),
				zap.Uint32("vertices_before", m.VertexCount()),
				zap.Uint32("vertices_after", out.VertexCount()))
		}
		model.Meshes[i] = out
		p.reporter.Step()
	}

	p.log.Info("stage done", zap.String("stage", stage), zap.Int("meshes", len(model.Meshes)))
	return nil
}

func indexCount(model *cmod.Model) int {
	n := 0
	for _, m := range model.Meshes {
		n += m.IndexCount()
	}
	return n
}
