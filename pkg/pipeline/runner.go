// Package pipeline wires the layout stages into one run: cycle resolution,
// layer assignment, crossing reduction, vertical positioning and geometry
// construction. The input graph is never mutated; every run works on a
// clone and returns it alongside the diagram.
package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowline/pkg/errors"
	"github.com/matzehuels/flowline/pkg/flow"
	"github.com/matzehuels/flowline/pkg/flow/transform"
	"github.com/matzehuels/flowline/pkg/geometry"
	"github.com/matzehuels/flowline/pkg/layout"
	"github.com/matzehuels/flowline/pkg/observability"
)

// Stage names reported through observability hooks and run stats.
const (
	StageCycles      = "cycle_resolution"
	StageLayers      = "layer_assignment"
	StageCrossings   = "crossing_reduction"
	StagePositioning = "positioning"
	StageGeometry    = "geometry"
)

// Stats summarizes one pipeline run.
type Stats struct {
	NodeCount       int
	EdgeCount       int
	CyclesBroken    int
	DummyNodes      int
	Sweeps          int
	CrossingsBefore int
	CrossingsAfter  int

	// Imbalanced lists transit nodes whose in/out flow mismatch exceeded
	// the configured threshold. Diagnostic only.
	Imbalanced []string

	// StageDurations maps stage name to wall time spent in it.
	StageDurations map[string]time.Duration
	Total          time.Duration
}

// Result is the outcome of one pipeline run. Graph is the laid-out clone of
// the input, with layers, positions and coordinates assigned.
type Result struct {
	Graph   *flow.Graph
	Diagram *geometry.Diagram
	Stats   Stats
}

// Runner executes layout pipelines.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to the package
// default logger.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute lays out g according to cfg. The input graph is cloned up front
// and never modified.
func (r *Runner) Execute(ctx context.Context, g *flow.Graph, cfg Config) (*Result, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRunStart(ctx, g.NodeCount(), g.EdgeCount())
	start := time.Now()

	res, err := r.execute(ctx, g, cfg)
	total := time.Since(start)
	hooks.OnRunComplete(ctx, total, err)
	if err != nil {
		return nil, err
	}
	res.Stats.Total = total
	return res, nil
}

func (r *Runner) execute(ctx context.Context, input *flow.Graph, cfg Config) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	g := input.Clone()
	res := &Result{Graph: g}
	res.Stats.NodeCount = g.NodeCount()
	res.Stats.EdgeCount = g.EdgeCount()
	res.Stats.StageDurations = make(map[string]time.Duration, 5)

	var removed []transform.CycleEdge
	if err := r.runStage(ctx, res, StageCycles, func() error {
		var err error
		removed, err = transform.BreakCycles(g)
		if err != nil {
			return err
		}
		res.Stats.CyclesBroken = len(removed)
		if len(removed) > 0 {
			r.Logger.Debug("broke cycles", "edges_removed", len(removed))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.runStage(ctx, res, StageLayers, func() error {
		transform.AssignLayers(g, cfg.Align, cfg.Justify)
		if err := transform.Reinsert(g, removed); err != nil {
			return err
		}
		res.Stats.Imbalanced = g.RecomputeValues(cfg.MaxImbalance)
		for _, id := range res.Stats.Imbalanced {
			r.Logger.Warn("imbalanced transit node", "node", id)
		}
		before := g.NodeCount()
		transform.InsertDummies(g)
		res.Stats.DummyNodes = g.NodeCount() - before
		transform.InitPositions(g)
		if err := g.ValidateLayered(); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "layered structure broken after dummy insertion")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.position(ctx, res, cfg); err != nil {
		return nil, err
	}

	if err := r.runStage(ctx, res, StageGeometry, func() error {
		d, err := geometry.BuildDiagram(g, cfg.Draw)
		if err != nil {
			return err
		}
		res.Diagram = d
		return nil
	}); err != nil {
		return nil, err
	}

	r.Logger.Info("layout complete",
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"crossings", res.Stats.CrossingsAfter,
	)
	return res, nil
}

// position runs crossing reduction and the configured coordinate strategy.
// The LP mode also reduces crossings first, since it keeps the ordering
// fixed and only refines coordinates. The MILP decides ordering itself.
func (r *Runner) position(ctx context.Context, res *Result, cfg Config) error {
	g := res.Graph

	if cfg.Positioning != ModeMILP {
		if err := r.runStage(ctx, res, StageCrossings, func() error {
			stats, err := layout.ReduceCrossings(g, cfg.SweepMin, cfg.SweepMax)
			if err != nil {
				return err
			}
			res.Stats.Sweeps = stats.Sweeps
			res.Stats.CrossingsBefore = stats.CrossingsBefore
			res.Stats.CrossingsAfter = stats.CrossingsAfter
			r.Logger.Debug("crossing reduction",
				"sweeps", stats.Sweeps,
				"before", stats.CrossingsBefore,
				"after", stats.CrossingsAfter,
			)
			return nil
		}); err != nil {
			return err
		}
	} else {
		res.Stats.CrossingsBefore = flow.CountCrossings(g)
	}

	return r.runStage(ctx, res, StagePositioning, func() error {
		solveCtx := ctx
		if cfg.SolveTimeout > 0 && cfg.Positioning != ModeBarycenter {
			var cancel context.CancelFunc
			solveCtx, cancel = context.WithTimeout(ctx, cfg.SolveTimeout)
			defer cancel()
		}

		switch cfg.Positioning {
		case ModeBarycenter:
			layout.AssignStackedPositions(g)
		case ModeLP:
			if err := layout.OptimizeAbsoluteLP(solveCtx, g); err != nil {
				return err
			}
		case ModeMILP:
			if err := layout.OptimizeMILP(solveCtx, g); err != nil {
				return err
			}
			res.Stats.CrossingsAfter = flow.CountCrossings(g)
		}
		return nil
	})
}

func (r *Runner) runStage(ctx context.Context, res *Result, stage string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, stage)
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	hooks.OnStageComplete(ctx, stage, elapsed, err)
	res.Stats.StageDurations[stage] = elapsed
	if err != nil {
		r.Logger.Error("stage failed", "stage", stage, "err", err)
	}
	return err
}
