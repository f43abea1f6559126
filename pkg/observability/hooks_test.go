package observability

import (
	"context"
	"testing"
	"time"
)

type testPipelineHooks struct {
	stages []string
}

func (h *testPipelineHooks) OnRunStart(context.Context, int, int)                {}
func (h *testPipelineHooks) OnRunComplete(context.Context, time.Duration, error) {}
func (h *testPipelineHooks) OnStageStart(_ context.Context, stage string) {
	h.stages = append(h.stages, stage)
}
func (h *testPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error) {}

type testSolverHooks struct{ solves int }

func (h *testSolverHooks) OnSolveStart(context.Context, string, int, int) { h.solves++ }
func (h *testSolverHooks) OnSolveComplete(context.Context, string, string, time.Duration, error) {
}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnRunStart(ctx, 10, 12)
	p.OnStageStart(ctx, "layer_assignment")
	p.OnStageComplete(ctx, "layer_assignment", time.Second, nil)
	p.OnRunComplete(ctx, time.Second, nil)

	s := NoopSolverHooks{}
	s.OnSolveStart(ctx, "milp", 40, 100)
	s.OnSolveComplete(ctx, "milp", "optimal", time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Error("Solver() should return NoopSolverHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customSolver := &testSolverHooks{}
	SetSolverHooks(customSolver)
	if Solver() != customSolver {
		t.Error("SetSolverHooks should set custom hooks")
	}

	// nil registrations are ignored.
	SetPipelineHooks(nil)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks(nil) should keep previous hooks")
	}

	Pipeline().OnStageStart(context.Background(), "geometry")
	if len(customPipeline.stages) != 1 || customPipeline.stages[0] != "geometry" {
		t.Errorf("stages = %v, want [geometry]", customPipeline.stages)
	}
}
