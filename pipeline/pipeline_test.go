package pipeline

import (
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/stats"
	"golang.org/x/net/context"
)

func TestPipelineRunsStepsInOrder(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	var got []string
	mkStep := func(name string) Step {
		return Step{Name: name, Run: func(ctx context.Context) error {
			got = append(got, name)
			return nil
		}}
	}
	sm := stats.NewMockStatsManager()
	p := NewPipeline(log, sm, mkStep("stepOne"), mkStep("stepTwo"), mkStep("stepThree"))
	// Test 1 - a pipeline gets a guid at build time.
	if p.Guid() == "" {
		t.Fatalf("expected a pipeline guid; got an empty string")
	}
	// Test 2 - steps execute in order.
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("expected pipeline to complete; got error: %v", err)
	}
	expected := []string{"stepOne", "stepTwo", "stepThree"}
	if len(got) != len(expected) {
		t.Fatalf("expected %v steps to run; got %v", len(expected), len(got))
	}
	for idx := range expected {
		if got[idx] != expected[idx] {
			t.Fatalf("expected step %v at position %v; got %v", expected[idx], idx, got[idx])
		}
	}
	// Test 3 - the run starts and stops stats dumping around the steps.
	if sm.StartCount != 1 || sm.StopCount != 1 {
		t.Fatalf("expected 1 stats start and 1 stop; got %v and %v", sm.StartCount, sm.StopCount)
	}
}

func TestPipelineFailsFast(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	var got []string
	errBang := errors.New("bang")
	p := NewPipeline(log, stats.NewMockStatsManager(),
		Step{Name: "stepOne", Run: func(ctx context.Context) error {
			got = append(got, "stepOne")
			return nil
		}},
		Step{Name: "stepTwo", Run: func(ctx context.Context) error {
			return errBang
		}},
		Step{Name: "stepThree", Run: func(ctx context.Context) error {
			got = append(got, "stepThree")
			return nil
		}},
	)
	err := p.Run(context.Background())
	// Test 1 - the failing step aborts the run.
	if err == nil {
		t.Fatalf("expected an error from the failing step; got nil")
	}
	// Test 2 - the error names the step and wraps the cause.
	if !strings.Contains(err.Error(), "step stepTwo failed") {
		t.Fatalf("expected error to name step stepTwo; got %v", err)
	}
	if !errors.Is(err, errBang) {
		t.Fatalf("expected error to wrap the step failure; got %v", err)
	}
	// Test 3 - later steps are skipped.
	if len(got) != 1 || got[0] != "stepOne" {
		t.Fatalf("expected only stepOne to run; got %v", got)
	}
}

func TestPipelineHonoursCancelledContext(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	ran := false
	p := NewPipeline(log, stats.NewMockStatsManager(),
		Step{Name: "stepOne", Run: func(ctx context.Context) error {
			ran = true
			return nil
		}},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Test 1 - a cancelled context aborts before the first step.
	if err := p.Run(ctx); err != context.Canceled {
		t.Fatalf("expected %v; got %v", context.Canceled, err)
	}
	if ran {
		t.Fatalf("expected no steps to run after cancellation")
	}
}

func TestPipelinePlan(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	p := NewPipeline(log, stats.NewMockStatsManager(),
		Step{Name: "stepOne", Description: "first step", Run: func(ctx context.Context) error { return nil }},
		Step{Name: "stepTwo", Description: "second step", Run: func(ctx context.Context) error { return nil }},
	)
	plan := p.Plan("test pipeline")
	// Test 1 - the plan carries the schema version and description.
	if plan.SchemaVersion != 1 {
		t.Fatalf("expected schema version 1; got %v", plan.SchemaVersion)
	}
	if plan.Description != "test pipeline" {
		t.Fatalf("expected description %q; got %q", "test pipeline", plan.Description)
	}
	// Test 2 - plan steps preserve pipeline order.
	if len(plan.Steps) != 2 {
		t.Fatalf("expected 2 plan steps; got %v", len(plan.Steps))
	}
	if plan.Steps[0].Name != "stepOne" || plan.Steps[1].Name != "stepTwo" {
		t.Fatalf("expected steps in pipeline order; got %v", plan.Steps)
	}
	if plan.Steps[0].Description != "first step" {
		t.Fatalf("expected step description to be kept; got %q", plan.Steps[0].Description)
	}
}

func TestCleanupHandlerDefaultCancelsOnSigterm(t *testing.T) {
	log := logger.NewLogger("airpipe", "error", true)
	// Catch SIGTERM for the whole test so an early signal cannot kill the process.
	guard := make(chan os.Signal, 1)
	signal.Notify(guard, syscall.SIGTERM)
	defer signal.Stop(guard)
	sm := stats.NewMockStatsManager()
	p := NewPipeline(log, sm)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	chanHandlerDone := make(chan struct{})
	go func() {
		CleanupHandlerDefault(log, p, sm, cancel)
		close(chanHandlerDone)
	}()
	time.Sleep(100 * time.Millisecond) // let the handler register for signals.
	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatal(err)
	}
	// Test 1 - the handler returns after the signal and cancels the pipeline context.
	select {
	case <-chanHandlerDone:
	case <-time.After(5 * time.Second):
		t.Fatal("expected the handler to return after SIGTERM")
	}
	select {
	case <-ctx.Done():
	default:
		t.Fatal("expected the pipeline context to be cancelled")
	}
	// Test 2 - stats dumping is stopped during shutdown.
	if sm.StopCount != 1 {
		t.Fatalf("expected 1 stats stop; got %v", sm.StopCount)
	}
}

func TestPipelineCloserReleasesCleanupHandler(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	p := NewPipeline(log, stats.NewMockStatsManager())
	pc := NewPipelineCloser()
	handler := GetCleanupHandlerWithCloserFunc(log, p.Guid(), pc)
	chanHandlerDone := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		handler(log, p, stats.NewMockStatsManager(), cancel)
		close(chanHandlerDone)
	}()
	// Test 1 - closing with a nil result releases the handler without exiting.
	pc.Close(nil)
	<-chanHandlerDone
	// Test 2 - Close is idempotent.
	pc.Close(errors.New("ignored"))
	select {
	case <-ctx.Done():
		t.Fatalf("expected the handler to leave the context alone on a clean close")
	default:
	}
}
