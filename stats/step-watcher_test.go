package stats

import (
	"sync/atomic"
	"testing"

	"github.com/relloyd/airpipe/logger"
)

func TestStepWatcher(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	// Test 1 - step watcher captures the row count of a step.
	var rowCount int64
	sw := NewStepWatcher(log, "testStep")
	sw.StartWatching(&rowCount)
	atomic.AddInt64(&rowCount, 3)
	sw.CalculateStats()
	s := sw.RenderStats()
	if s.StepName != "testStep" {
		t.Fatalf("expected step name %v; got %v", "testStep", s.StepName)
	}
	if s.TotalRowsProcessed != 3 {
		t.Fatalf("expected %v rows processed; got %v", 3, s.TotalRowsProcessed)
	}
	if s.StatusText != "running" {
		t.Fatalf("expected status %v; got %v", "running", s.StatusText)
	}
	// Test 2 - counting continues across repeated calculations.
	atomic.AddInt64(&rowCount, 2)
	sw.CalculateStats()
	s = sw.RenderStats()
	if s.TotalRowsProcessed != 5 {
		t.Fatalf("expected %v rows processed; got %v", 5, s.TotalRowsProcessed)
	}
	// Test 3 - stop watching performs a final calculation and marks the step complete.
	atomic.AddInt64(&rowCount, 1)
	sw.StopWatching()
	s = sw.RenderStats()
	if s.TotalRowsProcessed != 6 {
		t.Fatalf("expected %v rows processed; got %v", 6, s.TotalRowsProcessed)
	}
	if s.StatusText != "complete" {
		t.Fatalf("expected status %v; got %v", "complete", s.StatusText)
	}
}

func TestPipelineStatsManager(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	// Test 1 - step watchers are returned in the order they were added.
	sm := NewPipelineStats(log, SetStatsDumpFrequency(0)) // disable the stats dumper ticker.
	var rows1, rows2 int64
	sw1 := sm.AddStepWatcher("stepOne")
	sw2 := sm.AddStepWatcher("stepTwo")
	sw1.StartWatching(&rows1)
	sw2.StartWatching(&rows2)
	atomic.AddInt64(&rows1, 10)
	atomic.AddInt64(&rows2, 20)
	sw1.StopWatching()
	sw2.StopWatching()
	statsList := sm.GetStats()
	if len(statsList) != 2 {
		t.Fatalf("expected %v stats entries; got %v", 2, len(statsList))
	}
	if statsList[0].StepName != "stepOne" || statsList[1].StepName != "stepTwo" {
		t.Fatalf("unexpected stats order: %v, %v", statsList[0].StepName, statsList[1].StepName)
	}
	if statsList[0].TotalRowsProcessed != 10 {
		t.Fatalf("expected %v rows for stepOne; got %v", 10, statsList[0].TotalRowsProcessed)
	}
	if statsList[1].TotalRowsProcessed != 20 {
		t.Fatalf("expected %v rows for stepTwo; got %v", 20, statsList[1].TotalRowsProcessed)
	}
	// Test 2 - start/stop dumping is a no-op when the frequency is zero.
	sm.StartDumping()
	sm.StopDumping()
}

func TestMockStatsManager(t *testing.T) {
	// Test 1 - the mock returns a nil step watcher so components must cope without one.
	sm := NewMockStatsManager()
	sw := sm.AddStepWatcher("testStep")
	if sw != nil {
		t.Fatalf("expected nil step watcher; got %v", sw)
	}
	// Test 2 - the calls made are recorded for assertion by callers.
	sm.StartDumping()
	sm.StopDumping()
	if sm.StartCount != 1 || sm.StopCount != 1 {
		t.Fatalf("expected 1 start and 1 stop; got %v and %v", sm.StartCount, sm.StopCount)
	}
	if len(sm.WatchedSteps) != 1 || sm.WatchedSteps[0] != "testStep" {
		t.Fatalf("expected watched steps [testStep]; got %v", sm.WatchedSteps)
	}
}
