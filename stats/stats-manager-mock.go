package stats

// MockStatsManager records the calls a pipeline makes on its stats manager.
// AddStepWatcher hands out nil watchers, which components must tolerate.
type MockStatsManager struct {
	StartCount   int
	StopCount    int
	WatchedSteps []string
}

func (s *MockStatsManager) StartDumping() {
	s.StartCount++
}

func (s *MockStatsManager) StopDumping() {
	s.StopCount++
}

func (s *MockStatsManager) AddStepWatcher(stepName string) *StepWatcher {
	s.WatchedSteps = append(s.WatchedSteps, stepName)
	return nil
}

func NewMockStatsManager() *MockStatsManager {
	return &MockStatsManager{}
}
