package logging

import (
	"sync"
	"time"
)

// RunMetrics tracks counters for a single analysis run: traversal effort,
// results produced, and per-operation timings
type RunMetrics struct {
	StartTime      time.Time                   `json:"start_time"`
	EndTime        time.Time                   `json:"end_time"`
	Duration       string                      `json:"duration"`
	NodesVisited   int                         `json:"nodes_visited"`
	EdgesTraversed int                         `json:"edges_traversed"`
	PathsEmitted   int                         `json:"paths_emitted"`
	ChainsEmitted  int                         `json:"chains_emitted"`
	ScoresComputed int                         `json:"scores_computed"`
	Assessments    int                         `json:"assessments"`
	DeadlineHits   int                         `json:"deadline_hits"`
	Operations     map[string]OperationMetrics `json:"operations"`
	mu             sync.Mutex
}

// OperationMetrics tracks metrics for high-level operations
type OperationMetrics struct {
	Duration       time.Duration `json:"duration"`
	Success        bool          `json:"success"`
	Error          string        `json:"error,omitempty"`
	ItemsProcessed int           `json:"items_processed"`
	ItemsFound     int           `json:"items_found"`
}

// NewRunMetrics starts a metrics collector for one analysis run
func NewRunMetrics() *RunMetrics {
	return &RunMetrics{
		StartTime:  time.Now(),
		Operations: make(map[string]OperationMetrics),
	}
}

// RecordTraversal adds traversal counters from one entry-point enumeration
func (m *RunMetrics) RecordTraversal(nodesVisited, edgesTraversed, pathsEmitted int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NodesVisited += nodesVisited
	m.EdgesTraversed += edgesTraversed
	m.PathsEmitted += pathsEmitted
}

// RecordChains adds the number of chains built
func (m *RunMetrics) RecordChains(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChainsEmitted += n
}

// RecordScore counts one feasibility score computation
func (m *RunMetrics) RecordScore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoresComputed++
}

// RecordAssessment counts one risk-acceptance assessment
func (m *RunMetrics) RecordAssessment() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Assessments++
}

// RecordDeadlineHit counts one deadline/cancellation firing mid-enumeration
func (m *RunMetrics) RecordDeadlineHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeadlineHits++
}

// RecordOperation records a high-level operation
func (m *RunMetrics) RecordOperation(operationName string, duration time.Duration, success bool, itemsProcessed, itemsFound int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	opMetrics := OperationMetrics{
		Duration:       duration,
		Success:        success,
		ItemsProcessed: itemsProcessed,
		ItemsFound:     itemsFound,
	}
	if err != nil {
		opMetrics.Error = err.Error()
	}
	m.Operations[operationName] = opMetrics
}

// Finalize stamps the end time and duration
func (m *RunMetrics) Finalize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime).Round(time.Millisecond).String()
}

// Snapshot returns a copy safe for serialization
func (m *RunMetrics) Snapshot() RunMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	ops := make(map[string]OperationMetrics, len(m.Operations))
	for k, v := range m.Operations {
		ops[k] = v
	}
	return RunMetrics{
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		Duration:       m.Duration,
		NodesVisited:   m.NodesVisited,
		EdgesTraversed: m.EdgesTraversed,
		PathsEmitted:   m.PathsEmitted,
		ChainsEmitted:  m.ChainsEmitted,
		ScoresComputed: m.ScoresComputed,
		Assessments:    m.Assessments,
		DeadlineHits:   m.DeadlineHits,
		Operations:     ops,
	}
}
