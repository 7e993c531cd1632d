// Package runner manages simulation runs on behalf of hosts: ID
// assignment, background execution, progress tracking, and result
// persistence.
package runner

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/metrosim/internal/baseline"
	"github.com/talgya/metrosim/internal/engine"
	"github.com/talgya/metrosim/internal/persistence"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run tracks one simulation run through its lifecycle.
type Run struct {
	ID         string
	Scenario   string
	Status     string
	Step       int
	TotalSteps int
	CreatedAt  time.Time
	FinishedAt time.Time
	Error      string

	// Snapshots and Votes are populated once the run completes.
	Snapshots []engine.Snapshot
	Votes     []engine.VoteRecord

	done chan struct{}
}

// Manager launches and tracks runs. A nil store disables persistence.
type Manager struct {
	store *persistence.DB

	mu   sync.Mutex
	runs map[string]*Run
}

// NewManager returns a manager that persists finished runs to store when
// store is non-nil.
func NewManager(store *persistence.DB) *Manager {
	return &Manager{
		store: store,
		runs:  make(map[string]*Run),
	}
}

// Start launches a run in the background and returns its ID immediately.
// The config is deep-copied so later edits by the caller cannot reach a
// run in flight.
func (m *Manager) Start(table *baseline.Table, cfg *engine.Config, scenario string) string {
	if cfg == nil {
		cfg = engine.DefaultConfig()
	}
	cfg = cfg.Clone()

	run := &Run{
		ID:         uuid.New().String(),
		Scenario:   scenario,
		Status:     StatusRunning,
		TotalSteps: cfg.TotalSteps,
		CreatedAt:  time.Now(),
		done:       make(chan struct{}),
	}

	m.mu.Lock()
	m.runs[run.ID] = run
	m.mu.Unlock()

	go m.execute(run, table, cfg)
	return run.ID
}

func (m *Manager) execute(run *Run, table *baseline.Table, cfg *engine.Config) {
	defer close(run.done)
	defer func() {
		if r := recover(); r != nil {
			m.finish(run, nil, nil, fmt.Errorf("run panicked: %v", r))
		}
	}()

	slog.Info("run started", "run_id", run.ID, "scenario", run.Scenario,
		"steps", cfg.TotalSteps, "seed", cfg.RandomSeed)

	snapshots, votes, err := engine.Run(table, cfg, engine.DefaultSnapshotInterval, func(step, total int) {
		m.mu.Lock()
		run.Step = step
		m.mu.Unlock()
	})
	m.finish(run, snapshots, votes, err)

	if err == nil && m.store != nil {
		m.persist(run, cfg)
	}
}

func (m *Manager) finish(run *Run, snapshots []engine.Snapshot, votes []engine.VoteRecord, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.FinishedAt = time.Now()
	if err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
		slog.Error("run failed", "run_id", run.ID, "error", err)
		return
	}
	run.Status = StatusCompleted
	run.Snapshots = snapshots
	run.Votes = votes
	slog.Info("run completed", "run_id", run.ID, "snapshots", len(snapshots), "votes", len(votes))
}

func (m *Manager) persist(run *Run, cfg *engine.Config) {
	configJSON, err := json.Marshal(map[string]any{
		"total_steps": cfg.TotalSteps,
		"random_seed": cfg.RandomSeed,
		"policy_name": cfg.Policy.Name,
	})
	if err != nil {
		slog.Error("marshal run config", "run_id", run.ID, "error", err)
		return
	}

	finished := run.FinishedAt
	rec := persistence.RunRecord{
		ID:         run.ID,
		Scenario:   run.Scenario,
		Status:     run.Status,
		RandomSeed: cfg.RandomSeed,
		TotalSteps: cfg.TotalSteps,
		CreatedAt:  run.CreatedAt,
		FinishedAt: &finished,
		Error:      run.Error,
		ConfigJSON: string(configJSON),
	}
	if err := m.store.SaveRunResult(rec, run.Snapshots, run.Votes); err != nil {
		slog.Error("persist run", "run_id", run.ID, "error", err)
	}
}

// Get returns a point-in-time copy of the run's public state.
func (m *Manager) Get(id string) (Run, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return Run{}, false
	}
	return snapshotRun(run), true
}

// List returns all known runs, newest first.
func (m *Manager) List() []Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Run, 0, len(m.runs))
	for _, run := range m.runs {
		out = append(out, snapshotRun(run))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Wait blocks until the run finishes or the timeout elapses, then returns
// its final state.
func (m *Manager) Wait(id string, timeout time.Duration) (Run, error) {
	m.mu.Lock()
	run, ok := m.runs[id]
	m.mu.Unlock()
	if !ok {
		return Run{}, fmt.Errorf("unknown run %s", id)
	}

	select {
	case <-run.done:
	case <-time.After(timeout):
		return Run{}, fmt.Errorf("run %s still going after %s", id, timeout)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshotRun(run), nil
}

// snapshotRun copies the caller-visible fields. Callers hold m.mu.
func snapshotRun(run *Run) Run {
	out := *run
	out.done = nil
	return out
}
