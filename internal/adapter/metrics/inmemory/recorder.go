package inmemory

import (
	"sync"
	"time"

	"colonyai/internal/domain/role"
	"colonyai/internal/domain/world"
)

type Snapshot struct {
	Ticks          uint64            `json:"ticks"`
	LastTickMicros int64             `json:"last_tick_micros"`
	ActionTotal    uint64            `json:"action_total"`
	ActionSuccess  uint64            `json:"action_success"`
	ActionFailure  uint64            `json:"action_failure"`
	Faults         uint64            `json:"faults"`
	ChainsCreated  uint64            `json:"chains_created"`
	SpawnsByRole   map[string]uint64 `json:"spawns_by_role"`
	SpawnFailures  uint64            `json:"spawn_failures"`
	ByResultCode   map[string]uint64 `json:"by_result_code"`
	ByAction       map[string]uint64 `json:"by_action"`
}

type Recorder struct {
	mu            sync.Mutex
	ticks         uint64
	lastTick      time.Duration
	success       uint64
	failure       uint64
	faults        uint64
	chainsCreated uint64
	spawnFailures uint64
	spawnsByRole  map[string]uint64
	byResult      map[string]uint64
	byAction      map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		spawnsByRole: map[string]uint64{},
		byResult:     map[string]uint64{},
		byAction:     map[string]uint64{},
	}
}

// RecordAction counts one primitive. Not-in-range is not a failure: movement follows it.
func (r *Recorder) RecordAction(action string, code world.ResultCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byAction[action]++
	r.byResult[string(code)]++
	if code.OK() || code == world.ResultNotInRange {
		r.success++
		return
	}
	r.failure++
}

func (r *Recorder) RecordSpawn(k role.Kind, code world.ResultCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !code.OK() {
		r.spawnFailures++
		return
	}
	r.spawnsByRole[string(k)]++
}

func (r *Recorder) RecordChainCreated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chainsCreated++
}

func (r *Recorder) RecordTick(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
	r.lastTick = d
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults++
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		Ticks:          r.ticks,
		LastTickMicros: r.lastTick.Microseconds(),
		ActionSuccess:  r.success,
		ActionFailure:  r.failure,
		ActionTotal:    r.success + r.failure,
		Faults:         r.faults,
		ChainsCreated:  r.chainsCreated,
		SpawnFailures:  r.spawnFailures,
		SpawnsByRole:   copyCounts(r.spawnsByRole),
		ByResultCode:   copyCounts(r.byResult),
		ByAction:       copyCounts(r.byAction),
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
