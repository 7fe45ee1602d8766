// Package tick runs the colony's per-tick pipeline.
package tick

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"colonyai/internal/app/memorymaint"
	"colonyai/internal/app/ports"
	"colonyai/internal/app/roomstate"
	"colonyai/internal/app/spawn"
	"colonyai/internal/app/worker"
	"colonyai/internal/domain/world"
)

type Loop struct {
	World   ports.WorldProvider
	Clock   ports.WorldClock
	Tx      ports.TxManager
	Store   ports.MemoryStore
	Maint   memorymaint.UseCase
	Rooms   roomstate.UseCase
	Spawner spawn.UseCase
	Workers worker.Runner
	Journal ports.TickJournal
	Metrics ports.ColonyMetrics
	Logger  ports.Logger
	Now     func() time.Time

	stepMu sync.Mutex
	mu     sync.RWMutex
	last   ports.TickRecord
}

// Last returns the record of the most recent completed Step.
func (l *Loop) Last() ports.TickRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.last
}

// Step runs one tick: snapshot, cleanup, init, room state, spawning, every unit's role once,
// memory write-back, journal, then world advance. Unit faults are recorded in the result and
// never abort the tick; store and world errors do.
func (l *Loop) Step(ctx context.Context) (ports.TickRecord, error) {
	l.stepMu.Lock()
	defer l.stepMu.Unlock()
	nowFn := l.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	started := nowFn()
	metrics := ports.MetricsOrNop(l.Metrics)

	snap, err := l.World.Snapshot(ctx)
	if err != nil {
		return ports.TickRecord{}, fmt.Errorf("snapshot: %w", err)
	}

	rec := ports.TickRecord{Tick: snap.Tick, Units: len(snap.Units)}
	run := func(txCtx context.Context) error {
		return l.runTick(txCtx, snap, &rec)
	}
	if l.Tx != nil {
		err = l.Tx.RunInTx(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		metrics.RecordFailure()
		return rec, fmt.Errorf("tick %d: %w", snap.Tick, err)
	}

	if l.Journal != nil {
		if err := l.Journal.Append(ctx, rec); err != nil {
			ports.LoggerOrDefault(l.Logger).Printf("tick: tick=%d journal append failed: %v", snap.Tick, err)
		}
	}
	if l.Clock != nil {
		if err := l.Clock.Advance(ctx); err != nil {
			return rec, fmt.Errorf("advance world: %w", err)
		}
	}
	metrics.RecordTick(nowFn().Sub(started))

	l.mu.Lock()
	l.last = rec
	l.mu.Unlock()
	return rec, nil
}

func (l *Loop) runTick(ctx context.Context, snap world.Snapshot, rec *ports.TickRecord) error {
	if _, err := l.Maint.Cleanup(ctx, snap); err != nil {
		return err
	}
	if err := l.Maint.Init(ctx, snap); err != nil {
		return err
	}
	if _, err := l.Rooms.Run(ctx, snap); err != nil {
		return err
	}

	memories, err := l.Store.ListCreepMemory(ctx)
	if err != nil {
		return fmt.Errorf("list unit memory: %w", err)
	}
	spawns, err := l.Spawner.Run(ctx, snap, memories)
	rec.Spawns = spawns
	if err != nil {
		return err
	}

	actions, touched, faults := l.Workers.Run(ctx, snap, memories)
	rec.Actions = actions
	for _, f := range faults {
		rec.Errors = append(rec.Errors, f.Error())
	}
	sort.Strings(touched)
	for _, name := range touched {
		if err := l.Store.SaveCreepMemory(ctx, name, memories[name]); err != nil {
			return fmt.Errorf("save unit memory %s: %w", name, err)
		}
	}

	chains, err := l.Store.ListChains(ctx)
	if err != nil {
		return fmt.Errorf("list chains: %w", err)
	}
	rec.Chains = len(chains)
	return nil
}

// Run steps every interval until ctx is done. Step errors are logged and the next tick proceeds.
func (l *Loop) Run(ctx context.Context, interval time.Duration) {
	log := ports.LoggerOrDefault(l.Logger)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := l.Step(ctx); err != nil {
				log.Printf("tick: step failed: %v", err)
			}
		}
	}
}
