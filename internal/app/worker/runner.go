// Package worker runs each live unit's role handler once per tick.
package worker

import (
	"context"
	"errors"
	"fmt"

	"colonyai/internal/app/movement"
	"colonyai/internal/app/ports"
	"colonyai/internal/domain/behavior"
	"colonyai/internal/domain/chain"
	"colonyai/internal/domain/role"
	"colonyai/internal/domain/world"
)

type Runner struct {
	World   ports.Actuator
	Chains  ports.ChainRepository
	Mover   movement.Mover
	Metrics ports.ColonyMetrics
	Logger  ports.Logger
}

// tickState is shared by every handler within one Run.
type tickState struct {
	snap     world.Snapshot
	memories map[string]world.UnitMemory
	chains   map[string]chain.Record
	touched  map[string]bool
	outcomes []ports.ActionOutcome
	faults   []error
}

// Run dispatches every fully spawned unit with memory, in name order. Faults are logged,
// counted and returned alongside the outcomes; they never stop the pass. memories is updated in
// place and the names whose memory changed are returned in touched.
func (r Runner) Run(ctx context.Context, snap world.Snapshot, memories map[string]world.UnitMemory) (outcomes []ports.ActionOutcome, touched []string, faults []error) {
	st := &tickState{
		snap:     snap,
		memories: memories,
		chains:   make(map[string]chain.Record),
		touched:  make(map[string]bool),
		outcomes: make([]ports.ActionOutcome, 0),
	}
	for _, name := range snap.UnitNames() {
		u, _ := snap.Unit(name)
		if u.Spawning {
			continue
		}
		mem, ok := memories[name]
		if !ok {
			continue
		}
		u.Memory = mem
		if err := r.runUnit(ctx, st, u); err != nil {
			ports.MetricsOrNop(r.Metrics).RecordFailure()
			ports.LoggerOrDefault(r.Logger).Printf("worker: tick=%d unit=%s fault: %v", snap.Tick, name, err)
			st.faults = append(st.faults, err)
		}
	}
	for name := range st.touched {
		touched = append(touched, name)
	}
	return st.outcomes, touched, st.faults
}

func (r Runner) runUnit(ctx context.Context, st *tickState, u world.Unit) error {
	switch u.Memory.Role {
	case role.Head, role.Relay, role.Tail:
		return r.runNode(ctx, st, u)
	case role.Harvester:
		return r.apply(ctx, st, u, behavior.DecideHarvester(st.snap, u))
	case role.Upgrader:
		return r.apply(ctx, st, u, behavior.DecideUpgrader(st.snap, u))
	case role.Builder:
		return r.apply(ctx, st, u, behavior.DecideBuilder(st.snap, u))
	default:
		return fmt.Errorf("unit %s: %w %q", u.Name, ErrUnknownRole, u.Memory.Role)
	}
}

func (r Runner) chain(ctx context.Context, st *tickState, id string) (chain.Record, bool, error) {
	if rec, ok := st.chains[id]; ok {
		return rec, true, nil
	}
	rec, err := r.Chains.GetChain(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return chain.Record{}, false, nil
	}
	if err != nil {
		return chain.Record{}, false, fmt.Errorf("load chain %s: %w", id, err)
	}
	st.chains[id] = rec
	return rec, true, nil
}

// runNode validates the unit's slot and runs the role's transfer step from the node. A unit off
// its node finishes carrying its cargo downstream before walking back.
func (r Runner) runNode(ctx context.Context, st *tickState, u world.Unit) error {
	mem := u.Memory
	rec, ok, err := r.chain(ctx, st, mem.ChainID)
	if err != nil {
		return err
	}
	if !ok {
		return &MissingChainError{Unit: u.Name, ChainID: mem.ChainID}
	}
	idx := mem.NodeIndex
	if !rec.InBounds(idx) || rec.RoleAt(idx) != mem.Role {
		return &InvalidNodeIndexError{Unit: u.Name, ChainID: mem.ChainID, Index: idx, Len: rec.Len(), Role: mem.Role}
	}

	node, _ := rec.NodePos(idx)
	if u.RegionID != node.RegionID || u.Pos != node.Point() {
		if in, carrying := behavior.DecideCarry(rec, st.snap, u, idx); carrying {
			return r.execute(ctx, st, u.Name, in)
		}
		code := r.Mover.MoveTo(ctx, st.snap, u, &mem, node.Point(), 0)
		r.saveMemory(st, u.Name, mem)
		r.outcome(st, u.Name, behavior.Intent{Type: behavior.IntentMove, Actor: u.Name, TargetPos: node.Point()}, code)
		return nil
	}
	if mem.Move != nil {
		mem.Move = nil
		r.saveMemory(st, u.Name, mem)
	}

	var in behavior.Intent
	switch mem.Role {
	case role.Head:
		in, err = behavior.DecideHead(rec, st.snap, u)
		if err != nil {
			return fmt.Errorf("unit %s chain %s: %w", u.Name, mem.ChainID, err)
		}
	case role.Relay:
		in = behavior.DecideRelay(rec, st.snap, u, idx)
	case role.Tail:
		in = behavior.DecideTail(rec, st.snap, u, idx)
	}
	return r.execute(ctx, st, u.Name, in)
}

// apply persists the population decision's memory, then executes its intent.
func (r Runner) apply(ctx context.Context, st *tickState, u world.Unit, d behavior.Decision) error {
	r.saveMemory(st, u.Name, d.Memory)
	return r.execute(ctx, st, u.Name, d.Intent)
}

// execute issues the intent's primitive for its actor. A not-in-range answer moves the actor
// toward the target in the same tick.
func (r Runner) execute(ctx context.Context, st *tickState, unit string, in behavior.Intent) error {
	if in.Type == behavior.IntentIdle {
		r.outcome(st, unit, in, "")
		return nil
	}
	var code world.ResultCode
	switch in.Type {
	case behavior.IntentHarvest:
		code = r.World.Harvest(ctx, in.Actor, in.Target)
	case behavior.IntentTransfer:
		code = r.World.Transfer(ctx, in.Actor, in.Target, 0)
	case behavior.IntentWithdraw:
		code = r.World.Withdraw(ctx, in.Actor, in.Target)
	case behavior.IntentPickup:
		code = r.World.Pickup(ctx, in.Actor, in.Target)
	case behavior.IntentBuild:
		code = r.World.Build(ctx, in.Actor, in.Target)
	case behavior.IntentRepair:
		code = r.World.Repair(ctx, in.Actor, in.Target)
	case behavior.IntentUpgrade:
		code = r.World.UpgradeController(ctx, in.Actor, in.Target)
	default:
		return fmt.Errorf("unit %s: unsupported intent %q", unit, in.Type)
	}
	r.outcome(st, unit, in, code)

	switch code {
	case world.ResultOK, world.ResultBusy, world.ResultTired:
		return nil
	case world.ResultNotInRange:
		actor, ok := st.snap.Unit(in.Actor)
		if !ok {
			return nil
		}
		mem, known := st.memories[in.Actor]
		var moveCode world.ResultCode
		if known && mem.Role.IsChainNode() {
			// Hand-off legs plan from scratch; the unit's cache keeps the route to its node.
			var leg world.UnitMemory
			moveCode = r.Mover.MoveTo(ctx, st.snap, actor, &leg, in.TargetPos, in.Range)
		} else {
			moveCode = r.Mover.MoveTo(ctx, st.snap, actor, &mem, in.TargetPos, in.Range)
			if known {
				r.saveMemory(st, in.Actor, mem)
			}
		}
		r.outcome(st, unit, behavior.Intent{Type: behavior.IntentMove, Actor: in.Actor, Target: in.Target, TargetPos: in.TargetPos}, moveCode)
		return nil
	default:
		ports.LoggerOrDefault(r.Logger).Printf("worker: tick=%d unit=%s actor=%s %s %s failed code=%s", st.snap.Tick, unit, in.Actor, in.Type, in.Target, code)
		return nil
	}
}

func (r Runner) saveMemory(st *tickState, name string, mem world.UnitMemory) {
	st.memories[name] = mem
	st.touched[name] = true
}

func (r Runner) outcome(st *tickState, unit string, in behavior.Intent, code world.ResultCode) {
	if code != "" {
		ports.MetricsOrNop(r.Metrics).RecordAction(string(in.Type), code)
	}
	st.outcomes = append(st.outcomes, ports.ActionOutcome{
		Unit:   unit,
		Action: string(in.Type),
		Actor:  in.Actor,
		Target: in.Target,
		Code:   code,
		Reason: in.Reason,
	})
}
