// Package mock serves a fixed world and records every primitive issued against it.
package mock

import (
	"context"
	"fmt"
	"sync"

	"colonyai/internal/domain/world"
)

type Provider struct {
	World world.Snapshot
	Err   error
}

func (p Provider) Snapshot(_ context.Context) (world.Snapshot, error) {
	if p.Err != nil {
		return world.Snapshot{}, p.Err
	}
	return p.World, nil
}

// Call is one recorded primitive. Args holds the remaining arguments rendered with %v.
type Call struct {
	Op     string
	Actor  string
	Target string
	Args   string
}

// Actuator answers every call with Codes[op] (default OK) and remembers the call.
type Actuator struct {
	mu    sync.Mutex
	Codes map[string]world.ResultCode
	Calls []Call
}

func (a *Actuator) record(op, actor, target, args string) world.ResultCode {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls = append(a.Calls, Call{Op: op, Actor: actor, Target: target, Args: args})
	if code, ok := a.Codes[op]; ok {
		return code
	}
	return world.ResultOK
}

// Ops lists recorded calls matching op, in issue order.
func (a *Actuator) Ops(op string) []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Call, 0)
	for _, c := range a.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (a *Actuator) Harvest(_ context.Context, unit, sourceID string) world.ResultCode {
	return a.record("harvest", unit, sourceID, "")
}

func (a *Actuator) Transfer(_ context.Context, from, to string, amount int) world.ResultCode {
	return a.record("transfer", from, to, fmt.Sprint(amount))
}

func (a *Actuator) Withdraw(_ context.Context, unit, structureID string) world.ResultCode {
	return a.record("withdraw", unit, structureID, "")
}

func (a *Actuator) Pickup(_ context.Context, unit, dropID string) world.ResultCode {
	return a.record("pickup", unit, dropID, "")
}

func (a *Actuator) Build(_ context.Context, unit, siteID string) world.ResultCode {
	return a.record("build", unit, siteID, "")
}

func (a *Actuator) Repair(_ context.Context, unit, structureID string) world.ResultCode {
	return a.record("repair", unit, structureID, "")
}

func (a *Actuator) UpgradeController(_ context.Context, unit, controllerID string) world.ResultCode {
	return a.record("upgrade", unit, controllerID, "")
}

func (a *Actuator) Move(_ context.Context, unit string, next world.Point) world.ResultCode {
	return a.record("move", unit, "", fmt.Sprintf("%d,%d", next.X, next.Y))
}

func (a *Actuator) SpawnCreep(_ context.Context, spawnID string, body []world.BodyPart, name string, mem world.UnitMemory) world.ResultCode {
	return a.record("spawn", spawnID, name, fmt.Sprintf("%v|%s", body, mem.Role))
}
