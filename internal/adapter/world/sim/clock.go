package sim

import (
	"context"
	"sort"

	"colonyai/internal/domain/world"
)

func (w *World) Snapshot(_ context.Context) (world.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked(), nil
}

func (w *World) Tick() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

// Advance closes the current tick: spawns progress, units age, sources and spawns regenerate,
// drops decay and per-tick action budgets reset.
func (w *World) Advance(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tick++
	for _, id := range w.regionIDs() {
		r := w.regions[id]
		w.advanceSpawns(r)
		w.advanceSources(r)
		w.advanceEnergy(r)
		w.advanceDecay(r)
		if c := r.controller; c != nil && c.TicksToDowngrade > 0 {
			c.TicksToDowngrade--
		}
	}
	w.advanceUnits()
	return nil
}

func (w *World) advanceSpawns(r *regionState) {
	for _, sp := range r.structures {
		if sp.Spawning == nil {
			continue
		}
		sp.Spawning.RemainingTime--
		if sp.Spawning.RemainingTime > 0 {
			continue
		}
		if u, ok := w.units[sp.Spawning.Name]; ok {
			u.Spawning = false
			u.Pos = w.exitCell(r, sp.Pos)
		}
		sp.Spawning = nil
	}
}

// exitCell picks the first passable neighbour of a spawn in N, NE, E, ... order.
func (w *World) exitCell(r *regionState, p world.Point) world.Point {
	dirs := []world.Point{{X: 0, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: 0}, {X: -1, Y: -1}}
	for _, d := range dirs {
		next := world.Point{X: p.X + d.X, Y: p.Y + d.Y}
		if next.InBounds() && w.passable(r, next) {
			return next
		}
	}
	return p
}

func (w *World) advanceSources(r *regionState) {
	for _, s := range r.sources {
		if s.TicksToRegeneration == 0 {
			continue
		}
		s.TicksToRegeneration--
		if s.TicksToRegeneration == 0 {
			s.Energy = s.EnergyCapacity
		}
	}
}

func (w *World) advanceEnergy(r *regionState) {
	if w.cfg.SpawnRegenPerTick <= 0 || regionEnergy(r) >= w.cfg.SpawnCapacity {
		return
	}
	for _, st := range r.structures {
		if st.Kind == world.StructureSpawn && st.Store.Energy < st.Store.Capacity {
			st.Store.Energy = minInt(st.Store.Energy+w.cfg.SpawnRegenPerTick, st.Store.Capacity)
		}
	}
}

func (w *World) advanceDecay(r *regionState) {
	kept := r.drops[:0]
	for _, d := range r.drops {
		d.Amount -= (d.Amount + w.cfg.DropDecayDivisor - 1) / w.cfg.DropDecayDivisor
		if d.Amount > 0 {
			kept = append(kept, d)
		}
	}
	r.drops = kept
	if w.cfg.RoadDecayAmount <= 0 || w.tick%int64(w.cfg.RoadDecayInterval) != 0 {
		return
	}
	for _, st := range r.structures {
		if st.Kind == world.StructureRoad && st.Hits > 0 {
			st.Hits -= minInt(w.cfg.RoadDecayAmount, st.Hits)
		}
	}
}

// advanceUnits ages every spawned unit; expired units drop their cargo where they stood.
func (w *World) advanceUnits() {
	names := make([]string, 0, len(w.units))
	for name := range w.units {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		u := w.units[name]
		u.acted, u.moved = false, false
		if u.Spawning {
			continue
		}
		u.TicksToLive--
		if u.TicksToLive > 0 {
			continue
		}
		if u.Cargo.Energy > 0 {
			r := w.regions[u.RegionID]
			r.drops = append(r.drops, &world.DroppedResource{ID: w.newID("drop"), Pos: u.Pos, Amount: u.Cargo.Energy})
		}
		delete(w.units, name)
	}
}

// Kill removes a unit immediately, the way an external death would.
func (w *World) Kill(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.units[name]
	if !ok {
		return false
	}
	if u.Spawning {
		for _, st := range w.regions[u.RegionID].structures {
			if st.Spawning != nil && st.Spawning.Name == name {
				st.Spawning = nil
			}
		}
	}
	delete(w.units, name)
	return true
}
