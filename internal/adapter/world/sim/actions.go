package sim

import (
	"context"

	"colonyai/internal/domain/world"
)

const (
	harvestPerWork    = 2
	buildPerWork      = 5
	repairPerWork     = 100
	upgradePerWork    = 1
	repairHitsPerUnit = 100
	ticksPerBodyPart  = 3
	unitLifetime      = 1500
	maxBodyParts      = 50
	carryCapacity     = 50
)

// actor resolves a unit that may issue a work action this tick.
func (w *World) actor(name string) (*unitState, *regionState, world.ResultCode) {
	u, ok := w.units[name]
	if !ok {
		return nil, nil, world.ResultNotFound
	}
	if u.Spawning {
		return nil, nil, world.ResultBusy
	}
	if u.acted {
		return nil, nil, world.ResultBusy
	}
	return u, w.regions[u.RegionID], world.ResultOK
}

func (r *regionState) source(id string) *world.Source {
	for _, s := range r.sources {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (r *regionState) structure(id string) *world.Structure {
	for _, s := range r.structures {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (r *regionState) site(id string) (int, *world.ConstructionSite) {
	for i, s := range r.sites {
		if s.ID == id {
			return i, s
		}
	}
	return -1, nil
}

func (r *regionState) drop(id string) (int, *world.DroppedResource) {
	for i, d := range r.drops {
		if d.ID == id {
			return i, d
		}
	}
	return -1, nil
}

func (w *World) Harvest(_ context.Context, unit, sourceID string) world.ResultCode {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, r, code := w.actor(unit)
	if code != world.ResultOK {
		return code
	}
	src := r.source(sourceID)
	if src == nil {
		return world.ResultInvalidTarget
	}
	if !u.Pos.IsNearTo(src.Pos) {
		return world.ResultNotInRange
	}
	work := u.Parts(world.PartWork)
	if work == 0 {
		return world.ResultNoBodypart
	}
	if src.Energy == 0 {
		return world.ResultNotEnoughResources
	}
	if u.Cargo.Free() == 0 {
		return world.ResultFull
	}
	amount := minInt(work*harvestPerWork, src.Energy, u.Cargo.Free())
	if src.Energy == src.EnergyCapacity && src.TicksToRegeneration == 0 {
		src.TicksToRegeneration = w.cfg.SourceRegenTicks
	}
	src.Energy -= amount
	u.Cargo.Energy += amount
	u.acted = true
	return world.ResultOK
}

// Transfer moves energy into a structure or another unit. Amount zero moves as much as fits.
func (w *World) Transfer(_ context.Context, from, to string, amount int) world.ResultCode {
	w.mu.Lock()
	defer w.mu.Unlock()
	if amount < 0 {
		return world.ResultInvalidArgs
	}
	u, r, code := w.actor(from)
	if code != world.ResultOK {
		return code
	}
	var (
		pos  world.Point
		dest *world.Cargo
	)
	if st := r.structure(to); st != nil {
		if st.Store.Capacity == 0 {
			return world.ResultInvalidTarget
		}
		pos, dest = st.Pos, &st.Store
	} else if peer, ok := w.units[to]; ok && peer.RegionID == u.RegionID && to != from {
		if peer.Spawning {
			return world.ResultInvalidTarget
		}
		pos, dest = peer.Pos, &peer.Cargo
	} else {
		return world.ResultInvalidTarget
	}
	if !u.Pos.IsNearTo(pos) {
		return world.ResultNotInRange
	}
	if u.Cargo.Energy == 0 {
		return world.ResultNotEnoughResources
	}
	if dest.Free() == 0 {
		return world.ResultFull
	}
	moved := minInt(u.Cargo.Energy, dest.Free())
	if amount > 0 {
		if amount > u.Cargo.Energy {
			return world.ResultNotEnoughResources
		}
		moved = minInt(moved, amount)
	}
	u.Cargo.Energy -= moved
	dest.Energy += moved
	u.acted = true
	return world.ResultOK
}

func (w *World) Withdraw(_ context.Context, unit, structureID string) world.ResultCode {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, r, code := w.actor(unit)
	if code != world.ResultOK {
		return code
	}
	st := r.structure(structureID)
	if st == nil || st.Store.Capacity == 0 {
		return world.ResultInvalidTarget
	}
	if !u.Pos.IsNearTo(st.Pos) {
		return world.ResultNotInRange
	}
	if st.Store.Energy == 0 {
		return world.ResultNotEnoughResources
	}
	if u.Cargo.Free() == 0 {
		return world.ResultFull
	}
	amount := minInt(st.Store.Energy, u.Cargo.Free())
	st.Store.Energy -= amount
	u.Cargo.Energy += amount
	u.acted = true
	return world.ResultOK
}

func (w *World) Pickup(_ context.Context, unit, dropID string) world.ResultCode {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, r, code := w.actor(unit)
	if code != world.ResultOK {
		return code
	}
	i, d := r.drop(dropID)
	if d == nil {
		return world.ResultInvalidTarget
	}
	if !u.Pos.IsNearTo(d.Pos) {
		return world.ResultNotInRange
	}
	if u.Cargo.Free() == 0 {
		return world.ResultFull
	}
	amount := minInt(d.Amount, u.Cargo.Free())
	d.Amount -= amount
	u.Cargo.Energy += amount
	if d.Amount == 0 {
		r.drops = append(r.drops[:i], r.drops[i+1:]...)
	}
	u.acted = true
	return world.ResultOK
}

// Build converts a finished site into its structure in the same call.
func (w *World) Build(_ context.Context, unit, siteID string) world.ResultCode {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, r, code := w.actor(unit)
	if code != world.ResultOK {
		return code
	}
	i, site := r.site(siteID)
	if site == nil {
		return world.ResultInvalidTarget
	}
	if !u.Pos.InRangeTo(site.Pos, 3) {
		return world.ResultNotInRange
	}
	work := u.Parts(world.PartWork)
	if work == 0 {
		return world.ResultNoBodypart
	}
	if u.Cargo.Energy == 0 {
		return world.ResultNotEnoughResources
	}
	amount := minInt(work*buildPerWork, u.Cargo.Energy, site.ProgressTotal-site.Progress)
	site.Progress += amount
	u.Cargo.Energy -= amount
	u.acted = true
	if site.Progress >= site.ProgressTotal {
		r.sites = append(r.sites[:i], r.sites[i+1:]...)
		r.structures = append(r.structures, w.completed(r.id, site))
	}
	return world.ResultOK
}

func (w *World) completed(regionID string, site *world.ConstructionSite) *world.Structure {
	st := &world.Structure{ID: w.newID(string(site.Kind)), Kind: site.Kind, Pos: site.Pos, RegionID: regionID}
	switch site.Kind {
	case world.StructureExtension:
		st.Store.Capacity = w.cfg.ExtensionCapacity
		st.Hits, st.HitsMax = 1000, 1000
	case world.StructureRoad:
		st.Hits, st.HitsMax = 5000, 5000
	case world.StructureContainer:
		st.Store.Capacity = 2000
		st.Hits, st.HitsMax = 250000, 250000
	case world.StructureTower:
		st.Store.Capacity = 1000
		st.Hits, st.HitsMax = 3000, 3000
	default:
		st.Hits, st.HitsMax = 1000, 1000
	}
	return st
}

// Repair spends one energy per hundred hits restored, rounded up.
func (w *World) Repair(_ context.Context, unit, structureID string) world.ResultCode {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, r, code := w.actor(unit)
	if code != world.ResultOK {
		return code
	}
	st := r.structure(structureID)
	if st == nil || st.HitsMax == 0 {
		return world.ResultInvalidTarget
	}
	if !u.Pos.InRangeTo(st.Pos, 3) {
		return world.ResultNotInRange
	}
	work := u.Parts(world.PartWork)
	if work == 0 {
		return world.ResultNoBodypart
	}
	if u.Cargo.Energy == 0 {
		return world.ResultNotEnoughResources
	}
	missing := st.HitsMax - st.Hits
	if missing <= 0 {
		return world.ResultFull
	}
	hits := minInt(work*repairPerWork, missing, u.Cargo.Energy*repairHitsPerUnit)
	cost := (hits + repairHitsPerUnit - 1) / repairHitsPerUnit
	st.Hits += hits
	u.Cargo.Energy -= cost
	u.acted = true
	return world.ResultOK
}

func (w *World) UpgradeController(_ context.Context, unit, controllerID string) world.ResultCode {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, r, code := w.actor(unit)
	if code != world.ResultOK {
		return code
	}
	c := r.controller
	if c == nil || c.ID != controllerID {
		return world.ResultInvalidTarget
	}
	if !u.Pos.InRangeTo(c.Pos, 3) {
		return world.ResultNotInRange
	}
	work := u.Parts(world.PartWork)
	if work == 0 {
		return world.ResultNoBodypart
	}
	if u.Cargo.Energy == 0 {
		return world.ResultNotEnoughResources
	}
	amount := minInt(work*upgradePerWork, u.Cargo.Energy)
	u.Cargo.Energy -= amount
	c.Progress += amount
	c.TicksToDowngrade = w.cfg.DowngradeTicks
	if total, ok := controllerProgressTotal[c.Level]; ok && c.Progress >= total {
		c.Level++
		c.Progress -= total
		c.ProgressTotal = controllerProgressTotal[c.Level]
	}
	u.acted = true
	return world.ResultOK
}

// Move steps one cell. A unit moves at most once per tick; units may share a cell.
func (w *World) Move(_ context.Context, unit string, next world.Point) world.ResultCode {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.units[unit]
	if !ok {
		return world.ResultNotFound
	}
	if u.Spawning {
		return world.ResultBusy
	}
	if u.moved {
		return world.ResultTired
	}
	if u.Parts(world.PartMove) == 0 {
		return world.ResultNoBodypart
	}
	if !next.InBounds() || next == u.Pos || !u.Pos.IsNearTo(next) {
		return world.ResultInvalidArgs
	}
	r := w.regions[u.RegionID]
	if !w.passable(r, next) {
		return world.ResultInvalidTarget
	}
	u.Pos = next
	u.moved = true
	return world.ResultOK
}

func (w *World) passable(r *regionState, p world.Point) bool {
	if !r.terrain.Walkable(p) {
		return false
	}
	for _, s := range r.sources {
		if s.Pos == p {
			return false
		}
	}
	if r.controller != nil && r.controller.Pos == p {
		return false
	}
	for _, s := range r.structures {
		if s.Pos == p && !s.Kind.Walkable() {
			return false
		}
	}
	return true
}

// SpawnCreep draws the body cost from the spawn first and then from extensions in region order.
func (w *World) SpawnCreep(_ context.Context, spawnID string, body []world.BodyPart, name string, _ world.UnitMemory) world.ResultCode {
	w.mu.Lock()
	defer w.mu.Unlock()
	var (
		r  *regionState
		sp *world.Structure
	)
	for _, id := range w.regionIDs() {
		if st := w.regions[id].structure(spawnID); st != nil && st.Kind == world.StructureSpawn {
			r, sp = w.regions[id], st
			break
		}
	}
	if sp == nil {
		return world.ResultInvalidTarget
	}
	if sp.Spawning != nil {
		return world.ResultBusy
	}
	if name == "" || len(body) == 0 || len(body) > maxBodyParts {
		return world.ResultInvalidArgs
	}
	if _, taken := w.units[name]; taken {
		return world.ResultNameExists
	}
	cost := world.BodyCost(body)
	if regionEnergy(r) < cost {
		return world.ResultNotEnoughResources
	}
	remaining := cost
	for _, st := range append([]*world.Structure{sp}, r.structures...) {
		if remaining == 0 {
			break
		}
		if st.Kind != world.StructureSpawn && st.Kind != world.StructureExtension {
			continue
		}
		take := minInt(st.Store.Energy, remaining)
		st.Store.Energy -= take
		remaining -= take
	}
	sp.Spawning = &world.Spawning{Name: name, RemainingTime: ticksPerBodyPart * len(body)}
	w.units[name] = &unitState{Unit: world.Unit{
		Name:        name,
		Pos:         sp.Pos,
		RegionID:    r.id,
		Body:        append([]world.BodyPart(nil), body...),
		Cargo:       world.Cargo{Capacity: world.CountParts(body, world.PartCarry) * carryCapacity},
		Spawning:    true,
		TicksToLive: unitLifetime,
	}}
	return world.ResultOK
}

func regionEnergy(r *regionState) int {
	total := 0
	for _, st := range r.structures {
		if st.Kind == world.StructureSpawn || st.Kind == world.StructureExtension {
			total += st.Store.Energy
		}
	}
	return total
}

func minInt(v int, rest ...int) int {
	for _, o := range rest {
		if o < v {
			v = o
		}
	}
	return v
}
