// Package movement steps units along cached paths kept in their memory.
package movement

import (
	"context"

	"colonyai/internal/app/ports"
	"colonyai/internal/domain/pathing"
	"colonyai/internal/domain/world"
)

const DefaultReuseTicks = 50

type Mover struct {
	World      ports.Actuator
	ReuseTicks int
	PlainCost  int
	SwampCost  int
}

// MoveTo issues one step toward dest, stopping within rng. mem.Move is rewritten whenever the
// route is replanned, which happens when the destination changes, the unit has left the cached
// path, or the cache is older than ReuseTicks.
func (m Mover) MoveTo(ctx context.Context, snap world.Snapshot, unit world.Unit, mem *world.UnitMemory, dest world.Point, rng int) world.ResultCode {
	if unit.Pos.InRangeTo(dest, rng) {
		mem.Move = nil
		return world.ResultOK
	}
	next, ok := m.cachedStep(snap.Tick, unit, mem.Move, dest, rng)
	if !ok {
		region, _ := snap.Region(unit.RegionID)
		terrain := region.Terrain
		if terrain == nil {
			terrain = world.NewTerrain()
		}
		res := pathing.Search(terrain, unit.Pos, dest, pathing.Options{
			Range:     rng,
			PlainCost: m.PlainCost,
			SwampCost: m.SwampCost,
			Blocked:   Obstacles(region, dest),
		})
		if res.Incomplete || len(res.Path) == 0 {
			mem.Move = nil
			return world.ResultNoPath
		}
		mem.Move = &world.MoveCache{Dest: dest, Range: rng, Path: res.Path, PlannedAt: snap.Tick}
		next = res.Path[0]
	}
	return m.World.Move(ctx, unit.Name, next)
}

func (m Mover) reuse() int64 {
	if m.ReuseTicks <= 0 {
		return DefaultReuseTicks
	}
	return int64(m.ReuseTicks)
}

func (m Mover) cachedStep(tick int64, unit world.Unit, cache *world.MoveCache, dest world.Point, rng int) (world.Point, bool) {
	if cache == nil || cache.Dest != dest || cache.Range != rng || len(cache.Path) == 0 {
		return world.Point{}, false
	}
	if tick-cache.PlannedAt >= m.reuse() {
		return world.Point{}, false
	}
	for i, p := range cache.Path {
		if p == unit.Pos {
			if i+1 < len(cache.Path) {
				return cache.Path[i+1], true
			}
			return world.Point{}, false
		}
	}
	if unit.Pos.IsNearTo(cache.Path[0]) {
		return cache.Path[0], true
	}
	return world.Point{}, false
}

// Obstacles blocks sources and non-walkable structures. dest stays open so a unit can stand on
// its own node.
func Obstacles(region world.Region, dest world.Point) func(world.Point) bool {
	blocked := make(map[world.Point]bool, len(region.Sources)+len(region.Structures))
	for _, s := range region.Sources {
		blocked[s.Pos] = true
	}
	if region.Controller != nil {
		blocked[region.Controller.Pos] = true
	}
	for _, s := range region.Structures {
		if !s.Kind.Walkable() {
			blocked[s.Pos] = true
		}
	}
	delete(blocked, dest)
	return func(p world.Point) bool { return blocked[p] }
}
