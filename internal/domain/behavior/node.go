package behavior

import (
	"colonyai/internal/domain/chain"
	"colonyai/internal/domain/role"
	"colonyai/internal/domain/world"
)

var deliveryKinds = []world.StructureKind{world.StructureSpawn, world.StructureExtension, world.StructureTower}

// neighbour resolves slot i to a live, fully spawned unit.
func neighbour(rec chain.Record, snap world.Snapshot, i int) (world.Unit, bool) {
	if !rec.InBounds(i) {
		return world.Unit{}, false
	}
	u, ok := snap.Unit(rec.Slot(i))
	if !ok || u.Spawning {
		return world.Unit{}, false
	}
	return u, true
}

func hasFree(s world.Structure) bool { return s.Store.Free() > 0 }

// DeliveryTarget picks the first structure with free capacity, scanning spawns, then extensions,
// then towers. Within a kind, region order wins; distance is not considered.
func DeliveryTarget(region world.Region) (world.Structure, bool) {
	for _, kind := range deliveryKinds {
		if found := region.StructuresOf(hasFree, kind); len(found) > 0 {
			return found[0], true
		}
	}
	return world.Structure{}, false
}

func firstStorage(region world.Region) (world.Structure, bool) {
	found := region.StructuresOf(hasFree, world.StructureStorage)
	if len(found) == 0 {
		return world.Structure{}, false
	}
	return found[0], true
}

func transfer(from world.Unit, to string, toPos world.Point) Intent {
	return Intent{Type: IntentTransfer, Actor: from.Name, Target: to, TargetPos: toPos, Range: RangeAdjacent}
}

// DecideHead harvests until full, then hands the load to slot 1. A full head with nowhere to
// hand off holds its cargo.
func DecideHead(rec chain.Record, snap world.Snapshot, self world.Unit) (Intent, error) {
	src, ok := snap.Source(rec.SourceID)
	if !ok {
		return idle(self.Name, ReasonNoTarget), ErrMissingSource
	}
	if self.Cargo.Free() > 0 {
		return Intent{Type: IntentHarvest, Actor: self.Name, Target: src.ID, TargetPos: src.Pos, Range: RangeAdjacent}, nil
	}
	next, ok := neighbour(rec, snap, 1)
	if !ok || next.Cargo.Free() == 0 {
		return idle(self.Name, ReasonHold), nil
	}
	return transfer(self, next.Name, next.Pos), nil
}

// DecideRelay pulls from i-1 while it has room and pushes to i+1 once full.
func DecideRelay(rec chain.Record, snap world.Snapshot, self world.Unit, i int) Intent {
	if self.Cargo.Free() > 0 {
		prev, ok := neighbour(rec, snap, i-1)
		if !ok || prev.Cargo.Empty() {
			return idle(self.Name, ReasonUpstreamEmpty)
		}
		return transfer(prev, self.Name, self.Pos)
	}
	next, ok := neighbour(rec, snap, i+1)
	if !ok || next.Cargo.Free() == 0 {
		return idle(self.Name, ReasonDownstreamFull)
	}
	return transfer(self, next.Name, next.Pos)
}

// DecideTail delivers to base structures, otherwise pulls from i-1, otherwise overflows into
// storage. Overflow needs cargo exactly at capacity.
func DecideTail(rec chain.Record, snap world.Snapshot, self world.Unit, i int) Intent {
	region, _ := snap.Region(rec.BasePos.RegionID)
	target, hasTarget := DeliveryTarget(region)
	switch {
	case hasTarget && self.Cargo.Energy > 0:
		return transfer(self, target.ID, target.Pos)
	case self.Cargo.Free() > 0:
		prev, ok := neighbour(rec, snap, i-1)
		if !ok || prev.Cargo.Empty() {
			return idle(self.Name, ReasonUpstreamEmpty)
		}
		return transfer(prev, self.Name, self.Pos)
	case self.Cargo.Full():
		storage, ok := firstStorage(region)
		if !ok {
			return idle(self.Name, ReasonNoDeliveryTarget)
		}
		return transfer(self, storage.ID, storage.Pos)
	default:
		return idle(self.Name, ReasonNoDeliveryTarget)
	}
}

// DecideCarry is the outgoing hand-off a unit standing off its node keeps working on: while it
// holds energy and its receiver has room it keeps closing on that receiver. ok is false once the
// unit should walk back to its node instead.
func DecideCarry(rec chain.Record, snap world.Snapshot, self world.Unit, i int) (Intent, bool) {
	if self.Cargo.Empty() {
		return Intent{}, false
	}
	if rec.RoleAt(i) == role.Tail {
		in := DecideTail(rec, snap, self, i)
		return in, in.Type == IntentTransfer && in.Actor == self.Name
	}
	next, ok := neighbour(rec, snap, i+1)
	if !ok || next.Cargo.Free() == 0 {
		return Intent{}, false
	}
	return transfer(self, next.Name, next.Pos), true
}
