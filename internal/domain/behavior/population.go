package behavior

import (
	"sort"

	"colonyai/internal/domain/world"
)

const (
	ContainerWithdrawThreshold = 500
	DropPickupThreshold        = 50
)

// toggleWorking flips to working once full and back to refuelling once empty.
func toggleWorking(self world.Unit) world.UnitMemory {
	mem := self.Memory
	if mem.Working && self.Cargo.Empty() {
		mem.Working = false
	} else if !mem.Working && self.Cargo.Free() == 0 {
		mem.Working = true
	}
	return mem
}

func upgrade(self world.Unit, region world.Region) (Intent, bool) {
	if region.Controller == nil {
		return Intent{}, false
	}
	c := region.Controller
	return Intent{Type: IntentUpgrade, Actor: self.Name, Target: c.ID, TargetPos: c.Pos, Range: RangeRemote}, true
}

// pickSource keeps the remembered source while it exists, else the first one with energy left.
func pickSource(self world.Unit, region world.Region) (world.Source, bool) {
	if self.Memory.SourceID != "" {
		for _, s := range region.Sources {
			if s.ID == self.Memory.SourceID {
				return s, true
			}
		}
	}
	for _, s := range region.Sources {
		if s.Energy > 0 {
			return s, true
		}
	}
	if len(region.Sources) > 0 {
		return region.Sources[0], true
	}
	return world.Source{}, false
}

func harvest(self world.Unit, region world.Region, mem *world.UnitMemory) Intent {
	src, ok := pickSource(self, region)
	if !ok {
		return idle(self.Name, ReasonNoTarget)
	}
	mem.SourceID = src.ID
	return Intent{Type: IntentHarvest, Actor: self.Name, Target: src.ID, TargetPos: src.Pos, Range: RangeAdjacent}
}

// refuel draws from storage, then a well-stocked container, then a large drop, then harvests.
func refuel(self world.Unit, region world.Region, mem *world.UnitMemory) Intent {
	withdrawable := func(s world.Structure) bool { return s.Store.Energy > 0 }
	if found := region.StructuresOf(withdrawable, world.StructureStorage); len(found) > 0 {
		s := found[0]
		return Intent{Type: IntentWithdraw, Actor: self.Name, Target: s.ID, TargetPos: s.Pos, Range: RangeAdjacent}
	}
	stocked := func(s world.Structure) bool { return s.Store.Energy > ContainerWithdrawThreshold }
	if found := region.StructuresOf(stocked, world.StructureContainer); len(found) > 0 {
		s := found[0]
		return Intent{Type: IntentWithdraw, Actor: self.Name, Target: s.ID, TargetPos: s.Pos, Range: RangeAdjacent}
	}
	for _, d := range region.Drops {
		if d.Amount > DropPickupThreshold {
			return Intent{Type: IntentPickup, Actor: self.Name, Target: d.ID, TargetPos: d.Pos, Range: RangeAdjacent}
		}
	}
	return harvest(self, region, mem)
}

// DecideHarvester mines a source and fills spawns, extensions and towers, falling back to
// storage and finally the controller.
func DecideHarvester(snap world.Snapshot, self world.Unit) Decision {
	mem := toggleWorking(self)
	region, _ := snap.Region(self.RegionID)
	if !mem.Working {
		return Decision{Intent: harvest(self, region, &mem), Memory: mem}
	}
	if target, ok := DeliveryTarget(region); ok {
		return Decision{Intent: transfer(self, target.ID, target.Pos), Memory: mem}
	}
	if storage, ok := firstStorage(region); ok {
		return Decision{Intent: transfer(self, storage.ID, storage.Pos), Memory: mem}
	}
	if in, ok := upgrade(self, region); ok {
		return Decision{Intent: in, Memory: mem}
	}
	return Decision{Intent: idle(self.Name, ReasonNoDeliveryTarget), Memory: mem}
}

func DecideUpgrader(snap world.Snapshot, self world.Unit) Decision {
	mem := toggleWorking(self)
	region, _ := snap.Region(self.RegionID)
	if !mem.Working {
		return Decision{Intent: refuel(self, region, &mem), Memory: mem}
	}
	if in, ok := upgrade(self, region); ok {
		return Decision{Intent: in, Memory: mem}
	}
	return Decision{Intent: idle(self.Name, ReasonNoTarget), Memory: mem}
}

// DecideBuilder builds spawn and extension sites first, then any site, then repairs, then upgrades.
func DecideBuilder(snap world.Snapshot, self world.Unit) Decision {
	mem := toggleWorking(self)
	region, _ := snap.Region(self.RegionID)
	if !mem.Working {
		return Decision{Intent: refuel(self, region, &mem), Memory: mem}
	}
	if site, ok := BuildTarget(region); ok {
		return Decision{Intent: Intent{Type: IntentBuild, Actor: self.Name, Target: site.ID, TargetPos: site.Pos, Range: RangeRemote}, Memory: mem}
	}
	if s, ok := RepairTarget(region); ok {
		return Decision{Intent: Intent{Type: IntentRepair, Actor: self.Name, Target: s.ID, TargetPos: s.Pos, Range: RangeRemote}, Memory: mem}
	}
	if in, ok := upgrade(self, region); ok {
		return Decision{Intent: in, Memory: mem}
	}
	return Decision{Intent: idle(self.Name, ReasonNoTarget), Memory: mem}
}

func BuildTarget(region world.Region) (world.ConstructionSite, bool) {
	for _, s := range region.Sites {
		if s.Kind == world.StructureSpawn || s.Kind == world.StructureExtension {
			return s, true
		}
	}
	if len(region.Sites) > 0 {
		return region.Sites[0], true
	}
	return world.ConstructionSite{}, false
}

func critical(k world.StructureKind) bool {
	switch k {
	case world.StructureSpawn, world.StructureExtension, world.StructureTower, world.StructureStorage:
		return true
	default:
		return false
	}
}

// RepairTarget picks a damaged structure, critical kinds first, then the lowest hit ratio.
// Walls and ramparts are never repaired.
func RepairTarget(region world.Region) (world.Structure, bool) {
	damaged := make([]world.Structure, 0)
	for _, s := range region.Structures {
		if s.Kind == world.StructureWall || s.Kind == world.StructureRampart {
			continue
		}
		if s.HitsMax > 0 && s.Hits < s.HitsMax {
			damaged = append(damaged, s)
		}
	}
	if len(damaged) == 0 {
		return world.Structure{}, false
	}
	sort.SliceStable(damaged, func(i, j int) bool {
		a, b := damaged[i], damaged[j]
		if critical(a.Kind) != critical(b.Kind) {
			return critical(a.Kind)
		}
		return a.Hits*b.HitsMax < b.Hits*a.HitsMax
	})
	return damaged[0], true
}
