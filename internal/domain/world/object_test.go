package world

import "testing"

func TestStructureValidity(t *testing.T) {
	s := Structure{ID: "Spawn1", Kind: StructureSpawn, Pos: Point{X: 20, Y: 20}, Store: Cargo{Energy: 300, Capacity: 300}, Hits: 5000, HitsMax: 5000}
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid structure, got %v", err)
	}

	bad := Structure{ID: "", Kind: StructureSpawn, Store: Cargo{Energy: 400, Capacity: 300}}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected invalid structure")
	}
}

func TestRegionEnergyAvailableCountsSpawnsAndExtensions(t *testing.T) {
	r := Region{Structures: []Structure{
		{ID: "s1", Kind: StructureSpawn, Store: Cargo{Energy: 200, Capacity: 300}},
		{ID: "e1", Kind: StructureExtension, Store: Cargo{Energy: 50, Capacity: 50}},
		{ID: "st", Kind: StructureStorage, Store: Cargo{Energy: 9000, Capacity: 1000000}},
	}}
	if got := r.EnergyAvailable(); got != 250 {
		t.Fatalf("expected 250 available, got %d", got)
	}
	if got := r.EnergyCapacityAvailable(); got != 350 {
		t.Fatalf("expected 350 capacity, got %d", got)
	}
}

func TestStructuresOfKeepsRegionOrder(t *testing.T) {
	r := Region{Structures: []Structure{
		{ID: "ext-1", Kind: StructureExtension},
		{ID: "spawn-1", Kind: StructureSpawn},
		{ID: "tower-1", Kind: StructureTower},
		{ID: "ext-2", Kind: StructureExtension},
	}}
	got := r.StructuresOf(nil, StructureSpawn, StructureExtension)
	if len(got) != 3 || got[0].ID != "ext-1" || got[1].ID != "spawn-1" || got[2].ID != "ext-2" {
		t.Fatalf("unexpected order: %+v", got)
	}
}
