package memorymaint

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"colonyai/internal/adapter/repo/kv"
	"colonyai/internal/adapter/repo/memory"
	"colonyai/internal/app/ports"
	"colonyai/internal/domain/chain"
	"colonyai/internal/domain/role"
	"colonyai/internal/domain/world"
)

var quiet = log.New(io.Discard, "", 0)

func liveSnapshot(units ...string) world.Snapshot {
	snap := world.Snapshot{
		Tick: 5,
		Regions: map[string]world.Region{
			"W1N1": {ID: "W1N1", Sources: []world.Source{{ID: "src1", RegionID: "W1N1"}}},
		},
		Units: map[string]world.Unit{},
	}
	for _, n := range units {
		snap.Units[n] = world.Unit{Name: n, RegionID: "W1N1"}
	}
	return snap
}

func TestInit_SeedsOnce(t *testing.T) {
	store := kv.NewStore(memory.NewStore())
	uc := UseCase{Store: store, Logger: quiet}
	ctx := context.Background()

	if err := uc.Init(ctx, liveSnapshot()); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := store.GetColonyConfig(ctx)
	if err != nil || cfg.CreepRoles[role.Harvester].MinCount != 2 {
		t.Fatalf("expected default colony config, got %+v err=%v", cfg, err)
	}
	if _, err := store.GetRoomMemory(ctx, "W1N1"); err != nil {
		t.Fatalf("expected room memory seeded, got %v", err)
	}

	cfg.CreepRoles[role.Harvester] = cfg.CreepRoles[role.Upgrader]
	_ = store.SaveColonyConfig(ctx, cfg)
	if err := uc.Init(ctx, liveSnapshot()); err != nil {
		t.Fatalf("init again: %v", err)
	}
	again, _ := store.GetColonyConfig(ctx)
	if again.CreepRoles[role.Harvester].MinCount != 3 {
		t.Fatalf("expected existing config kept, got %+v", again.CreepRoles[role.Harvester])
	}
}

func TestCleanup_PrunesDeadUnitsAndBlanksSlots(t *testing.T) {
	store := kv.NewStore(memory.NewStore())
	uc := UseCase{Store: store, Logger: quiet}
	ctx := context.Background()

	rec := chain.Record{
		SourceID:      "src1",
		BasePos:       world.RoomPosition{X: 25, Y: 25, RegionID: "W1N1"},
		NodePositions: []world.Point{{X: 10, Y: 10}, {X: 25, Y: 25}},
		CreepNames:    []string{"alive", "dead"},
	}
	_ = store.CreateChain(ctx, "src1", rec)
	_ = store.SaveCreepMemory(ctx, "alive", world.UnitMemory{Role: role.Head, ChainID: "src1"})
	_ = store.SaveCreepMemory(ctx, "dead", world.UnitMemory{Role: role.Tail, ChainID: "src1", NodeIndex: 1})

	report, err := uc.Cleanup(ctx, liveSnapshot("alive"))
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if len(report.DeadUnits) != 1 || report.DeadUnits[0] != "dead" || report.BlankedSlots != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if _, err := store.GetCreepMemory(ctx, "dead"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected dead memory removed, got %v", err)
	}
	got, _ := store.GetChain(ctx, "src1")
	if got.Slot(0) != "alive" || got.Slot(1) != "" {
		t.Fatalf("expected dead slot blanked, got %+v", got.CreepNames)
	}
}

func TestCleanup_DropsChainsForVanishedSourcesAndRooms(t *testing.T) {
	store := kv.NewStore(memory.NewStore())
	uc := UseCase{Store: store, Logger: quiet}
	ctx := context.Background()

	gone := chain.Record{
		SourceID:      "src-gone",
		BasePos:       world.RoomPosition{X: 25, Y: 25, RegionID: "W1N1"},
		NodePositions: []world.Point{{X: 25, Y: 25}},
		CreepNames:    []string{""},
	}
	elsewhere := gone
	elsewhere.SourceID = "src-far"
	elsewhere.BasePos.RegionID = "W9N9"
	_ = store.CreateChain(ctx, "src-gone", gone)
	_ = store.CreateChain(ctx, "src-far", elsewhere)
	_ = store.SaveRoomMemory(ctx, "W9N9", ports.RoomMemory{})

	report, err := uc.Cleanup(ctx, liveSnapshot())
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if len(report.DroppedChains) != 1 || report.DroppedChains[0] != "src-gone" {
		t.Fatalf("expected only the visible vanished chain dropped, got %+v", report)
	}
	if _, err := store.GetChain(ctx, "src-far"); err != nil {
		t.Fatalf("expected chain in unseen region kept, got %v", err)
	}
	if len(report.DroppedRooms) != 1 || report.DroppedRooms[0] != "W9N9" {
		t.Fatalf("expected W9N9 room memory dropped, got %+v", report.DroppedRooms)
	}
}
