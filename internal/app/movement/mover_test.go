package movement

import (
	"context"
	"testing"

	"colonyai/internal/adapter/world/mock"
	"colonyai/internal/domain/world"
)

func moverSnapshot(tick int64) world.Snapshot {
	return world.Snapshot{
		Tick: tick,
		Regions: map[string]world.Region{
			"W1N1": {ID: "W1N1", Terrain: world.NewTerrain()},
		},
	}
}

func TestMoveTo_PlansAndCaches(t *testing.T) {
	act := &mock.Actuator{}
	m := Mover{World: act, ReuseTicks: 50, PlainCost: 1, SwampCost: 5}
	unit := world.Unit{Name: "u", RegionID: "W1N1", Pos: world.Point{X: 10, Y: 10}}
	mem := world.UnitMemory{}

	code := m.MoveTo(context.Background(), moverSnapshot(100), unit, &mem, world.Point{X: 20, Y: 10}, 0)
	if code != world.ResultOK {
		t.Fatalf("expected OK, got %s", code)
	}
	if mem.Move == nil || len(mem.Move.Path) != 10 || mem.Move.PlannedAt != 100 {
		t.Fatalf("expected cached 10-step path, got %+v", mem.Move)
	}
	moves := act.Ops("move")
	if len(moves) != 1 || moves[0].Args != "11,10" && moves[0].Args != "11,9" && moves[0].Args != "11,11" {
		t.Fatalf("unexpected first step %+v", moves)
	}
}

func TestMoveTo_FollowsCacheFromCurrentCell(t *testing.T) {
	act := &mock.Actuator{}
	m := Mover{World: act}
	dest := world.Point{X: 20, Y: 10}
	mem := world.UnitMemory{Move: &world.MoveCache{
		Dest:      dest,
		Path:      []world.Point{{X: 11, Y: 10}, {X: 12, Y: 10}, {X: 13, Y: 10}},
		PlannedAt: 100,
	}}
	unit := world.Unit{Name: "u", RegionID: "W1N1", Pos: world.Point{X: 12, Y: 10}}

	m.MoveTo(context.Background(), moverSnapshot(120), unit, &mem, dest, 0)
	moves := act.Ops("move")
	if len(moves) != 1 || moves[0].Args != "13,10" {
		t.Fatalf("expected cached step to 13,10, got %+v", moves)
	}
	if mem.Move.PlannedAt != 100 {
		t.Fatalf("expected cache kept, got %+v", mem.Move)
	}
}

func TestMoveTo_ReplansAfterReuseWindow(t *testing.T) {
	act := &mock.Actuator{}
	m := Mover{World: act, ReuseTicks: 50}
	dest := world.Point{X: 20, Y: 10}
	mem := world.UnitMemory{Move: &world.MoveCache{
		Dest:      dest,
		Path:      []world.Point{{X: 11, Y: 10}, {X: 12, Y: 10}},
		PlannedAt: 100,
	}}
	unit := world.Unit{Name: "u", RegionID: "W1N1", Pos: world.Point{X: 11, Y: 10}}

	m.MoveTo(context.Background(), moverSnapshot(150), unit, &mem, dest, 0)
	if mem.Move == nil || mem.Move.PlannedAt != 150 {
		t.Fatalf("expected replanned cache at tick 150, got %+v", mem.Move)
	}
}

func TestMoveTo_InRangeClearsCache(t *testing.T) {
	act := &mock.Actuator{}
	m := Mover{World: act}
	mem := world.UnitMemory{Move: &world.MoveCache{Dest: world.Point{X: 5, Y: 5}}}
	unit := world.Unit{Name: "u", RegionID: "W1N1", Pos: world.Point{X: 5, Y: 6}}

	if code := m.MoveTo(context.Background(), moverSnapshot(1), unit, &mem, world.Point{X: 5, Y: 5}, 1); code != world.ResultOK {
		t.Fatalf("expected OK, got %s", code)
	}
	if mem.Move != nil || len(act.Calls) != 0 {
		t.Fatalf("expected no move and cleared cache, got %+v / %+v", mem.Move, act.Calls)
	}
}

func TestMoveTo_NoPath(t *testing.T) {
	act := &mock.Actuator{}
	m := Mover{World: act}
	snap := moverSnapshot(1)
	region := snap.Regions["W1N1"]
	for x := 0; x < world.RegionSize; x++ {
		region.Terrain.Set(world.Point{X: x, Y: 20}, world.TerrainWall)
	}
	unit := world.Unit{Name: "u", RegionID: "W1N1", Pos: world.Point{X: 5, Y: 5}}
	mem := world.UnitMemory{}
	if code := m.MoveTo(context.Background(), snap, unit, &mem, world.Point{X: 5, Y: 40}, 0); code != world.ResultNoPath {
		t.Fatalf("expected ERR_NO_PATH, got %s", code)
	}
}

func TestObstaclesKeepsDestinationOpen(t *testing.T) {
	region := world.Region{
		Sources:    []world.Source{{ID: "s", Pos: world.Point{X: 1, Y: 1}}},
		Structures: []world.Structure{{ID: "spawn", Kind: world.StructureSpawn, Pos: world.Point{X: 2, Y: 2}}, {ID: "road", Kind: world.StructureRoad, Pos: world.Point{X: 3, Y: 3}}},
	}
	blocked := Obstacles(region, world.Point{X: 2, Y: 2})
	if !blocked(world.Point{X: 1, Y: 1}) || blocked(world.Point{X: 2, Y: 2}) || blocked(world.Point{X: 3, Y: 3}) {
		t.Fatalf("unexpected obstacle map")
	}
}
