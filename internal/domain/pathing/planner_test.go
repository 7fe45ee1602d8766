package pathing

import (
	"reflect"
	"testing"

	"colonyai/internal/domain/world"
)

func TestSearchOpenFieldStopsWithinRange(t *testing.T) {
	terrain := world.NewTerrain()
	origin := world.Point{X: 10, Y: 25}
	goal := world.Point{X: 25, Y: 25}

	res := Search(terrain, origin, goal, Options{Range: 3})
	if res.Incomplete {
		t.Fatalf("expected complete path")
	}
	if len(res.Path) != 12 {
		t.Fatalf("expected 12 steps, got %d", len(res.Path))
	}
	if res.Cost != 12 {
		t.Fatalf("expected cost 12, got %d", res.Cost)
	}
	last := res.Path[len(res.Path)-1]
	if !last.InRangeTo(goal, 3) {
		t.Fatalf("expected last cell within range 3 of goal, got %+v", last)
	}
	prev := origin
	for i, p := range res.Path {
		if !prev.IsNearTo(p) || prev == p {
			t.Fatalf("step %d is not adjacent: %+v -> %+v", i, prev, p)
		}
		prev = p
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	terrain := world.ParseTerrain([]string{
		"..........",
		"...~~~....",
		"...~#~....",
		"...~~~....",
	})
	a := Search(terrain, world.Point{X: 0, Y: 2}, world.Point{X: 25, Y: 25}, Options{Range: 3})
	b := Search(terrain, world.Point{X: 0, Y: 2}, world.Point{X: 25, Y: 25}, Options{Range: 3})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical results, got %+v vs %+v", a, b)
	}
}

func TestSearchAvoidsSwampWhenDetourIsCheaper(t *testing.T) {
	terrain := world.NewTerrain()
	for y := 5; y <= 15; y++ {
		terrain.Set(world.Point{X: 15, Y: y}, world.TerrainSwamp)
	}
	res := Search(terrain, world.Point{X: 10, Y: 10}, world.Point{X: 20, Y: 10}, Options{})
	if res.Incomplete {
		t.Fatalf("expected complete path")
	}
	if res.Cost != 12 {
		t.Fatalf("expected detour cost 12, got %d", res.Cost)
	}
	for _, p := range res.Path {
		if terrain.At(p) == world.TerrainSwamp {
			t.Fatalf("expected path to avoid swamp, crossed at %+v", p)
		}
	}
}

func TestSearchCrossesSwampWhenCheaper(t *testing.T) {
	terrain := world.NewTerrain()
	for y := 0; y < world.RegionSize; y++ {
		terrain.Set(world.Point{X: 15, Y: y}, world.TerrainSwamp)
	}
	res := Search(terrain, world.Point{X: 10, Y: 10}, world.Point{X: 20, Y: 10}, Options{})
	if res.Cost != 14 {
		t.Fatalf("expected cost 14 through one swamp cell, got %d", res.Cost)
	}
}

func TestSearchUnreachableIsIncomplete(t *testing.T) {
	terrain := world.NewTerrain()
	for y := 0; y < world.RegionSize; y++ {
		terrain.Set(world.Point{X: 15, Y: y}, world.TerrainWall)
	}
	res := Search(terrain, world.Point{X: 10, Y: 10}, world.Point{X: 25, Y: 25}, Options{Range: 3})
	if !res.Incomplete {
		t.Fatalf("expected incomplete result")
	}
	if len(res.Path) != 0 {
		t.Fatalf("expected empty path, got %d cells", len(res.Path))
	}
}

func TestSearchOriginInsideRangeReturnsEmptyPath(t *testing.T) {
	res := Search(world.NewTerrain(), world.Point{X: 24, Y: 24}, world.Point{X: 25, Y: 25}, Options{Range: 3})
	if res.Incomplete || len(res.Path) != 0 {
		t.Fatalf("expected empty complete path, got %+v", res)
	}
}

func TestSearchHonoursBlocked(t *testing.T) {
	terrain := world.NewTerrain()
	blocked := world.Point{X: 11, Y: 10}
	res := Search(terrain, world.Point{X: 10, Y: 10}, world.Point{X: 12, Y: 10}, Options{
		Blocked: func(p world.Point) bool { return p == blocked },
	})
	for _, p := range res.Path {
		if p == blocked {
			t.Fatalf("expected path to avoid blocked cell")
		}
	}
	if len(res.Path) != 2 {
		t.Fatalf("expected a 2-step diagonal detour, got %d", len(res.Path))
	}
}
