package world

import "testing"

func TestParseTerrain(t *testing.T) {
	tr := ParseTerrain([]string{
		"#~.",
	})
	if tr.At(Point{X: 0, Y: 0}) != TerrainWall {
		t.Fatalf("expected wall at 0,0")
	}
	if tr.At(Point{X: 1, Y: 0}) != TerrainSwamp {
		t.Fatalf("expected swamp at 1,0")
	}
	if tr.At(Point{X: 2, Y: 0}) != TerrainPlain {
		t.Fatalf("expected plain at 2,0")
	}
	if tr.At(Point{X: 10, Y: 10}) != TerrainPlain {
		t.Fatalf("expected unspecified cells to be plain")
	}
	if tr.Walkable(Point{X: -1, Y: 0}) {
		t.Fatalf("expected out of bounds to be unwalkable")
	}
}

func TestPointRangeIsChebyshev(t *testing.T) {
	a := Point{X: 10, Y: 10}
	if got := a.Range(Point{X: 13, Y: 11}); got != 3 {
		t.Fatalf("expected range 3, got %d", got)
	}
	if !a.IsNearTo(Point{X: 11, Y: 11}) {
		t.Fatalf("expected diagonal neighbour to be near")
	}
	if a.InRangeTo(Point{X: 14, Y: 10}, 3) {
		t.Fatalf("expected range 4 to be out of range 3")
	}
}

func TestCargoFullIsExact(t *testing.T) {
	if (Cargo{Energy: 49, Capacity: 50}).Full() {
		t.Fatalf("expected 49/50 to be not full")
	}
	if !(Cargo{Energy: 50, Capacity: 50}).Full() {
		t.Fatalf("expected 50/50 to be full")
	}
	if (Cargo{Energy: 0, Capacity: 0}).Full() {
		t.Fatalf("expected zero-capacity cargo to be not full")
	}
}
