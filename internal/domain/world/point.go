package world

// RegionSize is the edge length of a square region in cells.
const RegionSize = 50

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type RoomPosition struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	RegionID string `json:"regionId"`
}

func (p RoomPosition) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

func (p Point) In(regionID string) RoomPosition {
	return RoomPosition{X: p.X, Y: p.Y, RegionID: regionID}
}

func (p Point) InBounds() bool {
	return p.X >= 0 && p.Y >= 0 && p.X < RegionSize && p.Y < RegionSize
}

// Range is the Chebyshev distance; diagonal steps cost one move.
func (p Point) Range(o Point) int {
	dx := abs(p.X - o.X)
	dy := abs(p.Y - o.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func (p Point) InRangeTo(o Point, r int) bool {
	return p.Range(o) <= r
}

func (p Point) IsNearTo(o Point) bool {
	return p.Range(o) <= 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
