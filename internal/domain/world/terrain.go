package world

type TerrainKind uint8

const (
	TerrainPlain TerrainKind = iota
	TerrainSwamp
	TerrainWall
)

func (k TerrainKind) String() string {
	switch k {
	case TerrainPlain:
		return "plain"
	case TerrainSwamp:
		return "swamp"
	case TerrainWall:
		return "wall"
	default:
		return "unknown"
	}
}

// Terrain is a RegionSize x RegionSize grid stored row-major.
type Terrain struct {
	cells []TerrainKind
}

func NewTerrain() *Terrain {
	return &Terrain{cells: make([]TerrainKind, RegionSize*RegionSize)}
}

// ParseTerrain builds a terrain from rows of '.', '~' and '#'. Missing rows and columns stay plain.
func ParseTerrain(rows []string) *Terrain {
	t := NewTerrain()
	for y, row := range rows {
		if y >= RegionSize {
			break
		}
		for x, c := range row {
			if x >= RegionSize {
				break
			}
			switch c {
			case '~':
				t.Set(Point{X: x, Y: y}, TerrainSwamp)
			case '#':
				t.Set(Point{X: x, Y: y}, TerrainWall)
			}
		}
	}
	return t
}

func (t *Terrain) At(p Point) TerrainKind {
	if t == nil || !p.InBounds() {
		return TerrainWall
	}
	return t.cells[p.Y*RegionSize+p.X]
}

func (t *Terrain) Set(p Point, k TerrainKind) {
	if !p.InBounds() {
		return
	}
	t.cells[p.Y*RegionSize+p.X] = k
}

func (t *Terrain) Walkable(p Point) bool {
	return t.At(p) != TerrainWall
}
