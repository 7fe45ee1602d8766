// Package sim is a deterministic single-process stand-in for the host game. It generates regions
// from a seed, applies primitive actions with exact energy accounting and advances one tick at a
// time.
package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"sync"

	"colonyai/internal/domain/world"
)

type Config struct {
	Seed    int64
	Regions []string
	Anchor  world.Point

	SourcesPerRegion  int
	SourceCapacity    int
	SourceRegenTicks  int
	SpawnCapacity     int
	SpawnRegenPerTick int
	Extensions        int
	ExtensionCapacity int
	NoStorage         bool
	StorageCapacity   int
	DowngradeTicks    int
	DropDecayDivisor  int
	RoadDecayInterval int
	RoadDecayAmount   int
}

func DefaultConfig() Config {
	return Config{
		Seed:              1337,
		Regions:           []string{"W1N1"},
		Anchor:            world.Point{X: 25, Y: 25},
		SourcesPerRegion:  2,
		SourceCapacity:    3000,
		SourceRegenTicks:  300,
		SpawnCapacity:     300,
		SpawnRegenPerTick: 1,
		Extensions:        2,
		ExtensionCapacity: 50,
		StorageCapacity:   1000000,
		DowngradeTicks:    20000,
		DropDecayDivisor:  1000,
		RoadDecayInterval: 1000,
		RoadDecayAmount:   100,
	}
}

var controllerProgressTotal = map[int]int{1: 200, 2: 45000, 3: 135000, 4: 405000, 5: 1215000, 6: 3645000, 7: 10935000}

type unitState struct {
	world.Unit
	acted bool
	moved bool
}

type regionState struct {
	id         string
	terrain    *world.Terrain
	controller *world.Controller
	sources    []*world.Source
	structures []*world.Structure
	sites      []*world.ConstructionSite
	drops      []*world.DroppedResource
}

type World struct {
	mu      sync.Mutex
	cfg     Config
	tick    int64
	regions map[string]*regionState
	units   map[string]*unitState
	nextID  int
}

// New generates every configured region. Zero-valued config fields take DefaultConfig values;
// a negative SpawnRegenPerTick, Extensions or RoadDecayAmount disables that feature.
func New(cfg Config) *World {
	def := DefaultConfig()
	if len(cfg.Regions) == 0 {
		cfg.Regions = def.Regions
	}
	if cfg.Anchor == (world.Point{}) {
		cfg.Anchor = def.Anchor
	}
	if cfg.SourcesPerRegion <= 0 {
		cfg.SourcesPerRegion = def.SourcesPerRegion
	}
	if cfg.SourceCapacity <= 0 {
		cfg.SourceCapacity = def.SourceCapacity
	}
	if cfg.SourceRegenTicks <= 0 {
		cfg.SourceRegenTicks = def.SourceRegenTicks
	}
	if cfg.SpawnCapacity <= 0 {
		cfg.SpawnCapacity = def.SpawnCapacity
	}
	if cfg.SpawnRegenPerTick == 0 {
		cfg.SpawnRegenPerTick = def.SpawnRegenPerTick
	}
	if cfg.Extensions == 0 {
		cfg.Extensions = def.Extensions
	}
	if cfg.RoadDecayAmount == 0 {
		cfg.RoadDecayAmount = def.RoadDecayAmount
	}
	if cfg.ExtensionCapacity <= 0 {
		cfg.ExtensionCapacity = def.ExtensionCapacity
	}
	if cfg.StorageCapacity <= 0 {
		cfg.StorageCapacity = def.StorageCapacity
	}
	if cfg.DowngradeTicks <= 0 {
		cfg.DowngradeTicks = def.DowngradeTicks
	}
	if cfg.DropDecayDivisor <= 0 {
		cfg.DropDecayDivisor = def.DropDecayDivisor
	}
	if cfg.RoadDecayInterval <= 0 {
		cfg.RoadDecayInterval = def.RoadDecayInterval
	}
	w := &World{
		cfg:     cfg,
		tick:    1,
		regions: make(map[string]*regionState, len(cfg.Regions)),
		units:   make(map[string]*unitState),
	}
	for _, id := range cfg.Regions {
		w.regions[id] = w.generate(id)
	}
	return w
}

func regionSalt(seed int64, id string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return seed ^ int64(h.Sum64()&0x7fffffffffffffff)
}

func tileSeed(x, y int, salt int64) int {
	v := x*73856093 ^ y*19349663 ^ int(salt&0x7fffffff)
	if v < 0 {
		v = -v
	}
	return v
}

func (w *World) genCell(p world.Point, salt int64) world.TerrainKind {
	if p.X == 0 || p.Y == 0 || p.X == world.RegionSize-1 || p.Y == world.RegionSize-1 {
		return world.TerrainWall
	}
	if p.Range(w.cfg.Anchor) <= 5 {
		return world.TerrainPlain
	}
	seed := tileSeed(p.X, p.Y, salt)
	switch {
	case seed%17 == 0:
		return world.TerrainWall
	case seed%6 == 0:
		return world.TerrainSwamp
	default:
		return world.TerrainPlain
	}
}

// base layout around the anchor; the anchor cell itself stays open for the chain tail.
var baseOffsets = struct {
	spawn, storage world.Point
	extensions     []world.Point
	extensionSite  world.Point
	roadSite       world.Point
}{
	spawn:         world.Point{X: 0, Y: 1},
	storage:       world.Point{X: 1, Y: -1},
	extensions:    []world.Point{{X: -1, Y: 1}, {X: 1, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}},
	extensionSite: world.Point{X: -1, Y: -1},
	roadSite:      world.Point{X: 0, Y: -3},
}

func offset(a, d world.Point) world.Point {
	return world.Point{X: a.X + d.X, Y: a.Y + d.Y}
}

func (w *World) generate(id string) *regionState {
	salt := regionSalt(w.cfg.Seed, id)
	rng := rand.New(rand.NewSource(salt))
	r := &regionState{id: id, terrain: world.NewTerrain()}
	for y := 0; y < world.RegionSize; y++ {
		for x := 0; x < world.RegionSize; x++ {
			p := world.Point{X: x, Y: y}
			r.terrain.Set(p, w.genCell(p, salt))
		}
	}

	anchor := w.cfg.Anchor
	taken := map[world.Point]bool{anchor: true}
	pick := func(minRange int) world.Point {
		for attempt := 0; attempt < 5000; attempt++ {
			p := world.Point{X: 3 + rng.Intn(world.RegionSize-6), Y: 3 + rng.Intn(world.RegionSize-6)}
			if p.Range(anchor) < minRange || r.terrain.At(p) != world.TerrainPlain {
				continue
			}
			clear := true
			for q := range taken {
				if p.Range(q) < 4 {
					clear = false
					break
				}
			}
			if clear && w.openNeighbours(r.terrain, p) >= 2 {
				taken[p] = true
				return p
			}
		}
		// Degenerate seeds fall back to a fixed ring around the anchor.
		p := world.Point{X: anchor.X - minRange, Y: anchor.Y - minRange + len(taken)}
		taken[p] = true
		return p
	}

	for i := 0; i < w.cfg.SourcesPerRegion; i++ {
		p := pick(10)
		r.sources = append(r.sources, &world.Source{
			ID:             fmt.Sprintf("%s-src%d", id, i+1),
			Pos:            p,
			RegionID:       id,
			Energy:         w.cfg.SourceCapacity,
			EnergyCapacity: w.cfg.SourceCapacity,
		})
	}
	cp := pick(8)
	r.controller = &world.Controller{
		ID:               id + "-ctrl",
		Pos:              cp,
		Level:            1,
		ProgressTotal:    controllerProgressTotal[1],
		TicksToDowngrade: w.cfg.DowngradeTicks,
	}

	r.structures = append(r.structures, &world.Structure{
		ID: id + "-spawn", Kind: world.StructureSpawn, Pos: offset(anchor, baseOffsets.spawn), RegionID: id,
		Store: world.Cargo{Energy: w.cfg.SpawnCapacity, Capacity: w.cfg.SpawnCapacity}, Hits: 5000, HitsMax: 5000,
	})
	for i := 0; i < w.cfg.Extensions && i < len(baseOffsets.extensions); i++ {
		r.structures = append(r.structures, &world.Structure{
			ID: fmt.Sprintf("%s-ext%d", id, i+1), Kind: world.StructureExtension, Pos: offset(anchor, baseOffsets.extensions[i]), RegionID: id,
			Store: world.Cargo{Capacity: w.cfg.ExtensionCapacity}, Hits: 1000, HitsMax: 1000,
		})
	}
	if !w.cfg.NoStorage {
		r.structures = append(r.structures, &world.Structure{
			ID: id + "-storage", Kind: world.StructureStorage, Pos: offset(anchor, baseOffsets.storage), RegionID: id,
			Store: world.Cargo{Capacity: w.cfg.StorageCapacity}, Hits: 10000, HitsMax: 10000,
		})
	}
	r.sites = append(r.sites,
		&world.ConstructionSite{ID: id + "-site1", Kind: world.StructureExtension, Pos: offset(anchor, baseOffsets.extensionSite), ProgressTotal: 3000},
		&world.ConstructionSite{ID: id + "-site2", Kind: world.StructureRoad, Pos: offset(anchor, baseOffsets.roadSite), ProgressTotal: 300},
	)
	return r
}

func (w *World) openNeighbours(t *world.Terrain, p world.Point) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if t.Walkable(world.Point{X: p.X + dx, Y: p.Y + dy}) {
				n++
			}
		}
	}
	return n
}

// Snapshot copies the live state. Terrain is shared; it never changes after generation.
func (w *World) snapshotLocked() world.Snapshot {
	snap := world.Snapshot{
		Tick:    w.tick,
		Regions: make(map[string]world.Region, len(w.regions)),
		Units:   make(map[string]world.Unit, len(w.units)),
	}
	for id, r := range w.regions {
		region := world.Region{
			ID:         id,
			Terrain:    r.terrain,
			Sources:    make([]world.Source, 0, len(r.sources)),
			Structures: make([]world.Structure, 0, len(r.structures)),
			Sites:      make([]world.ConstructionSite, 0, len(r.sites)),
			Drops:      make([]world.DroppedResource, 0, len(r.drops)),
		}
		if r.controller != nil {
			c := *r.controller
			region.Controller = &c
		}
		for _, s := range r.sources {
			region.Sources = append(region.Sources, *s)
		}
		for _, s := range r.structures {
			cp := *s
			if s.Spawning != nil {
				sp := *s.Spawning
				cp.Spawning = &sp
			}
			region.Structures = append(region.Structures, cp)
		}
		for _, s := range r.sites {
			region.Sites = append(region.Sites, *s)
		}
		for _, d := range r.drops {
			region.Drops = append(region.Drops, *d)
		}
		snap.Regions[id] = region
	}
	for name, u := range w.units {
		cp := u.Unit
		cp.Body = append([]world.BodyPart(nil), u.Body...)
		cp.Memory = world.UnitMemory{}
		snap.Units[name] = cp
	}
	return snap
}

func (w *World) regionIDs() []string {
	ids := make([]string, 0, len(w.regions))
	for id := range w.regions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (w *World) newID(prefix string) string {
	w.nextID++
	return fmt.Sprintf("%s-%d", prefix, w.nextID)
}
