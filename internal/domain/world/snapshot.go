package world

import "sort"

type Region struct {
	ID         string             `json:"id"`
	Terrain    *Terrain           `json:"-"`
	Controller *Controller        `json:"controller,omitempty"`
	Sources    []Source           `json:"sources"`
	Structures []Structure        `json:"structures"`
	Sites      []ConstructionSite `json:"sites"`
	Drops      []DroppedResource  `json:"drops"`
}

// EnergyAvailable sums energy in spawns and extensions, the budget spawning draws from.
func (r Region) EnergyAvailable() int {
	total := 0
	for _, s := range r.Structures {
		if s.Kind == StructureSpawn || s.Kind == StructureExtension {
			total += s.Store.Energy
		}
	}
	return total
}

func (r Region) EnergyCapacityAvailable() int {
	total := 0
	for _, s := range r.Structures {
		if s.Kind == StructureSpawn || s.Kind == StructureExtension {
			total += s.Store.Capacity
		}
	}
	return total
}

// StructuresOf returns structures of the given kinds in region order, filtered by keep when non-nil.
func (r Region) StructuresOf(keep func(Structure) bool, kinds ...StructureKind) []Structure {
	out := make([]Structure, 0)
	for _, s := range r.Structures {
		match := false
		for _, k := range kinds {
			if s.Kind == k {
				match = true
				break
			}
		}
		if !match {
			continue
		}
		if keep != nil && !keep(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Snapshot is the live registry as of tick start. It is never mutated during a tick.
type Snapshot struct {
	Tick    int64             `json:"tick"`
	Regions map[string]Region `json:"regions"`
	Units   map[string]Unit   `json:"units"`
}

func (s Snapshot) Unit(name string) (Unit, bool) {
	if name == "" {
		return Unit{}, false
	}
	u, ok := s.Units[name]
	return u, ok
}

func (s Snapshot) Region(id string) (Region, bool) {
	r, ok := s.Regions[id]
	return r, ok
}

func (s Snapshot) RegionIDs() []string {
	out := make([]string, 0, len(s.Regions))
	for id := range s.Regions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s Snapshot) UnitNames() []string {
	out := make([]string, 0, len(s.Units))
	for name := range s.Units {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s Snapshot) Source(id string) (Source, bool) {
	for _, r := range s.Regions {
		for _, src := range r.Sources {
			if src.ID == id {
				return src, true
			}
		}
	}
	return Source{}, false
}

func (s Snapshot) Structure(id string) (Structure, bool) {
	for _, r := range s.Regions {
		for _, st := range r.Structures {
			if st.ID == id {
				return st, true
			}
		}
	}
	return Structure{}, false
}

// Spawns lists every spawn across regions ordered by id.
func (s Snapshot) Spawns() []Structure {
	out := make([]Structure, 0)
	for _, id := range s.RegionIDs() {
		out = append(out, s.Regions[id].StructuresOf(nil, StructureSpawn)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
