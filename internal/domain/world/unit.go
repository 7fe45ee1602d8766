package world

import "colonyai/internal/domain/role"

// UnitMemory is the per-unit block kept in the persisted store under creeps[name].
type UnitMemory struct {
	Role      role.Kind  `json:"role"`
	ChainID   string     `json:"chainId,omitempty"`
	NodeIndex int        `json:"nodeIndex"`
	Working   bool       `json:"working,omitempty"`
	SourceID  string     `json:"sourceId,omitempty"`
	Move      *MoveCache `json:"_move,omitempty"`
}

// MoveCache is a planned path kept across ticks so movement does not replan every step.
type MoveCache struct {
	Dest      Point   `json:"dest"`
	Range     int     `json:"range"`
	Path      []Point `json:"path"`
	PlannedAt int64   `json:"time"`
}

type Unit struct {
	Name        string     `json:"name"`
	Pos         Point      `json:"pos"`
	RegionID    string     `json:"regionId"`
	Body        []BodyPart `json:"body"`
	Cargo       Cargo      `json:"store"`
	Spawning    bool       `json:"spawning"`
	TicksToLive int        `json:"ticksToLive"`
	Memory      UnitMemory `json:"memory"`
}

func (u Unit) Parts(kind BodyPart) int {
	return CountParts(u.Body, kind)
}
