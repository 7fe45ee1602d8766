package world

import "errors"

type StructureKind string

const (
	StructureSpawn      StructureKind = "spawn"
	StructureExtension  StructureKind = "extension"
	StructureTower      StructureKind = "tower"
	StructureStorage    StructureKind = "storage"
	StructureContainer  StructureKind = "container"
	StructureController StructureKind = "controller"
	StructureRoad       StructureKind = "road"
	StructureWall       StructureKind = "constructedWall"
	StructureRampart    StructureKind = "rampart"
)

// Walkable reports whether units may stand on a structure of this kind.
func (k StructureKind) Walkable() bool {
	switch k {
	case StructureRoad, StructureContainer, StructureRampart:
		return true
	default:
		return false
	}
}

type Structure struct {
	ID       string        `json:"id"`
	Kind     StructureKind `json:"kind"`
	Pos      Point         `json:"pos"`
	RegionID string        `json:"regionId"`
	Store    Cargo         `json:"store"`
	Hits     int           `json:"hits"`
	HitsMax  int           `json:"hitsMax"`
	Spawning *Spawning     `json:"spawning,omitempty"`
}

type Spawning struct {
	Name          string `json:"name"`
	RemainingTime int    `json:"remainingTime"`
}

type Source struct {
	ID                  string `json:"id"`
	Pos                 Point  `json:"pos"`
	RegionID            string `json:"regionId"`
	Energy              int    `json:"energy"`
	EnergyCapacity      int    `json:"energyCapacity"`
	TicksToRegeneration int    `json:"ticksToRegeneration"`
}

type Controller struct {
	ID               string `json:"id"`
	Pos              Point  `json:"pos"`
	Level            int    `json:"level"`
	Progress         int    `json:"progress"`
	ProgressTotal    int    `json:"progressTotal"`
	TicksToDowngrade int    `json:"ticksToDowngrade"`
}

type ConstructionSite struct {
	ID            string        `json:"id"`
	Kind          StructureKind `json:"kind"`
	Pos           Point         `json:"pos"`
	Progress      int           `json:"progress"`
	ProgressTotal int           `json:"progressTotal"`
}

type DroppedResource struct {
	ID     string `json:"id"`
	Pos    Point  `json:"pos"`
	Amount int    `json:"amount"`
}

var ErrInvalidObject = errors.New("invalid world object")

func (s Structure) Validate() error {
	if s.ID == "" || s.Kind == "" || s.Hits < 0 || s.Store.Energy < 0 || s.Store.Energy > s.Store.Capacity {
		return ErrInvalidObject
	}
	return nil
}
