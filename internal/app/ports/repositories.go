package ports

import (
	"context"

	"colonyai/internal/domain/chain"
	"colonyai/internal/domain/spawnplan"
	"colonyai/internal/domain/world"
)

type ChainEntry struct {
	ID     string
	Record chain.Record
}

// ChainRepository holds the energyChains document. ListChains returns chains in creation order.
type ChainRepository interface {
	GetChain(ctx context.Context, id string) (chain.Record, error)
	ListChains(ctx context.Context) ([]ChainEntry, error)
	CreateChain(ctx context.Context, id string, rec chain.Record) error
	SaveChain(ctx context.Context, id string, rec chain.Record) error
	DeleteChain(ctx context.Context, id string) error
}

type CreepMemoryRepository interface {
	GetCreepMemory(ctx context.Context, name string) (world.UnitMemory, error)
	SaveCreepMemory(ctx context.Context, name string, mem world.UnitMemory) error
	DeleteCreepMemory(ctx context.Context, name string) error
	ListCreepMemory(ctx context.Context) (map[string]world.UnitMemory, error)
}

type ColonyConfigRepository interface {
	GetColonyConfig(ctx context.Context) (spawnplan.ColonyConfig, error)
	SaveColonyConfig(ctx context.Context, cfg spawnplan.ColonyConfig) error
}

// RoomMemory is the per-region summary refreshed by the room manager.
type RoomMemory struct {
	Sources            []string `json:"sources"`
	Spawns             []string `json:"spawns"`
	Towers             []string `json:"towers"`
	ChainIDs           []string `json:"chainIds"`
	ConstructionSites  int      `json:"constructionSites"`
	EnergyAvailable    int      `json:"energyAvailable"`
	EnergyCapacity     int      `json:"energyCapacity"`
	ControllerLevel    int      `json:"controllerLevel"`
	ControllerProgress int      `json:"controllerProgress"`
	TicksToDowngrade   int      `json:"ticksToDowngrade"`
	LastUpdated        int64    `json:"lastUpdated"`
}

type RoomMemoryRepository interface {
	GetRoomMemory(ctx context.Context, regionID string) (RoomMemory, error)
	SaveRoomMemory(ctx context.Context, regionID string, mem RoomMemory) error
	DeleteRoomMemory(ctx context.Context, regionID string) error
	ListRoomMemory(ctx context.Context) (map[string]RoomMemory, error)
}

// MemoryStore is the whole persisted store, read and written once per tick.
type MemoryStore interface {
	ChainRepository
	CreepMemoryRepository
	ColonyConfigRepository
	RoomMemoryRepository
}
