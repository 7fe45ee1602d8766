package status

import "colonyai/internal/domain/world"

type NodeView struct {
	Index    int         `json:"index"`
	Role     string      `json:"role"`
	Pos      world.Point `json:"pos"`
	Creep    string      `json:"creep,omitempty"`
	Alive    bool        `json:"alive"`
	Spawning bool        `json:"spawning"`
	Energy   int         `json:"energy"`
	OnNode   bool        `json:"on_node"`
}

type ChainView struct {
	ID       string      `json:"id"`
	SourceID string      `json:"source_id"`
	RegionID string      `json:"region_id"`
	Base     world.Point `json:"base"`
	Nodes    []NodeView  `json:"nodes"`
	Staffed  int         `json:"staffed"`
	Complete bool        `json:"complete"`
}

type ChainsResponse struct {
	Tick   int64       `json:"tick"`
	Chains []ChainView `json:"chains"`
}

type ChainResponse struct {
	Tick  int64     `json:"tick"`
	Chain ChainView `json:"chain"`
}

type CreepView struct {
	Name        string      `json:"name"`
	Role        string      `json:"role,omitempty"`
	ChainID     string      `json:"chain_id,omitempty"`
	NodeIndex   int         `json:"node_index"`
	RegionID    string      `json:"region_id"`
	Pos         world.Point `json:"pos"`
	Energy      int         `json:"energy"`
	Capacity    int         `json:"capacity"`
	TicksToLive int         `json:"ticks_to_live"`
	Spawning    bool        `json:"spawning"`
	Working     bool        `json:"working"`
}

type CreepsResponse struct {
	Tick   int64       `json:"tick"`
	Creeps []CreepView `json:"creeps"`
}

type RoomResponse struct {
	Tick               int64    `json:"tick"`
	RegionID           string   `json:"region_id"`
	Visible            bool     `json:"visible"`
	Sources            []string `json:"sources"`
	Spawns             []string `json:"spawns"`
	Towers             []string `json:"towers"`
	ChainIDs           []string `json:"chain_ids"`
	ConstructionSites  int      `json:"construction_sites"`
	EnergyAvailable    int      `json:"energy_available"`
	EnergyCapacity     int      `json:"energy_capacity"`
	ControllerLevel    int      `json:"controller_level"`
	ControllerProgress int      `json:"controller_progress"`
	TicksToDowngrade   int      `json:"ticks_to_downgrade"`
	LastUpdated        int64    `json:"last_updated"`
	Units              int      `json:"units"`
}

type SpawnView struct {
	SpawnID string `json:"spawn_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Cost    int    `json:"cost"`
	Code    string `json:"code"`
}

type TickResponse struct {
	Tick    int64       `json:"tick"`
	Chains  int         `json:"chains"`
	Units   int         `json:"units"`
	Actions int         `json:"actions"`
	Failed  int         `json:"failed_actions"`
	Spawns  []SpawnView `json:"spawns"`
	Errors  []string    `json:"errors"`
}
