// Package roomstate refreshes per-region memory and keeps chains and upgrader priority in step
// with what the region looks like this tick.
package roomstate

import (
	"context"
	"errors"
	"fmt"

	"colonyai/internal/app/chainbuild"
	"colonyai/internal/app/ports"
	"colonyai/internal/domain/role"
	"colonyai/internal/domain/spawnplan"
	"colonyai/internal/domain/world"
)

const (
	DefaultDowngradeAlertTicks = 1000
	// DefaultNormalPriority is the upgrader priority outside a downgrade alert. The alert
	// priority defaults to 0, which is also AlertPriority's zero value.
	DefaultNormalPriority = 2
)

type UseCase struct {
	Store  ports.MemoryStore
	Chains chainbuild.UseCase
	Logger ports.Logger

	DowngradeAlertTicks int
	AlertPriority       int
	// NormalPriority below 1 falls back to DefaultNormalPriority.
	NormalPriority      int
}

func (u UseCase) threshold() int {
	if u.DowngradeAlertTicks <= 0 {
		return DefaultDowngradeAlertTicks
	}
	return u.DowngradeAlertTicks
}

func (u UseCase) normalPriority() int {
	if u.NormalPriority < 1 {
		return DefaultNormalPriority
	}
	return u.NormalPriority
}

// Run visits regions in id order. It returns the ids of chains created this tick.
func (u UseCase) Run(ctx context.Context, snap world.Snapshot) ([]string, error) {
	created := make([]string, 0)
	alert := false
	for _, id := range snap.RegionIDs() {
		region, _ := snap.Region(id)
		ids, err := u.Chains.EnsureRegion(ctx, region)
		created = append(created, ids...)
		if err != nil {
			return created, err
		}
		if err := u.Store.SaveRoomMemory(ctx, id, Summarize(snap.Tick, region)); err != nil {
			return created, fmt.Errorf("save room memory %s: %w", id, err)
		}
		if c := region.Controller; c != nil && c.TicksToDowngrade > 0 && c.TicksToDowngrade < u.threshold() {
			alert = true
		}
	}
	if err := u.adjustUpgraderPriority(ctx, snap.Tick, alert); err != nil {
		return created, err
	}
	return created, nil
}

// Summarize builds the room memory record for region. Chain ids equal source ids.
func Summarize(tick int64, region world.Region) ports.RoomMemory {
	mem := ports.RoomMemory{
		Sources:           make([]string, 0, len(region.Sources)),
		Spawns:            make([]string, 0),
		Towers:            make([]string, 0),
		ChainIDs:          make([]string, 0, len(region.Sources)),
		ConstructionSites: len(region.Sites),
		EnergyAvailable:   region.EnergyAvailable(),
		EnergyCapacity:    region.EnergyCapacityAvailable(),
		LastUpdated:       tick,
	}
	for _, s := range region.Sources {
		mem.Sources = append(mem.Sources, s.ID)
		mem.ChainIDs = append(mem.ChainIDs, s.ID)
	}
	for _, s := range region.StructuresOf(nil, world.StructureSpawn) {
		mem.Spawns = append(mem.Spawns, s.ID)
	}
	for _, s := range region.StructuresOf(nil, world.StructureTower) {
		mem.Towers = append(mem.Towers, s.ID)
	}
	if c := region.Controller; c != nil {
		mem.ControllerLevel = c.Level
		mem.ControllerProgress = c.Progress
		mem.TicksToDowngrade = c.TicksToDowngrade
	}
	return mem
}

func (u UseCase) adjustUpgraderPriority(ctx context.Context, tick int64, alert bool) error {
	cfg, err := u.Store.GetColonyConfig(ctx)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load colony config: %w", err)
	}
	rc, ok := cfg.CreepRoles[role.Upgrader]
	if !ok {
		return nil
	}
	want := u.normalPriority()
	if alert {
		want = u.AlertPriority
	}
	if rc.Priority == want {
		return nil
	}
	rc.Priority = want
	next := spawnplan.ColonyConfig{CreepRoles: make(map[role.Kind]spawnplan.RoleConfig, len(cfg.CreepRoles))}
	for k, v := range cfg.CreepRoles {
		next.CreepRoles[k] = v
	}
	next.CreepRoles[role.Upgrader] = rc
	if err := u.Store.SaveColonyConfig(ctx, next); err != nil {
		return fmt.Errorf("save colony config: %w", err)
	}
	ports.LoggerOrDefault(u.Logger).Printf("roomstate: tick=%d upgrader priority=%d downgrade_alert=%t", tick, want, alert)
	return nil
}
