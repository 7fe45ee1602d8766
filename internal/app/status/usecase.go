// Package status is the read model served over HTTP: chains, units and rooms joined with the
// live world.
package status

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"colonyai/internal/app/ports"
	"colonyai/internal/domain/chain"
	"colonyai/internal/domain/role"
	"colonyai/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid status request")

type TickSource interface {
	Last() ports.TickRecord
}

type UseCase struct {
	Store ports.MemoryStore
	World ports.WorldProvider
	Ticks TickSource
}

func (u UseCase) Chains(ctx context.Context) (ChainsResponse, error) {
	snap, err := u.World.Snapshot(ctx)
	if err != nil {
		return ChainsResponse{}, err
	}
	entries, err := u.Store.ListChains(ctx)
	if err != nil {
		return ChainsResponse{}, err
	}
	out := ChainsResponse{Tick: snap.Tick, Chains: make([]ChainView, 0, len(entries))}
	for _, e := range entries {
		out.Chains = append(out.Chains, chainView(snap, e.ID, e.Record))
	}
	return out, nil
}

func (u UseCase) Chain(ctx context.Context, id string) (ChainResponse, error) {
	if strings.TrimSpace(id) == "" {
		return ChainResponse{}, ErrInvalidRequest
	}
	snap, err := u.World.Snapshot(ctx)
	if err != nil {
		return ChainResponse{}, err
	}
	rec, err := u.Store.GetChain(ctx, id)
	if err != nil {
		return ChainResponse{}, err
	}
	return ChainResponse{Tick: snap.Tick, Chain: chainView(snap, id, rec)}, nil
}

func chainView(snap world.Snapshot, id string, rec chain.Record) ChainView {
	v := ChainView{
		ID:       id,
		SourceID: rec.SourceID,
		RegionID: rec.BasePos.RegionID,
		Base:     rec.BasePos.Point(),
		Nodes:    make([]NodeView, 0, rec.Len()),
	}
	for i := 0; i < rec.Len(); i++ {
		n := NodeView{Index: i, Role: string(role.ForIndex(i, rec.Len())), Pos: rec.NodePositions[i], Creep: rec.CreepNames[i]}
		if unit, ok := snap.Unit(n.Creep); ok {
			n.Alive = true
			n.Spawning = unit.Spawning
			n.Energy = unit.Cargo.Energy
			n.OnNode = !unit.Spawning && unit.Pos == n.Pos
			v.Staffed++
		}
		v.Nodes = append(v.Nodes, n)
	}
	v.Complete = rec.Len() > 0 && v.Staffed == rec.Len()
	return v
}

// Creeps lists live units by name, joined with their memory when present.
func (u UseCase) Creeps(ctx context.Context) (CreepsResponse, error) {
	snap, err := u.World.Snapshot(ctx)
	if err != nil {
		return CreepsResponse{}, err
	}
	memories, err := u.Store.ListCreepMemory(ctx)
	if err != nil {
		return CreepsResponse{}, err
	}
	out := CreepsResponse{Tick: snap.Tick, Creeps: make([]CreepView, 0, len(snap.Units))}
	for _, name := range snap.UnitNames() {
		unit := snap.Units[name]
		mem := memories[name]
		out.Creeps = append(out.Creeps, CreepView{
			Name:        name,
			Role:        string(mem.Role),
			ChainID:     mem.ChainID,
			NodeIndex:   mem.NodeIndex,
			RegionID:    unit.RegionID,
			Pos:         unit.Pos,
			Energy:      unit.Cargo.Energy,
			Capacity:    unit.Cargo.Capacity,
			TicksToLive: unit.TicksToLive,
			Spawning:    unit.Spawning,
			Working:     mem.Working,
		})
	}
	return out, nil
}

// Room serves the persisted summary; a region with no summary yet is not found.
func (u UseCase) Room(ctx context.Context, name string) (RoomResponse, error) {
	if strings.TrimSpace(name) == "" {
		return RoomResponse{}, ErrInvalidRequest
	}
	snap, err := u.World.Snapshot(ctx)
	if err != nil {
		return RoomResponse{}, err
	}
	mem, err := u.Store.GetRoomMemory(ctx, name)
	if err != nil {
		return RoomResponse{}, fmt.Errorf("room %s: %w", name, err)
	}
	_, visible := snap.Region(name)
	units := 0
	for _, unit := range snap.Units {
		if unit.RegionID == name {
			units++
		}
	}
	return RoomResponse{
		Tick:               snap.Tick,
		RegionID:           name,
		Visible:            visible,
		Sources:            nonNil(mem.Sources),
		Spawns:             nonNil(mem.Spawns),
		Towers:             nonNil(mem.Towers),
		ChainIDs:           nonNil(mem.ChainIDs),
		ConstructionSites:  mem.ConstructionSites,
		EnergyAvailable:    mem.EnergyAvailable,
		EnergyCapacity:     mem.EnergyCapacity,
		ControllerLevel:    mem.ControllerLevel,
		ControllerProgress: mem.ControllerProgress,
		TicksToDowngrade:   mem.TicksToDowngrade,
		LastUpdated:        mem.LastUpdated,
		Units:              units,
	}, nil
}

// LastTick summarizes the most recent completed tick. Zero before the first tick.
func (u UseCase) LastTick(_ context.Context) TickResponse {
	if u.Ticks == nil {
		return TickResponse{Spawns: []SpawnView{}, Errors: []string{}}
	}
	rec := u.Ticks.Last()
	out := TickResponse{
		Tick:    rec.Tick,
		Chains:  rec.Chains,
		Units:   rec.Units,
		Actions: len(rec.Actions),
		Spawns:  make([]SpawnView, 0, len(rec.Spawns)),
		Errors:  nonNil(rec.Errors),
	}
	for _, a := range rec.Actions {
		if a.Code != "" && !a.Code.OK() && a.Code != world.ResultNotInRange {
			out.Failed++
		}
	}
	for _, s := range rec.Spawns {
		out.Spawns = append(out.Spawns, SpawnView{SpawnID: s.SpawnID, Name: s.Name, Role: s.Role, Cost: s.Cost, Code: string(s.Code)})
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}
