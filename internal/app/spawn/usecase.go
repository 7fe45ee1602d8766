// Package spawn decides, per spawn facility and tick, whether to provision a population unit or
// refill a chain slot.
package spawn

import (
	"context"
	"errors"
	"fmt"

	"colonyai/internal/app/ports"
	"colonyai/internal/domain/chain"
	"colonyai/internal/domain/role"
	"colonyai/internal/domain/spawnplan"
	"colonyai/internal/domain/world"
)

type UseCase struct {
	World   ports.Actuator
	Store   ports.MemoryStore
	Metrics ports.ColonyMetrics
	Logger  ports.Logger

	NodeBody     []world.BodyPart
	MaxBodyScale int
	// Defaults is used while the store holds no colony config yet.
	Defaults spawnplan.ColonyConfig
}

// run carries the per-tick bookkeeping shared by every facility.
type run struct {
	snap        world.Snapshot
	memories    map[string]world.UnitMemory
	counts      map[role.Kind]int
	budget      map[string]int
	provisioned map[string]bool
	chains      []ports.ChainEntry
	outcomes    []ports.SpawnOutcome
}

func (r *run) live(name string) bool {
	if name == "" {
		return false
	}
	if r.provisioned[name] {
		return true
	}
	_, ok := r.snap.Unit(name)
	return ok
}

func (r *run) taken(name string) bool {
	if r.live(name) {
		return true
	}
	_, ok := r.memories[name]
	return ok
}

// Run evaluates every idle spawn once, in id order. memories is the unit memory loaded for
// this tick; names provisioned here are added to it.
func (u UseCase) Run(ctx context.Context, snap world.Snapshot, memories map[string]world.UnitMemory) ([]ports.SpawnOutcome, error) {
	cfg, err := u.Store.GetColonyConfig(ctx)
	if errors.Is(err, ports.ErrNotFound) {
		cfg = u.Defaults
		if len(cfg.CreepRoles) == 0 {
			cfg = spawnplan.DefaultColonyConfig()
		}
	} else if err != nil {
		return nil, fmt.Errorf("load colony config: %w", err)
	}
	chains, err := u.Store.ListChains(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chains: %w", err)
	}

	if memories == nil {
		memories = make(map[string]world.UnitMemory)
	}
	r := &run{
		snap:        snap,
		memories:    memories,
		counts:      make(map[role.Kind]int),
		budget:      make(map[string]int),
		provisioned: make(map[string]bool),
		chains:      chains,
		outcomes:    make([]ports.SpawnOutcome, 0),
	}
	for _, name := range snap.UnitNames() {
		if mem, ok := memories[name]; ok && mem.Role.IsPopulation() {
			r.counts[mem.Role]++
		}
	}
	for _, id := range snap.RegionIDs() {
		region, _ := snap.Region(id)
		r.budget[id] = region.EnergyAvailable()
	}

	for _, sp := range snap.Spawns() {
		if sp.Spawning != nil {
			continue
		}
		done, err := u.provisionPopulation(ctx, r, sp, cfg)
		if err != nil {
			return r.outcomes, err
		}
		if done {
			continue
		}
		if err := u.provisionChainSlot(ctx, r, sp); err != nil {
			return r.outcomes, err
		}
	}
	return r.outcomes, nil
}

func (u UseCase) maxScale() int {
	if u.MaxBodyScale < 1 {
		return spawnplan.DefaultMaxScale
	}
	return u.MaxBodyScale
}

// provisionPopulation reports done once the facility has issued its one spawn for the tick.
func (u UseCase) provisionPopulation(ctx context.Context, r *run, sp world.Structure, cfg spawnplan.ColonyConfig) (bool, error) {
	log := ports.LoggerOrDefault(u.Logger)
	order, ok, skipped := spawnplan.PlanPopulation(cfg, r.counts, r.budget[sp.RegionID], u.maxScale())
	for _, err := range skipped {
		log.Printf("spawn: tick=%d spawn=%s skipped: %v", r.snap.Tick, sp.ID, err)
	}
	if !ok {
		return false, nil
	}
	name := spawnplan.UniqueName(spawnplan.PopulationName(order.Role, r.snap.Tick), r.taken)
	mem := world.UnitMemory{Role: order.Role}
	code := u.World.SpawnCreep(ctx, sp.ID, order.Body, name, mem)
	u.record(r, sp, name, order.Role, order.Cost, code)
	if !code.OK() {
		log.Printf("spawn: tick=%d spawn=%s role=%s name=%s failed code=%s", r.snap.Tick, sp.ID, order.Role, name, code)
		return true, nil
	}
	r.counts[order.Role]++
	r.budget[sp.RegionID] -= order.Cost
	r.provisioned[name] = true
	r.memories[name] = mem
	if err := u.Store.SaveCreepMemory(ctx, name, mem); err != nil {
		return true, fmt.Errorf("save memory %s: %w", name, err)
	}
	log.Printf("spawn: tick=%d spawn=%s role=%s name=%s parts=%d cost=%d", r.snap.Tick, sp.ID, order.Role, name, len(order.Body), order.Cost)
	return true, nil
}

// provisionChainSlot refills the first dead or empty slot among the chains based in the
// facility's region. At most one spawn is issued.
func (u UseCase) provisionChainSlot(ctx context.Context, r *run, sp world.Structure) error {
	log := ports.LoggerOrDefault(u.Logger)
	for ci := range r.chains {
		entry := &r.chains[ci]
		rec := entry.Record
		if rec.BasePos.RegionID != "" && rec.BasePos.RegionID != sp.RegionID {
			continue
		}
		for i := 0; i < rec.Len(); i++ {
			if r.live(rec.Slot(i)) {
				continue
			}
			order, err := spawnplan.PlanNode(entry.ID, i, rec.Len(), u.NodeBody, r.budget[sp.RegionID])
			if err != nil {
				log.Printf("spawn: tick=%d spawn=%s chain=%s slot=%d waiting: %v", r.snap.Tick, sp.ID, entry.ID, i, err)
				return nil
			}
			name := spawnplan.UniqueName(spawnplan.NodeName(entry.ID, i, r.snap.Tick), r.taken)
			mem := world.UnitMemory{Role: order.Role, ChainID: entry.ID, NodeIndex: i}
			code := u.World.SpawnCreep(ctx, sp.ID, order.Body, name, mem)
			u.record(r, sp, name, order.Role, order.Cost, code)
			if !code.OK() {
				log.Printf("spawn: tick=%d spawn=%s chain=%s slot=%d name=%s failed code=%s", r.snap.Tick, sp.ID, entry.ID, i, name, code)
				return nil
			}
			return u.commitSlot(ctx, r, sp, entry, i, name, mem, order.Cost)
		}
	}
	return nil
}

func (u UseCase) commitSlot(ctx context.Context, r *run, sp world.Structure, entry *ports.ChainEntry, i int, name string, mem world.UnitMemory, cost int) error {
	var err error
	var rec chain.Record
	if rec, err = entry.Record.WithSlot(i, name); err != nil {
		return err
	}
	entry.Record = rec
	r.budget[sp.RegionID] -= cost
	r.provisioned[name] = true
	r.memories[name] = mem
	if err := u.Store.SaveChain(ctx, entry.ID, rec); err != nil {
		return fmt.Errorf("save chain %s: %w", entry.ID, err)
	}
	if err := u.Store.SaveCreepMemory(ctx, name, mem); err != nil {
		return fmt.Errorf("save memory %s: %w", name, err)
	}
	ports.LoggerOrDefault(u.Logger).Printf("spawn: tick=%d spawn=%s chain=%s slot=%d role=%s name=%s", r.snap.Tick, sp.ID, entry.ID, i, mem.Role, name)
	return nil
}

func (u UseCase) record(r *run, sp world.Structure, name string, k role.Kind, cost int, code world.ResultCode) {
	ports.MetricsOrNop(u.Metrics).RecordSpawn(k, code)
	r.outcomes = append(r.outcomes, ports.SpawnOutcome{SpawnID: sp.ID, Name: name, Role: string(k), Cost: cost, Code: code})
}
