// Package memorymaint seeds the persisted store on first use and prunes it against the live world.
package memorymaint

import (
	"context"
	"errors"
	"fmt"

	"colonyai/internal/app/ports"
	"colonyai/internal/domain/spawnplan"
	"colonyai/internal/domain/world"
)

type UseCase struct {
	Store  ports.MemoryStore
	Logger ports.Logger
	// Defaults seeds the colony config when the store has none.
	Defaults spawnplan.ColonyConfig
}

// Init writes the default colony config and empty room memory for regions seen for the first time.
func (u UseCase) Init(ctx context.Context, snap world.Snapshot) error {
	log := ports.LoggerOrDefault(u.Logger)
	_, err := u.Store.GetColonyConfig(ctx)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		cfg := u.Defaults
		if len(cfg.CreepRoles) == 0 {
			cfg = spawnplan.DefaultColonyConfig()
		}
		if err := u.Store.SaveColonyConfig(ctx, cfg); err != nil {
			return fmt.Errorf("seed colony config: %w", err)
		}
		log.Printf("memorymaint: tick=%d seeded colony config roles=%d", snap.Tick, len(cfg.CreepRoles))
	case err != nil:
		return fmt.Errorf("load colony config: %w", err)
	}

	for _, id := range snap.RegionIDs() {
		_, err := u.Store.GetRoomMemory(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return fmt.Errorf("load room memory %s: %w", id, err)
		}
		if err := u.Store.SaveRoomMemory(ctx, id, ports.RoomMemory{Sources: []string{}, ChainIDs: []string{}, LastUpdated: snap.Tick}); err != nil {
			return fmt.Errorf("seed room memory %s: %w", id, err)
		}
	}
	return nil
}

type CleanupReport struct {
	DeadUnits     []string
	BlankedSlots  int
	DroppedChains []string
	DroppedRooms  []string
}

// Cleanup drops memory of units no longer in the registry and blanks chain slots naming them.
// Chains whose source vanished from a visible region and rooms no longer visible are dropped.
func (u UseCase) Cleanup(ctx context.Context, snap world.Snapshot) (CleanupReport, error) {
	log := ports.LoggerOrDefault(u.Logger)
	report := CleanupReport{}

	mems, err := u.Store.ListCreepMemory(ctx)
	if err != nil {
		return report, fmt.Errorf("list unit memory: %w", err)
	}
	for name := range mems {
		if _, ok := snap.Unit(name); ok {
			continue
		}
		if err := u.Store.DeleteCreepMemory(ctx, name); err != nil {
			return report, fmt.Errorf("delete unit memory %s: %w", name, err)
		}
		report.DeadUnits = append(report.DeadUnits, name)
	}

	chains, err := u.Store.ListChains(ctx)
	if err != nil {
		return report, fmt.Errorf("list chains: %w", err)
	}
	for _, entry := range chains {
		rec := entry.Record
		if _, visible := snap.Region(rec.BasePos.RegionID); visible {
			if _, ok := snap.Source(rec.SourceID); !ok {
				if err := u.Store.DeleteChain(ctx, entry.ID); err != nil {
					return report, fmt.Errorf("delete chain %s: %w", entry.ID, err)
				}
				report.DroppedChains = append(report.DroppedChains, entry.ID)
				continue
			}
		}
		changed := false
		for i, name := range rec.CreepNames {
			if name == "" {
				continue
			}
			if _, ok := snap.Unit(name); ok {
				continue
			}
			rec, _ = rec.WithSlot(i, "")
			changed = true
			report.BlankedSlots++
		}
		if changed {
			if err := u.Store.SaveChain(ctx, entry.ID, rec); err != nil {
				return report, fmt.Errorf("save chain %s: %w", entry.ID, err)
			}
		}
	}

	rooms, err := u.Store.ListRoomMemory(ctx)
	if err != nil {
		return report, fmt.Errorf("list room memory: %w", err)
	}
	for id := range rooms {
		if _, ok := snap.Region(id); ok {
			continue
		}
		if err := u.Store.DeleteRoomMemory(ctx, id); err != nil {
			return report, fmt.Errorf("delete room memory %s: %w", id, err)
		}
		report.DroppedRooms = append(report.DroppedRooms, id)
	}

	if len(report.DeadUnits) > 0 || report.BlankedSlots > 0 || len(report.DroppedChains) > 0 || len(report.DroppedRooms) > 0 {
		log.Printf("memorymaint: tick=%d dead=%d blanked=%d chains_dropped=%d rooms_dropped=%d",
			snap.Tick, len(report.DeadUnits), report.BlankedSlots, len(report.DroppedChains), len(report.DroppedRooms))
	}
	return report, nil
}
