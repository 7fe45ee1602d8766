// Package chainbuild plans and persists one energy chain per source.
package chainbuild

import (
	"context"
	"errors"
	"fmt"

	"colonyai/internal/app/movement"
	"colonyai/internal/app/ports"
	"colonyai/internal/domain/chain"
	"colonyai/internal/domain/pathing"
	"colonyai/internal/domain/world"
)

// DefaultBaseRange is how close to the anchor a planned path has to end.
const DefaultBaseRange = 3

type UseCase struct {
	Store   ports.ChainRepository
	Metrics ports.ColonyMetrics
	Logger  ports.Logger

	Stride    int
	Anchor    world.Point
	BaseRange int
	PlainCost int
	SwampCost int
}

func (u UseCase) anchor() world.Point {
	if u.Anchor == (world.Point{}) {
		return world.Point{X: 25, Y: 25}
	}
	return u.Anchor
}

func (u UseCase) stride() int {
	if u.Stride < 1 {
		return chain.DefaultStride
	}
	return u.Stride
}

func (u UseCase) baseRange() int {
	if u.BaseRange <= 0 {
		return DefaultBaseRange
	}
	return u.BaseRange
}

// EnsureChain returns the chain for source, planning and creating it on first sight.
// An existing record is never rewritten. created reports whether this call created it.
func (u UseCase) EnsureChain(ctx context.Context, region world.Region, source world.Source) (rec chain.Record, created bool, err error) {
	rec, err = u.Store.GetChain(ctx, source.ID)
	if err == nil {
		return rec, false, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return chain.Record{}, false, fmt.Errorf("load chain %s: %w", source.ID, err)
	}

	terrain := region.Terrain
	if terrain == nil {
		terrain = world.NewTerrain()
	}
	base := u.anchor()
	res := pathing.Search(terrain, source.Pos, base, pathing.Options{
		Range:     u.baseRange(),
		PlainCost: u.PlainCost,
		SwampCost: u.SwampCost,
		Blocked:   movement.Obstacles(region, base),
	})
	log := ports.LoggerOrDefault(u.Logger)
	if res.Incomplete {
		log.Printf("chainbuild: incomplete path source=%s region=%s; chain collapses to the base anchor", source.ID, region.ID)
	}

	rec = chain.NewRecord(source.ID, base.In(region.ID), res.Path, u.stride())
	if err := u.Store.CreateChain(ctx, source.ID, rec); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			existing, getErr := u.Store.GetChain(ctx, source.ID)
			if getErr != nil {
				return chain.Record{}, false, fmt.Errorf("reload chain %s: %w", source.ID, getErr)
			}
			return existing, false, nil
		}
		return chain.Record{}, false, fmt.Errorf("create chain %s: %w", source.ID, err)
	}
	ports.MetricsOrNop(u.Metrics).RecordChainCreated()
	log.Printf("chainbuild: created chain=%s region=%s nodes=%d path_cost=%d", source.ID, region.ID, rec.Len(), res.Cost)
	return rec, true, nil
}

// EnsureRegion runs EnsureChain for every source of region and returns the ids it created.
func (u UseCase) EnsureRegion(ctx context.Context, region world.Region) ([]string, error) {
	created := make([]string, 0)
	for _, src := range region.Sources {
		_, ok, err := u.EnsureChain(ctx, region, src)
		if err != nil {
			return created, err
		}
		if ok {
			created = append(created, src.ID)
		}
	}
	return created, nil
}
