package chainbuild

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"colonyai/internal/adapter/repo/kv"
	"colonyai/internal/adapter/repo/memory"
	"colonyai/internal/app/ports"
	"colonyai/internal/domain/chain"
	"colonyai/internal/domain/role"
	"colonyai/internal/domain/world"
)

var quiet = log.New(io.Discard, "", 0)

func newUseCase() (UseCase, kv.Store) {
	store := kv.NewStore(memory.NewStore())
	return UseCase{
		Store:     store,
		Logger:    quiet,
		Stride:    5,
		Anchor:    world.Point{X: 25, Y: 25},
		BaseRange: 3,
		PlainCost: 1,
		SwampCost: 5,
	}, store
}

func openRegion() world.Region {
	return world.Region{
		ID:      "W1N1",
		Terrain: world.NewTerrain(),
		Sources: []world.Source{{ID: "src1", Pos: world.Point{X: 10, Y: 25}, RegionID: "W1N1"}},
	}
}

func TestEnsureChain_DistanceTwelveGivesFourNodes(t *testing.T) {
	uc, store := newUseCase()
	region := openRegion()

	rec, created, err := uc.EnsureChain(context.Background(), region, region.Sources[0])
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !created {
		t.Fatalf("expected chain to be created")
	}
	if rec.Len() != 4 {
		t.Fatalf("expected 4 nodes (path 0,5,10 + anchor), got %d: %+v", rec.Len(), rec.NodePositions)
	}
	last := rec.NodePositions[rec.Len()-1]
	if last != (world.Point{X: 25, Y: 25}) {
		t.Fatalf("expected last node at anchor, got %+v", last)
	}
	for i, n := range rec.CreepNames {
		if n != "" {
			t.Fatalf("expected empty slot %d, got %q", i, n)
		}
	}
	if rec.RoleAt(0) != role.Head || rec.RoleAt(1) != role.Relay || rec.RoleAt(3) != role.Tail {
		t.Fatalf("unexpected roles for chain %+v", rec)
	}
	stored, err := store.GetChain(context.Background(), "src1")
	if err != nil || stored.Len() != 4 {
		t.Fatalf("expected stored chain, got %+v err=%v", stored, err)
	}
}

func TestEnsureChain_IsIdempotent(t *testing.T) {
	uc, store := newUseCase()
	region := openRegion()
	ctx := context.Background()

	first, _, _ := uc.EnsureChain(ctx, region, region.Sources[0])
	first, _ = first.WithSlot(0, "src1_node0_1")
	if err := store.SaveChain(ctx, "src1", first); err != nil {
		t.Fatalf("save: %v", err)
	}

	region.Terrain.Set(world.Point{X: 15, Y: 25}, world.TerrainWall)
	again, created, err := uc.EnsureChain(ctx, region, region.Sources[0])
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if created {
		t.Fatalf("expected existing chain to be reused")
	}
	if again.Slot(0) != "src1_node0_1" {
		t.Fatalf("expected existing record untouched, got %+v", again)
	}
}

func TestEnsureChain_UnreachableCollapsesToAnchor(t *testing.T) {
	uc, _ := newUseCase()
	region := openRegion()
	for _, p := range []world.Point{{X: 9, Y: 24}, {X: 10, Y: 24}, {X: 11, Y: 24}, {X: 9, Y: 25}, {X: 11, Y: 25}, {X: 9, Y: 26}, {X: 10, Y: 26}, {X: 11, Y: 26}} {
		region.Terrain.Set(p, world.TerrainWall)
	}
	rec, _, err := uc.EnsureChain(context.Background(), region, region.Sources[0])
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if rec.Len() != 1 || rec.NodePositions[0] != (world.Point{X: 25, Y: 25}) {
		t.Fatalf("expected single anchor node, got %+v", rec.NodePositions)
	}
	if rec.RoleAt(0) != role.Head {
		t.Fatalf("expected single node to be head, got %s", rec.RoleAt(0))
	}
}

func TestEnsureChain_SourceInsideBaseRange(t *testing.T) {
	uc, _ := newUseCase()
	region := openRegion()
	region.Sources[0].Pos = world.Point{X: 23, Y: 25}
	rec, _, err := uc.EnsureChain(context.Background(), region, region.Sources[0])
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if rec.Len() != 1 {
		t.Fatalf("expected a single node chain, got %+v", rec.NodePositions)
	}
}

func TestEnsureChain_ZeroValueUsesDefaultBaseRange(t *testing.T) {
	store := kv.NewStore(memory.NewStore())
	uc := UseCase{Store: store, Logger: quiet}
	region := openRegion()
	region.Sources[0].Pos = world.Point{X: 23, Y: 25}
	rec, _, err := uc.EnsureChain(context.Background(), region, region.Sources[0])
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if rec.Len() != 1 || rec.NodePositions[0] != (world.Point{X: 25, Y: 25}) {
		t.Fatalf("expected source within range 3 to need no path, got %+v", rec.NodePositions)
	}
}

func TestEnsureRegion_ReportsCreated(t *testing.T) {
	uc, _ := newUseCase()
	region := openRegion()
	region.Sources = append(region.Sources, world.Source{ID: "src2", Pos: world.Point{X: 40, Y: 10}, RegionID: "W1N1"})
	ctx := context.Background()

	created, err := uc.EnsureRegion(ctx, region)
	if err != nil {
		t.Fatalf("ensure region: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created chains, got %v", created)
	}
	created, _ = uc.EnsureRegion(ctx, region)
	if len(created) != 0 {
		t.Fatalf("expected no new chains, got %v", created)
	}
}

func TestEnsureChain_PropagatesStoreError(t *testing.T) {
	wantErr := errors.New("store down")
	uc := UseCase{Store: failingChains{err: wantErr}, Logger: quiet}
	region := openRegion()
	if _, _, err := uc.EnsureChain(context.Background(), region, region.Sources[0]); !errors.Is(err, wantErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

type failingChains struct {
	err error
}

func (f failingChains) GetChain(context.Context, string) (chain.Record, error) {
	return chain.Record{}, f.err
}
func (f failingChains) ListChains(context.Context) ([]ports.ChainEntry, error) { return nil, f.err }
func (f failingChains) CreateChain(context.Context, string, chain.Record) error { return f.err }
func (f failingChains) SaveChain(context.Context, string, chain.Record) error   { return f.err }
func (f failingChains) DeleteChain(context.Context, string) error              { return f.err }

var _ ports.ChainRepository = failingChains{}
