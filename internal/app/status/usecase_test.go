package status

import (
	"context"
	"errors"
	"testing"

	"colonyai/internal/adapter/repo/kv"
	"colonyai/internal/adapter/repo/memory"
	"colonyai/internal/adapter/world/mock"
	"colonyai/internal/app/ports"
	"colonyai/internal/domain/chain"
	"colonyai/internal/domain/role"
	"colonyai/internal/domain/world"
)

type fixedTicks struct{ rec ports.TickRecord }

func (f fixedTicks) Last() ports.TickRecord { return f.rec }

func fixture(t *testing.T) (UseCase, kv.Store) {
	t.Helper()
	store := kv.NewStore(memory.NewStore())
	ctx := context.Background()
	rec := chain.Record{
		SourceID:      "src1",
		BasePos:       world.RoomPosition{X: 25, Y: 25, RegionID: "W1N1"},
		NodePositions: []world.Point{{X: 10, Y: 25}, {X: 15, Y: 25}, {X: 25, Y: 25}},
		CreepNames:    []string{"head", "gone", ""},
	}
	if err := store.CreateChain(ctx, "src1", rec); err != nil {
		t.Fatalf("seed chain: %v", err)
	}
	if err := store.SaveCreepMemory(ctx, "head", world.UnitMemory{Role: role.Head, ChainID: "src1"}); err != nil {
		t.Fatalf("seed memory: %v", err)
	}
	if err := store.SaveRoomMemory(ctx, "W1N1", ports.RoomMemory{Sources: []string{"src1"}, ChainIDs: []string{"src1"}, EnergyAvailable: 250, LastUpdated: 7}); err != nil {
		t.Fatalf("seed room: %v", err)
	}
	snap := world.Snapshot{
		Tick:    7,
		Regions: map[string]world.Region{"W1N1": {ID: "W1N1"}},
		Units: map[string]world.Unit{
			"head":  {Name: "head", Pos: world.Point{X: 10, Y: 25}, RegionID: "W1N1", Cargo: world.Cargo{Energy: 20, Capacity: 50}, TicksToLive: 900},
			"stray": {Name: "stray", Pos: world.Point{X: 1, Y: 1}, RegionID: "W1N1", Spawning: true},
		},
	}
	return UseCase{Store: store, World: mock.Provider{World: snap}}, store
}

func TestChains_JoinsLiveUnits(t *testing.T) {
	uc, _ := fixture(t)
	resp, err := uc.Chains(context.Background())
	if err != nil {
		t.Fatalf("Chains error: %v", err)
	}
	if resp.Tick != 7 || len(resp.Chains) != 1 {
		t.Fatalf("expected one chain at tick 7, got %+v", resp)
	}
	c := resp.Chains[0]
	if c.Staffed != 1 || c.Complete {
		t.Fatalf("expected 1 staffed incomplete chain, got %+v", c)
	}
	if !c.Nodes[0].Alive || !c.Nodes[0].OnNode || c.Nodes[0].Energy != 20 || c.Nodes[0].Role != string(role.Head) {
		t.Fatalf("expected live head on node, got %+v", c.Nodes[0])
	}
	if c.Nodes[1].Alive || c.Nodes[1].Creep != "gone" || c.Nodes[1].Role != string(role.Relay) {
		t.Fatalf("expected dead relay slot, got %+v", c.Nodes[1])
	}
	if c.Nodes[2].Role != string(role.Tail) {
		t.Fatalf("expected tail last, got %+v", c.Nodes[2])
	}
}

func TestChain_NotFoundAndInvalid(t *testing.T) {
	uc, _ := fixture(t)
	if _, err := uc.Chain(context.Background(), "nope"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := uc.Chain(context.Background(), " "); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	resp, err := uc.Chain(context.Background(), "src1")
	if err != nil || resp.Chain.ID != "src1" {
		t.Fatalf("expected src1, got %+v err=%v", resp, err)
	}
}

func TestCreeps_SortedWithMemory(t *testing.T) {
	uc, _ := fixture(t)
	resp, err := uc.Creeps(context.Background())
	if err != nil {
		t.Fatalf("Creeps error: %v", err)
	}
	if len(resp.Creeps) != 2 || resp.Creeps[0].Name != "head" || resp.Creeps[1].Name != "stray" {
		t.Fatalf("expected head then stray, got %+v", resp.Creeps)
	}
	if resp.Creeps[0].Role != string(role.Head) || resp.Creeps[0].ChainID != "src1" {
		t.Fatalf("expected head memory joined, got %+v", resp.Creeps[0])
	}
	if resp.Creeps[1].Role != "" || !resp.Creeps[1].Spawning {
		t.Fatalf("expected stray without memory, got %+v", resp.Creeps[1])
	}
}

func TestRoom_ServesSummary(t *testing.T) {
	uc, _ := fixture(t)
	resp, err := uc.Room(context.Background(), "W1N1")
	if err != nil {
		t.Fatalf("Room error: %v", err)
	}
	if !resp.Visible || resp.EnergyAvailable != 250 || resp.Units != 2 || len(resp.Towers) != 0 || resp.Towers == nil {
		t.Fatalf("unexpected room: %+v", resp)
	}
	if _, err := uc.Room(context.Background(), "E5S5"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLastTick_CountsFailures(t *testing.T) {
	uc := UseCase{Ticks: fixedTicks{rec: ports.TickRecord{
		Tick: 9,
		Actions: []ports.ActionOutcome{
			{Unit: "a", Action: "harvest", Code: world.ResultOK},
			{Unit: "b", Action: "move", Code: world.ResultNotInRange},
			{Unit: "c", Action: "transfer", Code: world.ResultFull},
			{Unit: "d", Action: "idle"},
		},
		Spawns: []ports.SpawnOutcome{{SpawnID: "s", Name: "n", Role: "harvester", Cost: 200, Code: world.ResultOK}},
	}}}
	resp := uc.LastTick(context.Background())
	if resp.Tick != 9 || resp.Actions != 4 || resp.Failed != 1 || len(resp.Spawns) != 1 || resp.Errors == nil {
		t.Fatalf("unexpected tick summary: %+v", resp)
	}
}

func TestUseCase_PropagatesWorldError(t *testing.T) {
	wantErr := errors.New("world down")
	uc := UseCase{Store: kv.NewStore(memory.NewStore()), World: mock.Provider{Err: wantErr}}
	if _, err := uc.Chains(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected world error %v, got %v", wantErr, err)
	}
	if _, err := uc.Creeps(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected world error %v, got %v", wantErr, err)
	}
}
