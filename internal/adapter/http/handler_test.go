package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"colonyai/internal/adapter/repo/kv"
	"colonyai/internal/adapter/repo/memory"
	"colonyai/internal/adapter/world/mock"
	"colonyai/internal/app/ports"
	"colonyai/internal/app/replay"
	"colonyai/internal/app/status"
	"colonyai/internal/domain/chain"
	"colonyai/internal/domain/role"
	"colonyai/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
)

func newHandler(t *testing.T) (Handler, kv.Store) {
	t.Helper()
	store := kv.NewStore(memory.NewStore())
	ctx := context.Background()
	rec := chain.Record{
		SourceID:      "src1",
		BasePos:       world.RoomPosition{X: 25, Y: 25, RegionID: "W1N1"},
		NodePositions: []world.Point{{X: 20, Y: 25}, {X: 25, Y: 25}},
		CreepNames:    []string{"src1_node0_3", ""},
	}
	if err := store.CreateChain(ctx, "src1", rec); err != nil {
		t.Fatalf("seed chain: %v", err)
	}
	if err := store.SaveCreepMemory(ctx, "src1_node0_3", world.UnitMemory{Role: role.Head, ChainID: "src1"}); err != nil {
		t.Fatalf("seed memory: %v", err)
	}
	if err := store.SaveRoomMemory(ctx, "W1N1", ports.RoomMemory{EnergyAvailable: 300}); err != nil {
		t.Fatalf("seed room: %v", err)
	}
	snap := world.Snapshot{
		Tick:    12,
		Regions: map[string]world.Region{"W1N1": {ID: "W1N1"}},
		Units: map[string]world.Unit{
			"src1_node0_3": {Name: "src1_node0_3", Pos: world.Point{X: 20, Y: 25}, RegionID: "W1N1", Cargo: world.Cargo{Capacity: 50}},
		},
	}
	return Handler{
		StatusUC:  status.UseCase{Store: store, World: mock.Provider{World: snap}},
		Documents: store,
	}, store
}

func decodeBody(t *testing.T, ctx *app.RequestContext) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode body: %v (%s)", err, string(ctx.Response.Body()))
	}
	return body
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestChains_OK(t *testing.T) {
	h, _ := newHandler(t)
	ctx := &app.RequestContext{}

	h.chains(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	body := decodeBody(t, ctx)
	chains, _ := body["chains"].([]any)
	if len(chains) != 1 {
		t.Fatalf("expected one chain, got %v", body)
	}
	first := asMap(chains[0])
	if first["id"] != "src1" || first["staffed"] != float64(1) {
		t.Fatalf("unexpected chain payload: %v", first)
	}
}

func TestChain_NotFound(t *testing.T) {
	h, _ := newHandler(t)
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "id", Value: "missing"}}

	h.chain(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := errorCode(decodeBody(t, ctx)); got != "not_found" {
		t.Fatalf("expected not_found, got %q", got)
	}
}

func TestChain_BlankIDIsBadRequest(t *testing.T) {
	h, _ := newHandler(t)
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "id", Value: " "}}

	h.chain(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestCreeps_OK(t *testing.T) {
	h, _ := newHandler(t)
	ctx := &app.RequestContext{}

	h.creeps(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	creeps, _ := decodeBody(t, ctx)["creeps"].([]any)
	if len(creeps) != 1 || asMap(creeps[0])["role"] != string(role.Head) {
		t.Fatalf("unexpected creeps payload: %v", creeps)
	}
}

func TestRoom_OKAndMissing(t *testing.T) {
	h, _ := newHandler(t)
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "name", Value: "W1N1"}}
	h.room(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := decodeBody(t, ctx)["energy_available"]; got != float64(300) {
		t.Fatalf("expected energy_available 300, got %v", got)
	}

	missing := &app.RequestContext{}
	missing.Params = param.Params{{Key: "name", Value: "E1S1"}}
	h.room(context.Background(), missing)
	if got, want := missing.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestChainsDocument_ServesRawMemory(t *testing.T) {
	h, _ := newHandler(t)
	ctx := &app.RequestContext{}

	h.chainsDocument(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var doc map[string]chain.Record
	if err := json.Unmarshal(ctx.Response.Body(), &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if doc["src1"].SourceID != "src1" || len(doc["src1"].CreepNames) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestKPI_NotConfigured(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}

	h.kpi(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := errorCode(decodeBody(t, ctx)); got != "not_configured" {
		t.Fatalf("expected not_configured, got %q", got)
	}
}

type fakeKPI struct{}

func (fakeKPI) SnapshotAny() any { return map[string]int{"ticks": 3} }

func TestKPI_OK(t *testing.T) {
	h := Handler{KPI: fakeKPI{}}
	ctx := &app.RequestContext{}

	h.kpi(context.Background(), ctx)

	if got := decodeBody(t, ctx)["ticks"]; got != float64(3) {
		t.Fatalf("expected ticks 3, got %v", got)
	}
}

type fakeStepper struct {
	calls int
	err   error
	last  *ports.TickRecord
}

func (s *fakeStepper) Step(_ context.Context) (ports.TickRecord, error) {
	s.calls++
	if s.err != nil {
		return ports.TickRecord{}, s.err
	}
	s.last.Tick++
	return *s.last, nil
}

func (s *fakeStepper) Last() ports.TickRecord { return *s.last }

func TestStep_RunsTickAndReturnsSummary(t *testing.T) {
	stepper := &fakeStepper{last: &ports.TickRecord{Tick: 4}}
	h := Handler{StatusUC: status.UseCase{Ticks: stepper}, Stepper: stepper}
	ctx := &app.RequestContext{}

	h.step(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if stepper.calls != 1 || decodeBody(t, ctx)["tick"] != float64(5) {
		t.Fatalf("expected one step reaching tick 5, got calls=%d body=%s", stepper.calls, string(ctx.Response.Body()))
	}
}

func TestStep_ErrorIsInternal(t *testing.T) {
	stepper := &fakeStepper{err: errors.New("boom"), last: &ports.TickRecord{}}
	h := Handler{Stepper: stepper}
	ctx := &app.RequestContext{}

	h.step(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusInternalServerError; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
		code string
	}{
		{status.ErrInvalidRequest, consts.StatusBadRequest, "bad_request"},
		{fmt.Errorf("wrap: %w", ports.ErrNotFound), consts.StatusNotFound, "not_found"},
		{ports.ErrConflict, consts.StatusConflict, "conflict"},
		{chain.ErrInvalidRecord, consts.StatusUnprocessableEntity, "invalid_chain"},
		{errors.New("other"), consts.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, tc.err)
		if got := ctx.Response.StatusCode(); got != tc.want {
			t.Fatalf("%v: status mismatch: got=%d want=%d", tc.err, got, tc.want)
		}
		if got := errorCode(decodeBody(t, ctx)); got != tc.code {
			t.Fatalf("%v: code mismatch: got=%q want=%q", tc.err, got, tc.code)
		}
	}
}

func TestJournal_NotConfigured(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}

	h.journal(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

type fakeHistory struct{ ticks []ports.TickRecord }

func (f fakeHistory) ListTicks(_ context.Context, _, _ int64, _ int) ([]ports.TickRecord, error) {
	return f.ticks, nil
}

func TestJournal_QueryAndBadRange(t *testing.T) {
	h := Handler{ReplayUC: replay.UseCase{History: fakeHistory{ticks: []ports.TickRecord{{Tick: 8}, {Tick: 9}}}}}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/ops/journal?from=8&limit=2")

	h.journal(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := decodeBody(t, ctx)["last_tick"]; got != float64(9) {
		t.Fatalf("expected last_tick 9, got %v", got)
	}

	bad := &app.RequestContext{}
	bad.Request.SetRequestURI("/ops/journal?from=9&to=3")
	h.journal(context.Background(), bad)
	if got, want := bad.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}
