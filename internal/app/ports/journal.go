package ports

import (
	"context"

	"colonyai/internal/domain/world"
)

type ActionOutcome struct {
	Unit   string           `json:"unit"`
	Action string           `json:"action"`
	Actor  string           `json:"actor,omitempty"`
	Target string           `json:"target,omitempty"`
	Code   world.ResultCode `json:"code,omitempty"`
	Reason string           `json:"reason,omitempty"`
}

type SpawnOutcome struct {
	SpawnID string           `json:"spawnId"`
	Name    string           `json:"name"`
	Role    string           `json:"role"`
	Cost    int              `json:"cost"`
	Code    world.ResultCode `json:"code"`
}

// TickRecord is one line of the tick journal.
type TickRecord struct {
	Tick    int64           `json:"tick"`
	Chains  int             `json:"chains"`
	Units   int             `json:"units"`
	Actions []ActionOutcome `json:"actions"`
	Spawns  []SpawnOutcome  `json:"spawns"`
	Errors  []string        `json:"errors,omitempty"`
}

type TickJournal interface {
	Append(ctx context.Context, rec TickRecord) error
}

// TickHistory reads journaled ticks back. Zero from/to leave that bound open; limit keeps the
// most recent records.
type TickHistory interface {
	ListTicks(ctx context.Context, from, to int64, limit int) ([]TickRecord, error)
}
