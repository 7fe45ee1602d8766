package ports

import (
	"context"

	"colonyai/internal/domain/world"
)

type WorldProvider interface {
	Snapshot(ctx context.Context) (world.Snapshot, error)
}

// Actuator issues primitive actions against the live world. Each call reports a result code;
// effects become visible in the next snapshot.
type Actuator interface {
	Harvest(ctx context.Context, unit, sourceID string) world.ResultCode
	Transfer(ctx context.Context, from, to string, amount int) world.ResultCode
	Withdraw(ctx context.Context, unit, structureID string) world.ResultCode
	Pickup(ctx context.Context, unit, dropID string) world.ResultCode
	Build(ctx context.Context, unit, siteID string) world.ResultCode
	Repair(ctx context.Context, unit, structureID string) world.ResultCode
	UpgradeController(ctx context.Context, unit, controllerID string) world.ResultCode
	Move(ctx context.Context, unit string, next world.Point) world.ResultCode
	SpawnCreep(ctx context.Context, spawnID string, body []world.BodyPart, name string, mem world.UnitMemory) world.ResultCode
}

// WorldClock advances the simulated world by one tick once every decision has been issued.
type WorldClock interface {
	Advance(ctx context.Context) error
}
