// Package behavior turns a tick-start snapshot into the one action a unit should attempt.
// Every function here is pure: same inputs, same intent.
package behavior

import (
	"errors"

	"colonyai/internal/domain/world"
)

type IntentType string

const (
	IntentIdle     IntentType = "idle"
	IntentHarvest  IntentType = "harvest"
	IntentTransfer IntentType = "transfer"
	IntentWithdraw IntentType = "withdraw"
	IntentPickup   IntentType = "pickup"
	IntentBuild    IntentType = "build"
	IntentRepair   IntentType = "repair"
	IntentUpgrade  IntentType = "upgrade"
	IntentMove     IntentType = "move"
)

const (
	ReasonHold             = "hold"
	ReasonUpstreamEmpty    = "upstream_empty"
	ReasonDownstreamFull   = "downstream_full"
	ReasonNoDeliveryTarget = "no_delivery_target"
	ReasonNoTarget         = "no_target"
	ReasonSpawning         = "spawning"
)

// Work ranges; an action attempted from farther away comes back not-in-range.
const (
	RangeAdjacent = 1
	RangeRemote   = 3
)

var ErrMissingSource = errors.New("bound source not found")

// Intent names one primitive. Actor may differ from the unit being evaluated: a relay pulling
// from upstream makes the upstream unit transfer and, if needed, walk.
type Intent struct {
	Type      IntentType  `json:"type"`
	Actor     string      `json:"actor"`
	Target    string      `json:"target,omitempty"`
	TargetPos world.Point `json:"targetPos"`
	Range     int         `json:"range"`
	Reason    string      `json:"reason,omitempty"`
}

func idle(actor, reason string) Intent {
	return Intent{Type: IntentIdle, Actor: actor, Reason: reason}
}

// Decision pairs an intent with the unit memory to write back.
type Decision struct {
	Intent Intent
	Memory world.UnitMemory
}
