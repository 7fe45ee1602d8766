// Package spawnplan decides what a facility should spawn given live counts and the energy budget.
package spawnplan

import (
	"errors"
	"fmt"
	"sort"

	"colonyai/internal/domain/role"
	"colonyai/internal/domain/world"
)

const DefaultMaxScale = 5

var NodeBody = []world.BodyPart{world.PartWork, world.PartCarry, world.PartMove, world.PartMove}

var ErrInsufficientEnergy = errors.New("insufficient energy")

type InsufficientEnergyError struct {
	Role role.Kind
	Need int
	Have int
}

func (e *InsufficientEnergyError) Error() string {
	return fmt.Sprintf("insufficient energy to spawn %s (need: %d, have: %d)", e.Role, e.Need, e.Have)
}

func (e *InsufficientEnergyError) Unwrap() error { return ErrInsufficientEnergy }

type RoleConfig struct {
	Body     []world.BodyPart `json:"body"`
	MinCount int              `json:"minCount"`
	Priority int              `json:"priority"`
}

// ColonyConfig is persisted as config in the store; creepRoles drives population provisioning.
type ColonyConfig struct {
	CreepRoles map[role.Kind]RoleConfig `json:"creepRoles"`
}

func DefaultColonyConfig() ColonyConfig {
	base := []world.BodyPart{world.PartWork, world.PartCarry, world.PartMove}
	return ColonyConfig{CreepRoles: map[role.Kind]RoleConfig{
		role.Harvester: {Body: base, MinCount: 2, Priority: 1},
		role.Upgrader:  {Body: base, MinCount: 3, Priority: 2},
		role.Builder:   {Body: base, MinCount: 2, Priority: 3},
	}}
}

type RoleEntry struct {
	Role role.Kind
	RoleConfig
}

// Ordered sorts roles by ascending priority, breaking ties by name.
func (c ColonyConfig) Ordered() []RoleEntry {
	out := make([]RoleEntry, 0, len(c.CreepRoles))
	for k, v := range c.CreepRoles {
		out = append(out, RoleEntry{Role: k, RoleConfig: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Role < out[j].Role
	})
	return out
}

// ScaleBody repeats base as many times as energy allows, capped at maxScale. Nil means unaffordable.
func ScaleBody(base []world.BodyPart, energy, maxScale int) []world.BodyPart {
	cost := world.BodyCost(base)
	if len(base) == 0 || cost <= 0 || energy < cost {
		return nil
	}
	if maxScale <= 0 {
		maxScale = DefaultMaxScale
	}
	scale := energy / cost
	if scale > maxScale {
		scale = maxScale
	}
	body := make([]world.BodyPart, 0, len(base)*scale)
	for i := 0; i < scale; i++ {
		body = append(body, base...)
	}
	return body
}

type PopulationOrder struct {
	Role role.Kind
	Body []world.BodyPart
	Cost int
}

// PlanPopulation walks roles by priority and returns the first one below its minimum that the
// budget can afford. Roles that are short but unaffordable are reported in skipped.
func PlanPopulation(cfg ColonyConfig, counts map[role.Kind]int, energy, maxScale int) (order PopulationOrder, ok bool, skipped []error) {
	for _, entry := range cfg.Ordered() {
		if counts[entry.Role] >= entry.MinCount {
			continue
		}
		body := ScaleBody(entry.Body, energy, maxScale)
		if body == nil {
			skipped = append(skipped, &InsufficientEnergyError{Role: entry.Role, Need: world.BodyCost(entry.Body), Have: energy})
			continue
		}
		return PopulationOrder{Role: entry.Role, Body: body, Cost: world.BodyCost(body)}, true, skipped
	}
	return PopulationOrder{}, false, skipped
}

type NodeOrder struct {
	ChainID   string
	NodeIndex int
	Role      role.Kind
	Body      []world.BodyPart
	Cost      int
}

// PlanNode sizes the spawn for chain slot index. A nil body means NodeBody.
func PlanNode(chainID string, index, length int, body []world.BodyPart, energy int) (NodeOrder, error) {
	if len(body) == 0 {
		body = NodeBody
	}
	r := role.ForIndex(index, length)
	cost := world.BodyCost(body)
	if energy < cost {
		return NodeOrder{}, &InsufficientEnergyError{Role: r, Need: cost, Have: energy}
	}
	return NodeOrder{
		ChainID:   chainID,
		NodeIndex: index,
		Role:      r,
		Body:      append([]world.BodyPart(nil), body...),
		Cost:      cost,
	}, nil
}

func NodeName(chainID string, index int, tick int64) string {
	return fmt.Sprintf("%s_node%d_%d", chainID, index, tick%10000)
}

func PopulationName(r role.Kind, tick int64) string {
	return fmt.Sprintf("%s-%d", r, tick%10000)
}

// UniqueName appends -2, -3, ... until taken reports the name free.
func UniqueName(base string, taken func(string) bool) string {
	if taken == nil || !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s-%d", base, i)
		if !taken(name) {
			return name
		}
	}
}
