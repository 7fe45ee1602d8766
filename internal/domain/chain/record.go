// Package chain holds the persisted pipeline descriptor binding one source to the base.
package chain

import (
	"errors"
	"fmt"

	"colonyai/internal/domain/role"
	"colonyai/internal/domain/world"
)

const DefaultStride = 5

var ErrInvalidRecord = errors.New("invalid chain record")

// Record is persisted as energyChains[sourceId]. NodePositions and CreepNames are parallel.
type Record struct {
	SourceID      string             `json:"sourceId"`
	BasePos       world.RoomPosition `json:"basePos"`
	NodePositions []world.Point      `json:"nodePositions"`
	CreepNames    []string           `json:"creepNames"`
}

// SampleNodes takes every stride-th path cell starting at 0 and closes the chain on the anchor.
func SampleNodes(path []world.Point, anchor world.Point, stride int) []world.Point {
	if stride < 1 {
		stride = DefaultStride
	}
	nodes := make([]world.Point, 0, len(path)/stride+2)
	for i := 0; i < len(path); i += stride {
		nodes = append(nodes, path[i])
	}
	if len(nodes) == 0 || nodes[len(nodes)-1] != anchor {
		nodes = append(nodes, anchor)
	}
	return nodes
}

func NewRecord(sourceID string, base world.RoomPosition, path []world.Point, stride int) Record {
	nodes := SampleNodes(path, base.Point(), stride)
	return Record{
		SourceID:      sourceID,
		BasePos:       base,
		NodePositions: nodes,
		CreepNames:    make([]string, len(nodes)),
	}
}

func (r Record) Len() int {
	return len(r.NodePositions)
}

func (r Record) Validate() error {
	if r.SourceID == "" {
		return fmt.Errorf("%w: empty source id", ErrInvalidRecord)
	}
	if len(r.NodePositions) == 0 {
		return fmt.Errorf("%w: chain %s has no nodes", ErrInvalidRecord, r.SourceID)
	}
	if len(r.NodePositions) != len(r.CreepNames) {
		return fmt.Errorf("%w: chain %s has %d nodes but %d slots", ErrInvalidRecord, r.SourceID, len(r.NodePositions), len(r.CreepNames))
	}
	return nil
}

func (r Record) InBounds(i int) bool {
	return i >= 0 && i < len(r.NodePositions)
}

func (r Record) RoleAt(i int) role.Kind {
	return role.ForIndex(i, r.Len())
}

// NodePos returns the fixed node coordinate in the base region.
func (r Record) NodePos(i int) (world.RoomPosition, bool) {
	if !r.InBounds(i) {
		return world.RoomPosition{}, false
	}
	return r.NodePositions[i].In(r.BasePos.RegionID), true
}

func (r Record) Slot(i int) string {
	if i < 0 || i >= len(r.CreepNames) {
		return ""
	}
	return r.CreepNames[i]
}

// WithSlot returns a copy with slot i set to name; the receiver is left untouched.
func (r Record) WithSlot(i int, name string) (Record, error) {
	if !r.InBounds(i) || i >= len(r.CreepNames) {
		return r, fmt.Errorf("%w: slot %d out of range for chain %s", ErrInvalidRecord, i, r.SourceID)
	}
	out := r.Clone()
	out.CreepNames[i] = name
	return out, nil
}

func (r Record) Clone() Record {
	out := r
	out.NodePositions = append([]world.Point(nil), r.NodePositions...)
	out.CreepNames = append([]string(nil), r.CreepNames...)
	return out
}
