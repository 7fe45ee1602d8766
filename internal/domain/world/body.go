package world

import "fmt"

type BodyPart string

const (
	PartWork  BodyPart = "work"
	PartCarry BodyPart = "carry"
	PartMove  BodyPart = "move"
)

const (
	CarryCapacityPerPart = 50
	HarvestPowerPerWork  = 2
	UpgradePowerPerWork  = 1
	BuildPowerPerWork    = 5
	RepairPowerPerWork   = 100
	SpawnTicksPerPart    = 3
	UnitLifetimeTicks    = 1500
)

var BodyPartCost = map[BodyPart]int{
	PartWork:  100,
	PartCarry: 50,
	PartMove:  50,
}

func ParseBodyPart(s string) (BodyPart, error) {
	p := BodyPart(s)
	if _, ok := BodyPartCost[p]; !ok {
		return "", fmt.Errorf("unknown body part %q", s)
	}
	return p, nil
}

func BodyCost(parts []BodyPart) int {
	total := 0
	for _, p := range parts {
		total += BodyPartCost[p]
	}
	return total
}

func CountParts(parts []BodyPart, kind BodyPart) int {
	n := 0
	for _, p := range parts {
		if p == kind {
			n++
		}
	}
	return n
}
