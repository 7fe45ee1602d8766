// Package role defines the closed set of unit roles and how chain indices map onto them.
package role

import "fmt"

type Kind string

const (
	Head      Kind = "harvestNode"
	Relay     Kind = "transferNode"
	Tail      Kind = "baseNode"
	Harvester Kind = "harvester"
	Upgrader  Kind = "upgrader"
	Builder   Kind = "builder"
)

var all = []Kind{Head, Relay, Tail, Harvester, Upgrader, Builder}

func Parse(s string) (Kind, error) {
	for _, k := range all {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (k Kind) IsChainNode() bool {
	return k == Head || k == Relay || k == Tail
}

func (k Kind) IsPopulation() bool {
	return k == Harvester || k == Upgrader || k == Builder
}

// ForIndex assigns the node role for slot i of an n-long chain. Index 0 wins over tail when n == 1.
func ForIndex(i, n int) Kind {
	switch {
	case i == 0:
		return Head
	case i == n-1:
		return Tail
	default:
		return Relay
	}
}
