package world

// Cargo is an energy-only store; every container in this game carries energy alone.
type Cargo struct {
	Energy   int `json:"energy"`
	Capacity int `json:"capacity"`
}

func (c Cargo) Free() int {
	if c.Energy >= c.Capacity {
		return 0
	}
	return c.Capacity - c.Energy
}

func (c Cargo) Full() bool {
	return c.Capacity > 0 && c.Energy == c.Capacity
}

func (c Cargo) Empty() bool {
	return c.Energy <= 0
}
