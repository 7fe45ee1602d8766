package replay

import "colonyai/internal/app/ports"

type Request struct {
	From  int64
	To    int64
	Limit int
}

type Response struct {
	Ticks       []ports.TickRecord `json:"ticks"`
	FirstTick   int64              `json:"first_tick"`
	LastTick    int64              `json:"last_tick"`
	Actions     int                `json:"actions"`
	Spawns      int                `json:"spawns"`
	Faults      int                `json:"faults"`
	ActionCodes map[string]int     `json:"action_codes"`
}
