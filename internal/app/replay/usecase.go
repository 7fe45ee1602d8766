// Package replay reads the tick journal back and aggregates what happened over a tick range.
package replay

import (
	"context"
	"errors"

	"colonyai/internal/app/ports"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	History ports.TickHistory
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.From < 0 || req.To < 0 || req.Limit < 0 || (req.To > 0 && req.From > req.To) {
		return Response{}, ErrInvalidRequest
	}
	if u.History == nil {
		return Response{}, ports.ErrNotFound
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	ticks, err := u.History.ListTicks(ctx, req.From, req.To, limit)
	if err != nil {
		return Response{}, err
	}
	return summarize(ticks), nil
}

func summarize(ticks []ports.TickRecord) Response {
	out := Response{Ticks: ticks, ActionCodes: map[string]int{}}
	if out.Ticks == nil {
		out.Ticks = []ports.TickRecord{}
	}
	for i, rec := range ticks {
		if i == 0 {
			out.FirstTick = rec.Tick
		}
		out.LastTick = rec.Tick
		out.Actions += len(rec.Actions)
		out.Spawns += len(rec.Spawns)
		out.Faults += len(rec.Errors)
		for _, a := range rec.Actions {
			if a.Code != "" {
				out.ActionCodes[string(a.Code)]++
			}
		}
	}
	return out
}
