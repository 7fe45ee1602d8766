package worker

import (
	"errors"
	"fmt"

	"colonyai/internal/domain/behavior"
	"colonyai/internal/domain/role"
)

var (
	ErrMissingChain     = errors.New("chain record missing")
	ErrInvalidNodeIndex = errors.New("invalid node index")
	ErrMissingSource    = behavior.ErrMissingSource
	ErrUnknownRole      = errors.New("unknown role")
)

type MissingChainError struct {
	Unit    string
	ChainID string
}

func (e *MissingChainError) Error() string {
	return fmt.Sprintf("unit %s: chain %q not found", e.Unit, e.ChainID)
}

func (e *MissingChainError) Unwrap() error { return ErrMissingChain }

type InvalidNodeIndexError struct {
	Unit    string
	ChainID string
	Index   int
	Len     int
	Role    role.Kind
}

func (e *InvalidNodeIndexError) Error() string {
	return fmt.Sprintf("unit %s: node index %d invalid for role %s on chain %q of length %d", e.Unit, e.Index, e.Role, e.ChainID, e.Len)
}

func (e *InvalidNodeIndexError) Unwrap() error { return ErrInvalidNodeIndex }
