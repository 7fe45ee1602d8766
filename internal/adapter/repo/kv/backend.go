package kv

import "context"

const (
	NamespaceChains = "energyChains"
	NamespaceCreeps = "creeps"
	NamespaceColony = "colony"
	NamespaceRooms  = "rooms"
)

const colonyConfigKey = "config"

type Entry struct {
	Key   string
	Value []byte
}

// Backend stores raw JSON values under (namespace, key). Get returns ports.ErrNotFound for a
// missing key, Insert returns ports.ErrConflict for an existing one, and List keeps first-insert
// order so chain iteration stays stable across restarts.
type Backend interface {
	Get(ctx context.Context, ns, key string) ([]byte, error)
	Put(ctx context.Context, ns, key string, value []byte) error
	Insert(ctx context.Context, ns, key string, value []byte) error
	Delete(ctx context.Context, ns, key string) error
	List(ctx context.Context, ns string) ([]Entry, error)
}
