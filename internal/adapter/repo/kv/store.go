// Package kv maps the typed persisted store onto a namespaced JSON key-value backend.
package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"colonyai/internal/app/ports"
	"colonyai/internal/domain/chain"
	"colonyai/internal/domain/spawnplan"
	"colonyai/internal/domain/world"
)

type Store struct {
	backend Backend
}

func NewStore(backend Backend) Store {
	return Store{backend: backend}
}

func get[T any](ctx context.Context, b Backend, ns, key string) (T, error) {
	var out T
	raw, err := b.Get(ctx, ns, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s/%s: %w", ns, key, err)
	}
	return out, nil
}

func put(ctx context.Context, b Backend, ns, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", ns, key, err)
	}
	return b.Put(ctx, ns, key, raw)
}

func (s Store) GetChain(ctx context.Context, id string) (chain.Record, error) {
	return get[chain.Record](ctx, s.backend, NamespaceChains, id)
}

func (s Store) ListChains(ctx context.Context) ([]ports.ChainEntry, error) {
	entries, err := s.backend.List(ctx, NamespaceChains)
	if err != nil {
		return nil, err
	}
	out := make([]ports.ChainEntry, 0, len(entries))
	for _, e := range entries {
		var rec chain.Record
		if err := json.Unmarshal(e.Value, &rec); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", NamespaceChains, e.Key, err)
		}
		out = append(out, ports.ChainEntry{ID: e.Key, Record: rec})
	}
	return out, nil
}

func (s Store) CreateChain(ctx context.Context, id string, rec chain.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", NamespaceChains, id, err)
	}
	return s.backend.Insert(ctx, NamespaceChains, id, raw)
}

func (s Store) SaveChain(ctx context.Context, id string, rec chain.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return put(ctx, s.backend, NamespaceChains, id, rec)
}

func (s Store) DeleteChain(ctx context.Context, id string) error {
	return s.backend.Delete(ctx, NamespaceChains, id)
}

// ChainsDocument renders the energyChains namespace as one JSON object keyed by chain id.
func (s Store) ChainsDocument(ctx context.Context) ([]byte, error) {
	entries, err := s.backend.List(ctx, NamespaceChains)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]json.RawMessage, len(entries))
	for _, e := range entries {
		doc[e.Key] = json.RawMessage(e.Value)
	}
	return json.Marshal(doc)
}

func (s Store) GetCreepMemory(ctx context.Context, name string) (world.UnitMemory, error) {
	return get[world.UnitMemory](ctx, s.backend, NamespaceCreeps, name)
}

func (s Store) SaveCreepMemory(ctx context.Context, name string, mem world.UnitMemory) error {
	return put(ctx, s.backend, NamespaceCreeps, name, mem)
}

func (s Store) DeleteCreepMemory(ctx context.Context, name string) error {
	return s.backend.Delete(ctx, NamespaceCreeps, name)
}

func (s Store) ListCreepMemory(ctx context.Context) (map[string]world.UnitMemory, error) {
	return list[world.UnitMemory](ctx, s.backend, NamespaceCreeps)
}

func (s Store) GetColonyConfig(ctx context.Context) (spawnplan.ColonyConfig, error) {
	return get[spawnplan.ColonyConfig](ctx, s.backend, NamespaceColony, colonyConfigKey)
}

func (s Store) SaveColonyConfig(ctx context.Context, cfg spawnplan.ColonyConfig) error {
	return put(ctx, s.backend, NamespaceColony, colonyConfigKey, cfg)
}

func (s Store) GetRoomMemory(ctx context.Context, regionID string) (ports.RoomMemory, error) {
	return get[ports.RoomMemory](ctx, s.backend, NamespaceRooms, regionID)
}

func (s Store) SaveRoomMemory(ctx context.Context, regionID string, mem ports.RoomMemory) error {
	return put(ctx, s.backend, NamespaceRooms, regionID, mem)
}

func (s Store) DeleteRoomMemory(ctx context.Context, regionID string) error {
	return s.backend.Delete(ctx, NamespaceRooms, regionID)
}

func (s Store) ListRoomMemory(ctx context.Context) (map[string]ports.RoomMemory, error) {
	return list[ports.RoomMemory](ctx, s.backend, NamespaceRooms)
}

func list[T any](ctx context.Context, b Backend, ns string) (map[string]T, error) {
	entries, err := b.List(ctx, ns)
	if err != nil {
		return nil, err
	}
	out := make(map[string]T, len(entries))
	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.Value, &v); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", ns, e.Key, err)
		}
		out[e.Key] = v
	}
	return out, nil
}
