package memory

import (
	"context"
	"sync"

	"colonyai/internal/adapter/repo/kv"
	"colonyai/internal/app/ports"
)

type namespace struct {
	order  []string
	values map[string][]byte
}

// Store is an in-process kv.Backend. Values are copied on the way in and out.
type Store struct {
	mu     sync.RWMutex
	txMu   sync.Mutex
	spaces map[string]*namespace
}

func NewStore() *Store {
	return &Store{spaces: make(map[string]*namespace)}
}

func (s *Store) space(ns string) *namespace {
	sp, ok := s.spaces[ns]
	if !ok {
		sp = &namespace{values: make(map[string][]byte)}
		s.spaces[ns] = sp
	}
	return sp
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}

func (s *Store) Get(_ context.Context, ns, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.spaces[ns]
	if !ok {
		return nil, ports.ErrNotFound
	}
	v, ok := sp.values[key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(v), nil
}

func (s *Store) Put(_ context.Context, ns, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp := s.space(ns)
	if _, ok := sp.values[key]; !ok {
		sp.order = append(sp.order, key)
	}
	sp.values[key] = clone(value)
	return nil
}

func (s *Store) Insert(_ context.Context, ns, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp := s.space(ns)
	if _, ok := sp.values[key]; ok {
		return ports.ErrConflict
	}
	sp.order = append(sp.order, key)
	sp.values[key] = clone(value)
	return nil
}

func (s *Store) Delete(_ context.Context, ns, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.spaces[ns]
	if !ok {
		return nil
	}
	if _, ok := sp.values[key]; !ok {
		return nil
	}
	delete(sp.values, key)
	for i, k := range sp.order {
		if k == key {
			sp.order = append(sp.order[:i], sp.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) List(_ context.Context, ns string) ([]kv.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.spaces[ns]
	if !ok {
		return []kv.Entry{}, nil
	}
	out := make([]kv.Entry, 0, len(sp.order))
	for _, k := range sp.order {
		out = append(out, kv.Entry{Key: k, Value: clone(sp.values[k])})
	}
	return out, nil
}
