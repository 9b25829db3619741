// Package memory implements storage.Store as a process-local map, used
// by single-node test setups and anywhere durability across restarts
// does not matter.
package memory

import (
	"sync"

	"github.com/bomanaps/zeam/types"
)

// Store is an in-memory, concurrency-safe block/state store.
type Store struct {
	mu     sync.RWMutex
	blocks map[[32]byte]*types.Block
	states map[[32]byte]*types.State
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		blocks: make(map[[32]byte]*types.Block),
		states: make(map[[32]byte]*types.State),
	}
}

// Has reports whether root names a known block or state.
func (s *Store) Has(root [32]byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, hasBlock := s.blocks[root]
	_, hasState := s.states[root]
	return hasBlock || hasState
}

// PutBlock stores block under root.
func (s *Store) PutBlock(root [32]byte, block *types.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[root] = block
}

// GetBlock returns the block stored under root, if any.
func (s *Store) GetBlock(root [32]byte) (*types.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blocks[root]
	return b, ok
}

// PutState stores state under root.
func (s *Store) PutState(root [32]byte, state *types.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[root] = state
}

// GetState returns the state stored under root, if any.
func (s *Store) GetState(root [32]byte) (*types.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[root]
	return st, ok
}

// GetAllBlocks returns a shallow copy of the block map, safe for the
// caller to mutate.
func (s *Store) GetAllBlocks() map[[32]byte]*types.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[[32]byte]*types.Block, len(s.blocks))
	for k, v := range s.blocks {
		out[k] = v
	}
	return out
}

// GetAllStates returns a shallow copy of the state map, safe for the
// caller to mutate.
func (s *Store) GetAllStates() map[[32]byte]*types.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[[32]byte]*types.State, len(s.states))
	for k, v := range s.states {
		out[k] = v
	}
	return out
}
