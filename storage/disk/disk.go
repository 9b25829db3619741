// Package disk implements storage.Store on top of LevelDB: a
// crash-consistent block/state store whose contents survive a restart.
// The node built by package node uses storage/memory and does not open
// this store.
package disk

import (
	"fmt"

	"github.com/bomanaps/zeam/types"
	"github.com/syndtr/goleveldb/leveldb"
)

const (
	blockPrefix = 'b'
	statePrefix = 's'
)

// Store is a LevelDB-backed block/state store. Each write commits
// through LevelDB's write-ahead log, so a process crash loses at most
// the in-flight write, never previously committed blocks or states.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) a LevelDB store rooted at dir.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("disk: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func blockKey(root [32]byte) []byte {
	key := make([]byte, 1+32)
	key[0] = blockPrefix
	copy(key[1:], root[:])
	return key
}

func stateKey(root [32]byte) []byte {
	key := make([]byte, 1+32)
	key[0] = statePrefix
	copy(key[1:], root[:])
	return key
}

// Has reports whether root names a known block or state.
func (s *Store) Has(root [32]byte) bool {
	if ok, _ := s.db.Has(blockKey(root), nil); ok {
		return true
	}
	ok, _ := s.db.Has(stateKey(root), nil)
	return ok
}

// PutBlock SSZ-encodes block and commits it under root.
func (s *Store) PutBlock(root [32]byte, block *types.Block) {
	data, err := block.MarshalSSZ()
	if err != nil {
		return
	}
	_ = s.db.Put(blockKey(root), data, nil)
}

// GetBlock decodes the block stored under root, if any.
func (s *Store) GetBlock(root [32]byte) (*types.Block, bool) {
	data, err := s.db.Get(blockKey(root), nil)
	if err != nil {
		return nil, false
	}
	block := new(types.Block)
	if err := block.UnmarshalSSZ(data); err != nil {
		return nil, false
	}
	return block, true
}

// PutState SSZ-encodes state and commits it under root.
func (s *Store) PutState(root [32]byte, state *types.State) {
	data, err := state.MarshalSSZ()
	if err != nil {
		return
	}
	_ = s.db.Put(stateKey(root), data, nil)
}

// GetState decodes the state stored under root, if any.
func (s *Store) GetState(root [32]byte) (*types.State, bool) {
	data, err := s.db.Get(stateKey(root), nil)
	if err != nil {
		return nil, false
	}
	state := new(types.State)
	if err := state.UnmarshalSSZ(data); err != nil {
		return nil, false
	}
	return state, true
}

// GetAllBlocks scans and decodes every stored block. Intended for fork
// choice initialization and tests, not the hot path.
func (s *Store) GetAllBlocks() map[[32]byte]*types.Block {
	out := make(map[[32]byte]*types.Block)
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		key := iter.Key()
		if len(key) != 33 || key[0] != blockPrefix {
			continue
		}
		block := new(types.Block)
		if err := block.UnmarshalSSZ(iter.Value()); err != nil {
			continue
		}
		var root [32]byte
		copy(root[:], key[1:])
		out[root] = block
	}
	return out
}

// GetAllStates scans and decodes every stored state. Intended for fork
// choice initialization and tests, not the hot path.
func (s *Store) GetAllStates() map[[32]byte]*types.State {
	out := make(map[[32]byte]*types.State)
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		key := iter.Key()
		if len(key) != 33 || key[0] != statePrefix {
			continue
		}
		state := new(types.State)
		if err := state.UnmarshalSSZ(iter.Value()); err != nil {
			continue
		}
		var root [32]byte
		copy(root[:], key[1:])
		out[root] = state
	}
	return out
}
