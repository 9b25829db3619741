// Package storage defines the block/state key-value contract the fork
// choice store persists through, and its in-memory (package memory) and
// crash-consistent on-disk (package disk) implementations.
package storage

import "github.com/bomanaps/zeam/types"

// Store is the block/state persistence contract the fork choice layer
// runs against. PutBlock/PutState are expected to be idempotent:
// re-inserting the same root is a no-op, not an error.
type Store interface {
	Has(root [32]byte) bool
	PutBlock(root [32]byte, block *types.Block)
	GetBlock(root [32]byte) (*types.Block, bool)
	PutState(root [32]byte, state *types.State)
	GetState(root [32]byte) (*types.State, bool)
	GetAllBlocks() map[[32]byte]*types.Block
	GetAllStates() map[[32]byte]*types.State
}
