package forkchoice

import (
	"fmt"
	"sync"

	"github.com/bomanaps/zeam/storage"
	"github.com/bomanaps/zeam/types"
)

// Store tracks the block/state DAG and validator votes used to compute
// the canonical head. LatestKnownVotes holds votes already folded into
// the head computation; LatestNewVotes holds votes received since the
// last accept boundary, staged separately so a byzantine burst of
// last-instant votes cannot move the head before the slot's attest
// interval closes.
type Store struct {
	mu sync.Mutex

	Time            uint64
	GenesisTime     uint64
	Config          *types.Config
	NumValidators   uint64
	Head            [32]byte
	SafeTarget      [32]byte
	LatestJustified *types.Checkpoint
	LatestFinalized *types.Checkpoint
	Storage         storage.Store

	LatestKnownVotes map[uint64]*types.SignedAttestation
	LatestNewVotes   map[uint64]*types.SignedAttestation
}

// NewStore initializes a store from an anchor state and the block whose
// post-state it is. The anchor is typically the genesis block/state, or
// the most recently persisted checkpoint on restart.
func NewStore(state *types.State, anchorBlock *types.Block, genesisTime uint64, store storage.Store) (*Store, error) {
	stateRoot, err := state.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	if anchorBlock.StateRoot != stateRoot {
		return nil, fmt.Errorf("forkchoice: anchor block state root mismatch: block=%x state=%x", anchorBlock.StateRoot, stateRoot)
	}

	anchorRoot, err := anchorBlock.HashTreeRoot()
	if err != nil {
		return nil, err
	}

	store.PutBlock(anchorRoot, anchorBlock)
	store.PutState(anchorRoot, state)

	return &Store{
		Time:             anchorBlock.Slot * types.IntervalsPerSlot,
		GenesisTime:      genesisTime,
		Config:           state.Config,
		NumValidators:    uint64(state.Config.NumValidators),
		Head:             anchorRoot,
		SafeTarget:       anchorRoot,
		LatestJustified:  state.LatestJustified,
		LatestFinalized:  state.LatestFinalized,
		Storage:          store,
		LatestKnownVotes: make(map[uint64]*types.SignedAttestation),
		LatestNewVotes:   make(map[uint64]*types.SignedAttestation),
	}, nil
}
