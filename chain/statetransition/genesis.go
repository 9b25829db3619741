package statetransition

import (
	"github.com/bomanaps/zeam/ssz"
	"github.com/bomanaps/zeam/types"
)

// GenerateGenesis builds the genesis state from a genesis specification:
// slot 0, an empty-bodied latest block header, justified and finalized
// checkpoints both pointing at the zero root, and empty historical and
// justification collections.
func GenerateGenesis(spec *types.GenesisSpec) (*types.State, error) {
	emptyBody := &types.BlockBody{Attestations: []*types.SignedAttestation{}}
	bodyRoot, err := emptyBody.HashTreeRoot()
	if err != nil {
		return nil, err
	}

	genesisHeader := &types.BlockHeader{
		Slot:          0,
		ProposerIndex: 0,
		ParentRoot:    types.ZeroHash,
		StateRoot:     types.ZeroHash,
		BodyRoot:      bodyRoot,
	}

	return &types.State{
		Config: &types.Config{
			NumValidators: uint32(len(spec.ValidatorPubkeys)),
			GenesisTime:   spec.GenesisTime,
		},
		Slot:                     0,
		LatestBlockHeader:        genesisHeader,
		LatestJustified:          &types.Checkpoint{Root: types.ZeroHash, Slot: 0},
		LatestFinalized:          &types.Checkpoint{Root: types.ZeroHash, Slot: 0},
		HistoricalBlockHashes:    [][32]byte{},
		JustifiedSlots:           ssz.NewBitlist(),
		JustificationsRoots:      [][32]byte{},
		JustificationsValidators: ssz.NewBitlist(),
	}, nil
}
