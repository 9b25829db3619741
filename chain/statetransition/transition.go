package statetransition

import (
	"github.com/bomanaps/zeam/leansig"
	"github.com/bomanaps/zeam/ssz"
	"github.com/bomanaps/zeam/types"
)

// IsProposer reports whether validatorIndex is the round-robin proposer
// for slot: slot mod numValidators == validatorIndex.
func IsProposer(validatorIndex uint32, slot uint64, numValidators uint32) bool {
	if numValidators == 0 {
		return false
	}
	return slot%uint64(numValidators) == uint64(validatorIndex)
}

// ProcessSlot performs per-slot maintenance: if the latest block header
// still carries a zero state_root (it was installed by ProcessBlockHeader
// and not yet backfilled), the current state's root is cached into it.
func ProcessSlot(state *types.State) (*types.State, error) {
	if state.LatestBlockHeader.StateRoot != types.ZeroHash {
		return state, nil
	}
	stateRoot, err := state.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	out := state.Copy()
	out.LatestBlockHeader.StateRoot = stateRoot
	return out, nil
}

// ProcessSlots advances state through empty slots up to, but not
// including, targetSlot.
func ProcessSlots(state *types.State, targetSlot uint64) (*types.State, error) {
	if targetSlot <= state.Slot {
		return nil, newErr(InvalidPreState, "target slot %d must be after current slot %d", targetSlot, state.Slot)
	}
	s := state
	for s.Slot < targetSlot {
		next, err := ProcessSlot(s)
		if err != nil {
			return nil, err
		}
		out := next.Copy()
		out.Slot = s.Slot + 1
		s = out
	}
	return s, nil
}

// ProcessBlockHeader validates a block's header against the pre-state and
// installs it as the new latest block header, backfilling historical
// hashes and justified-slot bits for any slots the block skips over.
func ProcessBlockHeader(state *types.State, block *types.Block) (*types.State, error) {
	if block.Slot != state.Slot {
		return nil, newErr(InvalidLatestBlockHeader, "block slot %d != state slot %d", block.Slot, state.Slot)
	}
	if block.Slot <= state.LatestBlockHeader.Slot {
		return nil, newErr(InvalidLatestBlockHeader, "block slot %d <= latest header slot %d", block.Slot, state.LatestBlockHeader.Slot)
	}
	if !IsProposer(block.ProposerIndex, state.Slot, state.Config.NumValidators) {
		return nil, newErr(InvalidProposer, "validator %d is not proposer for slot %d", block.ProposerIndex, state.Slot)
	}

	expectedParent, err := state.LatestBlockHeader.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	if block.ParentRoot != expectedParent {
		return nil, newErr(InvalidParentRoot, "parent root mismatch: expected %x, got %x", expectedParent, block.ParentRoot)
	}

	out := state.Copy()
	parentRoot := block.ParentRoot

	// The first block after genesis retroactively fills in the genesis
	// checkpoints' root, unknown (zero) until the genesis header's hash
	// can actually be computed.
	if state.LatestBlockHeader.Slot == 0 {
		out.LatestJustified = &types.Checkpoint{Root: parentRoot, Slot: state.LatestJustified.Slot}
		out.LatestFinalized = &types.Checkpoint{Root: parentRoot, Slot: state.LatestFinalized.Slot}
	}

	out.HistoricalBlockHashes = append(out.HistoricalBlockHashes, parentRoot)
	out.JustifiedSlots = ssz.AppendBit(out.JustifiedSlots, state.LatestBlockHeader.Slot == 0)

	numEmpty := block.Slot - state.LatestBlockHeader.Slot - 1
	for i := uint64(0); i < numEmpty; i++ {
		out.HistoricalBlockHashes = append(out.HistoricalBlockHashes, types.ZeroHash)
		out.JustifiedSlots = ssz.AppendBit(out.JustifiedSlots, false)
	}

	bodyRoot, err := block.Body.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	out.LatestBlockHeader = &types.BlockHeader{
		Slot:          block.Slot,
		ProposerIndex: block.ProposerIndex,
		ParentRoot:    block.ParentRoot,
		BodyRoot:      bodyRoot,
		StateRoot:     types.ZeroHash,
	}

	return out, nil
}

// ProcessBlock applies header processing followed by attestation
// processing.
func ProcessBlock(state *types.State, block *types.Block) (*types.State, error) {
	s, err := ProcessBlockHeader(state, block)
	if err != nil {
		return nil, err
	}
	return ProcessAttestations(s, block.Body.Attestations)
}

// TransitionOptions controls the optional, expensive parts of
// ApplyTransition: signature verification needs a validator-index-keyed
// public key table the caller resolves from its own validator registry
// (state no longer carries one), and result validation recomputes the
// post-state root to cross-check against the block's declared value.
type TransitionOptions struct {
	VerifySignatures bool
	ValidateResult   bool
	ValidatorPubkeys []leansig.PublicKey
}

// ApplyTransition runs the full state-transition pipeline for a signed
// block: optional signature verification, advancing through any skipped
// slots, installing the block's header, folding in its attestations, and
// optionally checking the block's state root against the resulting
// state's root.
func ApplyTransition(state *types.State, signed *types.SignedBlock, opts TransitionOptions) (*types.State, error) {
	block := signed.Message

	if opts.VerifySignatures {
		if err := verifyBlockSignatures(signed, opts.ValidatorPubkeys); err != nil {
			return nil, err
		}
	}

	s, err := ProcessSlots(state, block.Slot)
	if err != nil {
		return nil, err
	}

	s, err = ProcessBlock(s, block)
	if err != nil {
		return nil, err
	}

	if opts.ValidateResult {
		computedRoot, err := s.HashTreeRoot()
		if err != nil {
			return nil, err
		}
		if block.StateRoot != computedRoot {
			return nil, newErr(InvalidPostState, "state root mismatch: expected %x, got %x", computedRoot, block.StateRoot)
		}
	}

	return s, nil
}

func verifyBlockSignatures(signed *types.SignedBlock, pubkeys []leansig.PublicKey) error {
	block := signed.Message
	if int(block.ProposerIndex) >= len(pubkeys) {
		return newErr(InvalidValidatorID, "proposer index %d out of range", block.ProposerIndex)
	}
	msgRoot, err := block.HashTreeRoot()
	if err != nil {
		return err
	}
	if err := leansig.Verify(pubkeys[block.ProposerIndex], uint32(block.Slot), msgRoot, signed.Signature); err != nil {
		return newErr(InvalidBlockSignatures, "proposer signature: %v", err)
	}

	for _, att := range block.Body.Attestations {
		if att.ValidatorID >= uint64(len(pubkeys)) {
			return newErr(InvalidValidatorID, "attester index %d out of range", att.ValidatorID)
		}
		attRoot, err := att.Message.HashTreeRoot()
		if err != nil {
			return err
		}
		if err := leansig.Verify(pubkeys[att.ValidatorID], uint32(att.Message.Slot), attRoot, att.Signature); err != nil {
			return newErr(InvalidBlockSignatures, "attestation signature (validator %d): %v", att.ValidatorID, err)
		}
	}
	return nil
}
