package forkchoice

import (
	"fmt"

	"github.com/bomanaps/zeam/chain/statetransition"
	"github.com/bomanaps/zeam/leansig"
	"github.com/bomanaps/zeam/types"
)

// Signer abstracts the PQSig signing capability, matching
// leansig.Keypair.Sign's shape so a validator's real keypair or a test
// double can be passed interchangeably.
type Signer interface {
	Sign(epoch uint32, messageRoot [32]byte) (leansig.Signature, error)
}

// GetVoteTarget calculates the target checkpoint for validator votes:
// the deepest block the safe target already supports, walked further
// back if necessary until it lands on a justifiable slot.
func (c *Store) GetVoteTarget() (*types.Checkpoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getVoteTargetLocked()
}

func (c *Store) getVoteTargetLocked() (*types.Checkpoint, error) {
	targetRoot := c.Head

	safeBlock, safeOK := c.Storage.GetBlock(c.SafeTarget)
	for i := 0; i < types.JustificationLookback; i++ {
		tBlock, ok := c.Storage.GetBlock(targetRoot)
		if !ok || !safeOK || tBlock.Slot <= safeBlock.Slot {
			break
		}
		targetRoot = tBlock.ParentRoot
	}

	for {
		tBlock, ok := c.Storage.GetBlock(targetRoot)
		if !ok {
			break
		}
		justifiable, err := statetransition.IsJustifiableSlot(c.LatestFinalized.Slot, tBlock.Slot)
		if err == nil && justifiable {
			break
		}
		targetRoot = tBlock.ParentRoot
	}

	tBlock, ok := c.Storage.GetBlock(targetRoot)
	if !ok {
		return nil, fmt.Errorf("forkchoice: vote target block %x not found", targetRoot)
	}
	blockRoot, err := tBlock.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	return &types.Checkpoint{Root: blockRoot, Slot: tBlock.Slot}, nil
}

// ProduceBlock builds and signs a block for validatorIndex at slot,
// folding in every known vote whose source matches the post-state's
// justified checkpoint. Attestation inclusion is a fixed point: adding
// votes can itself advance what the post-state considers justified, so
// the candidate set is recomputed against each successive post-state
// until a round adds nothing new.
func (c *Store) ProduceBlock(slot uint64, validatorIndex uint32, signer Signer) (*types.SignedBlock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !statetransition.IsProposer(validatorIndex, slot, uint32(c.NumValidators)) {
		return nil, fmt.Errorf("forkchoice: validator %d is not proposer for slot %d", validatorIndex, slot)
	}

	c.acceptNewVotesLocked()
	headRoot := c.Head
	headState, ok := c.Storage.GetState(headRoot)
	if !ok {
		return nil, fmt.Errorf("forkchoice: head state %x not found", headRoot)
	}

	var attestations []*types.SignedAttestation
	for {
		candidate := &types.Block{
			Slot:          slot,
			ProposerIndex: validatorIndex,
			ParentRoot:    headRoot,
			Body:          &types.BlockBody{Attestations: attestations},
		}
		advanced, err := statetransition.ProcessSlots(headState, slot)
		if err != nil {
			return nil, err
		}
		postState, err := statetransition.ProcessBlock(advanced, candidate)
		if err != nil {
			return nil, err
		}

		included := make(map[uint64]bool, len(attestations))
		for _, sa := range attestations {
			included[sa.ValidatorID] = true
		}

		var added []*types.SignedAttestation
		for validatorID, sa := range c.LatestKnownVotes {
			if included[validatorID] {
				continue
			}
			data := sa.Message
			if _, ok := c.Storage.GetBlock(data.Head.Root); !ok {
				continue
			}
			if !data.Source.Equal(postState.LatestJustified) {
				continue
			}
			added = append(added, sa)
		}
		if len(added) == 0 {
			break
		}
		attestations = append(attestations, added...)
	}

	advanced, err := statetransition.ProcessSlots(headState, slot)
	if err != nil {
		return nil, err
	}
	block := &types.Block{
		Slot:          slot,
		ProposerIndex: validatorIndex,
		ParentRoot:    headRoot,
		Body:          &types.BlockBody{Attestations: attestations},
	}
	postState, err := statetransition.ProcessBlock(advanced, block)
	if err != nil {
		return nil, err
	}
	stateRoot, err := postState.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	block.StateRoot = stateRoot

	blockRoot, err := block.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(uint32(slot), blockRoot)
	if err != nil {
		return nil, fmt.Errorf("forkchoice: sign block: %w", err)
	}

	c.Storage.PutBlock(blockRoot, block)
	c.Storage.PutState(blockRoot, postState)

	return &types.SignedBlock{Message: block, Signature: sig}, nil
}

// ProduceAttestation builds and signs validatorIndex's vote for slot,
// voting for the current head with the computed vote target and the
// store's latest justified checkpoint as source.
func (c *Store) ProduceAttestation(slot uint64, validatorIndex uint64, signer Signer) (*types.SignedAttestation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	headRoot := c.Head
	headBlock, ok := c.Storage.GetBlock(headRoot)
	if !ok {
		return nil, fmt.Errorf("forkchoice: head block %x not found", headRoot)
	}
	target, err := c.getVoteTargetLocked()
	if err != nil {
		return nil, fmt.Errorf("forkchoice: vote target: %w", err)
	}

	data := &types.AttestationData{
		Slot:   slot,
		Head:   &types.Checkpoint{Root: headRoot, Slot: headBlock.Slot},
		Target: target,
		Source: c.LatestJustified,
	}
	msgRoot, err := data.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(uint32(slot), msgRoot)
	if err != nil {
		return nil, fmt.Errorf("forkchoice: sign attestation: %w", err)
	}

	return &types.SignedAttestation{ValidatorID: validatorIndex, Message: data, Signature: sig}, nil
}
