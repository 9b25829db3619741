package forkchoice

import (
	"time"

	"github.com/bomanaps/zeam/leansig"
	"github.com/bomanaps/zeam/observability/metrics"
	"github.com/bomanaps/zeam/types"
)

// OnAttestation ingests a gossiped attestation. pubkey is the attester's
// public key, resolved by the caller from its validator registry.
func (c *Store) OnAttestation(sa *types.SignedAttestation, pubkey leansig.PublicKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	if !c.validateAttestationDataLocked(sa.Message) {
		return
	}
	msgRoot, err := sa.Message.HashTreeRoot()
	if err != nil {
		return
	}
	if err := leansig.Verify(pubkey, uint32(sa.Message.Slot), msgRoot, sa.Signature); err != nil {
		return
	}

	c.onVoteLocked(sa, false)
	metrics.AttestationsValid.WithLabelValues("gossip").Inc()
	metrics.AttestationValidationTime.Observe(time.Since(start).Seconds())
}

// onVoteLocked records sa as the validator's latest vote. Votes carried
// in a block are folded straight into the known set (they were already
// signature-checked as part of the block's state transition); gossiped
// votes land in the staging set until the next accept boundary, and are
// dropped when their slot is more than one slot past the store's
// current slot.
func (c *Store) onVoteLocked(sa *types.SignedAttestation, isFromBlock bool) {
	validatorID := sa.ValidatorID

	if isFromBlock {
		if existing, ok := c.LatestKnownVotes[validatorID]; !ok || existing.Message.Slot < sa.Message.Slot {
			c.LatestKnownVotes[validatorID] = sa
		}
		if newVote, ok := c.LatestNewVotes[validatorID]; ok && newVote.Message.Slot <= sa.Message.Slot {
			delete(c.LatestNewVotes, validatorID)
		}
		return
	}

	currentSlot := c.Time / types.IntervalsPerSlot
	if sa.Message.Slot > currentSlot+1 {
		return
	}
	if existing, ok := c.LatestNewVotes[validatorID]; !ok || existing.Message.Slot < sa.Message.Slot {
		c.LatestNewVotes[validatorID] = sa
	}
}

// validateAttestationDataLocked checks that the source, target and head
// blocks are known, that the source block's slot is not after the
// target block's, that source and target slots match their blocks, and
// that the attestation slot is at most one slot past the current slot.
// The head block's slot is not compared with the target's.
func (c *Store) validateAttestationDataLocked(data *types.AttestationData) bool {
	sourceBlock, ok := c.Storage.GetBlock(data.Source.Root)
	if !ok {
		return false
	}
	targetBlock, ok := c.Storage.GetBlock(data.Target.Root)
	if !ok {
		return false
	}
	if _, ok := c.Storage.GetBlock(data.Head.Root); !ok {
		return false
	}
	if sourceBlock.Slot > targetBlock.Slot {
		return false
	}
	if sourceBlock.Slot != data.Source.Slot || targetBlock.Slot != data.Target.Slot {
		return false
	}

	currentSlot := c.Time / types.IntervalsPerSlot
	return data.Slot <= currentSlot+1
}
