package forkchoice

import (
	"fmt"
	"time"

	"github.com/bomanaps/zeam/chain/statetransition"
	"github.com/bomanaps/zeam/observability/metrics"
	"github.com/bomanaps/zeam/types"
)

// OnBlock ingests a signed block: runs the state transition against its
// parent's post-state, persists the block and resulting state, folds its
// attestations in as on-chain votes, and recomputes the head. Already
// known blocks are a no-op, not an error, so replayed gossip is safe.
func (c *Store) OnBlock(signed *types.SignedBlock, opts statetransition.TransitionOptions) error {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	block := signed.Message
	blockRoot, err := block.HashTreeRoot()
	if err != nil {
		return err
	}
	if c.Storage.Has(blockRoot) {
		return nil
	}

	parentState, ok := c.Storage.GetState(block.ParentRoot)
	if !ok {
		return fmt.Errorf("forkchoice: parent state not found for block %x (parent %x)", blockRoot, block.ParentRoot)
	}

	state, err := statetransition.ApplyTransition(parentState, signed, opts)
	if err != nil {
		return fmt.Errorf("forkchoice: apply_transition: %w", err)
	}

	c.Storage.PutBlock(blockRoot, block)
	c.Storage.PutState(blockRoot, state)

	for _, att := range block.Body.Attestations {
		c.onVoteLocked(att, true)
	}

	c.LatestJustified = state.LatestJustified
	c.LatestFinalized = state.LatestFinalized
	c.updateHeadLocked()

	metrics.ForkChoiceBlockProcessingTime.Observe(time.Since(start).Seconds())
	metrics.StateTransitionTime.Observe(time.Since(start).Seconds())
	return nil
}
