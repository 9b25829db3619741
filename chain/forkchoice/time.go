package forkchoice

import (
	"github.com/bomanaps/zeam/observability/metrics"
	"github.com/bomanaps/zeam/types"
)

// OnTick advances the store to wallClockTime, the current unix time in
// seconds. hasProposal signals that the interval boundary
// being crossed is this node's own proposal slot, so pending votes
// should be accepted a tick early to give the proposer a fresh head.
func (c *Store) OnTick(wallClockTime uint64, hasProposal bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTickLocked(wallClockTime, hasProposal)
}

func (c *Store) onTickLocked(wallClockTime uint64, hasProposal bool) {
	if wallClockTime <= c.GenesisTime {
		return
	}
	// Store time counts intervals since genesis: each whole slot adds
	// IntervalsPerSlot, and the seconds into the current slot map onto
	// its 3 intervals the same way node.Clock.CurrentInterval does.
	elapsed := wallClockTime - c.GenesisTime
	targetInterval := (elapsed/types.SecondsPerSlot)*types.IntervalsPerSlot +
		(elapsed%types.SecondsPerSlot)*types.IntervalsPerSlot/types.SecondsPerSlot
	for c.Time < targetInterval {
		shouldSignal := hasProposal && c.Time+1 == targetInterval
		c.tickIntervalLocked(shouldSignal)
	}
}

// tickIntervalLocked advances by a single interval. Per slot there are
// IntervalsPerSlot=3 intervals: 0=propose, 1=attest, 2=aggregate/observe.
func (c *Store) tickIntervalLocked(hasProposal bool) {
	c.Time++
	switch c.Time % types.IntervalsPerSlot {
	case 0: // propose
		if hasProposal {
			c.acceptNewVotesLocked()
		}
	case 1: // attest
		// Validators read Head/SafeTarget via their own duty logic; no
		// store-side action needed at this boundary.
	case 2: // aggregate/observe
		c.updateSafeTargetLocked()
		c.acceptNewVotesLocked()
	}
}

// AcceptNewVotes promotes every staged gossip vote to known and
// recomputes the head.
func (c *Store) AcceptNewVotes() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acceptNewVotesLocked()
}

func (c *Store) acceptNewVotesLocked() {
	for id, sa := range c.LatestNewVotes {
		c.LatestKnownVotes[id] = sa
	}
	c.LatestNewVotes = make(map[uint64]*types.SignedAttestation)
	c.updateHeadLocked()
}

func (c *Store) updateHeadLocked() {
	c.Head = GetHead(c.Storage.GetAllBlocks(), c.LatestJustified.Root, c.LatestKnownVotes)
	if block, ok := c.Storage.GetBlock(c.Head); ok {
		metrics.HeadSlot.Set(float64(block.Slot))
	}
	metrics.LatestJustifiedSlot.Set(float64(c.LatestJustified.Slot))
	metrics.LatestFinalizedSlot.Set(float64(c.LatestFinalized.Slot))
}

// UpdateSafeTarget recomputes the safe target: the deepest head
// supported by a ceil(2N/3) supermajority of staged votes, used by
// attesters to avoid voting for a target likely to be reorged.
func (c *Store) UpdateSafeTarget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateSafeTargetLocked()
}

func (c *Store) updateSafeTargetLocked() {
	minScore := int(ceilDiv(c.NumValidators*2, 3))
	blocks := c.Storage.GetAllBlocks()
	c.SafeTarget = getHeadWithMinScore(blocks, c.LatestJustified.Root, c.LatestNewVotes, minScore)
	if block, ok := c.Storage.GetBlock(c.SafeTarget); ok {
		metrics.SafeTargetSlot.Set(float64(block.Slot))
	}
}
