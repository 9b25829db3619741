package forkchoice

// Status is a point-in-time snapshot of the store's chain position,
// safe to read without holding the store's lock afterward.
type Status struct {
	Head          [32]byte
	HeadSlot      uint64
	SafeTarget    [32]byte
	JustifiedRoot [32]byte
	JustifiedSlot uint64
	FinalizedRoot [32]byte
	FinalizedSlot uint64
}

// GetStatus snapshots the store's current head/justified/finalized
// position for the req/resp status exchange and for duty scheduling.
func (c *Store) GetStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	var headSlot uint64
	if block, ok := c.Storage.GetBlock(c.Head); ok {
		headSlot = block.Slot
	}

	return Status{
		Head:          c.Head,
		HeadSlot:      headSlot,
		SafeTarget:    c.SafeTarget,
		JustifiedRoot: c.LatestJustified.Root,
		JustifiedSlot: c.LatestJustified.Slot,
		FinalizedRoot: c.LatestFinalized.Root,
		FinalizedSlot: c.LatestFinalized.Slot,
	}
}
