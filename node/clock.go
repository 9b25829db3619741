package node

import (
	"time"

	"github.com/bomanaps/zeam/types"
)

// Clock tracks slot and interval timing relative to genesis.
type Clock struct {
	GenesisTime uint64
}

// NewClock creates a clock from genesis time (unix seconds).
func NewClock(genesisTime uint64) *Clock {
	return &Clock{GenesisTime: genesisTime}
}

// IsBeforeGenesis returns true if the current time is before genesis.
func (c *Clock) IsBeforeGenesis() bool {
	return uint64(time.Now().Unix()) < c.GenesisTime
}

// CurrentSlot returns the current slot number, or 0 if before genesis.
func (c *Clock) CurrentSlot() uint64 {
	now := uint64(time.Now().Unix())
	if now < c.GenesisTime {
		return 0
	}
	elapsed := now - c.GenesisTime
	return elapsed / types.SecondsPerSlot
}

// CurrentInterval returns the current interval within the slot (0-2):
// 0=propose, 1=attest, 2=aggregate/observe. Returns 0 if before genesis.
// SecondsPerSlot does not divide evenly by IntervalsPerSlot, so the
// interval is derived from the elapsed-seconds fraction of the slot
// rather than a fixed per-interval duration.
func (c *Clock) CurrentInterval() uint64 {
	now := uint64(time.Now().Unix())
	if now < c.GenesisTime {
		return 0
	}
	elapsed := now - c.GenesisTime
	interval := (elapsed % types.SecondsPerSlot) * types.IntervalsPerSlot / types.SecondsPerSlot
	if interval >= types.IntervalsPerSlot {
		interval = types.IntervalsPerSlot - 1
	}
	return interval
}

// CurrentTime returns the current unix time in seconds.
func (c *Clock) CurrentTime() uint64 {
	return uint64(time.Now().Unix())
}

// SlotTicker returns a channel firing once per second, the granularity
// at which CurrentInterval's boundaries land.
func (c *Clock) SlotTicker() *time.Ticker {
	return time.NewTicker(time.Second)
}
