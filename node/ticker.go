package node

import (
	"context"
	"fmt"
	"time"

	"github.com/bomanaps/zeam/observability/logging"
	"github.com/bomanaps/zeam/observability/metrics"
)

// Run starts the main event loop: a single-threaded reactor that, on
// every interval boundary, advances fork choice's clock, syncs if
// behind, then executes local validator duties for the interval.
func (n *Node) Run(ctx context.Context) error {
	n.log.Info("node started",
		"validators", fmt.Sprintf("%v", n.Validator.Indices),
		"peers", len(n.Host.P2P.Network().Peers()),
	)

	n.initialSync(ctx)
	go n.runDiscoveryLoop(ctx)

	ticker := n.Clock.SlotTicker()
	var lastSlot uint64
	lastDuty := [2]uint64{^uint64(0), 0}

	for {
		select {
		case <-ctx.Done():
			n.log.Info("node shutting down")
			if err := n.Host.Close(); err != nil {
				n.log.Warn("host close error", "err", err)
			}
			return nil
		case <-ticker.C:
			if n.Clock.IsBeforeGenesis() {
				continue
			}
			slot := n.Clock.CurrentSlot()
			interval := n.Clock.CurrentInterval()
			hasProposal := interval == 0 && n.Validator.HasProposal(slot)

			metrics.CurrentInterval.Set(float64(interval))
			n.FC.OnTick(n.Clock.CurrentTime(), hasProposal)

			status := n.FC.GetStatus()

			// Sync before duties: if head is behind, try catching up.
			if slot > status.HeadSlot+2 {
				for _, pid := range n.Host.P2P.Network().Peers() {
					if n.syncWithPeer(ctx, pid) {
						status = n.FC.GetStatus()
						break
					}
				}
			}

			// Execute validator duties only when synced, once per interval.
			duty := [2]uint64{slot, interval}
			if slot <= status.HeadSlot+2 && duty != lastDuty {
				n.Validator.OnInterval(ctx, slot, interval)
				lastDuty = duty
			}

			if slot != lastSlot {
				start := time.Now()
				status = n.FC.GetStatus()

				metrics.CurrentSlot.Set(float64(slot))
				metrics.HeadSlot.Set(float64(status.HeadSlot))
				metrics.LatestFinalizedSlot.Set(float64(status.FinalizedSlot))
				metrics.LatestJustifiedSlot.Set(float64(status.JustifiedSlot))
				peerCount := len(n.Host.P2P.Network().Peers())
				metrics.ConnectedPeers.Set(float64(peerCount))

				n.log.Info("slot",
					"slot", slot,
					"head", status.HeadSlot,
					"finalized", status.FinalizedSlot,
					"justified", status.JustifiedSlot,
					"peers", peerCount,
					"elapsed", logging.TimeSince(start),
				)
				lastSlot = slot
			}
		}
	}
}
