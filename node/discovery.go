package node

import (
	"context"
	"time"

	"github.com/bomanaps/zeam/network"
)

// discoveryInterval is how often a running node polls Discv5 for fresh
// table entries and attempts to dial them as libp2p peers.
const discoveryInterval = 30 * time.Second

// runDiscoveryLoop periodically pulls random nodes from the Discv5 table
// and connects to any not already reachable over libp2p, so peers found
// after bootstrap (not just the static bootnode list) join the gossip
// mesh. No-op if discovery was not enabled for this node.
func (n *Node) runDiscoveryLoop(ctx context.Context) {
	if n.P2PDiscovery == nil {
		return
	}
	ticker := time.NewTicker(discoveryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			nodes := n.P2PDiscovery.LookupRandom()
			if len(nodes) == 0 {
				continue
			}
			network.ConnectDiscovered(ctx, n.Host.P2P, nodes)
		}
	}
}
