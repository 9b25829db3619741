package gossipsub

import (
	"context"
	"fmt"
	"time"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/host"
)

// Gossip topic names. Each topic carries the raw SSZ encoding of its
// message type, snappy-compressed, with no additional framing.
const (
	BlockTopicFmt = "/leanconsensus/%s/block/ssz_snappy"
	VoteTopicFmt  = "/leanconsensus/%s/vote/ssz_snappy"
)

// Topics holds the two subscribed gossipsub topics: block=0, vote=1.
type Topics struct {
	Block *pubsub.Topic
	Vote  *pubsub.Topic
}

// NewGossipSub creates a configured gossipsub instance.
func NewGossipSub(ctx context.Context, h host.Host) (*pubsub.PubSub, error) {
	return pubsub.NewGossipSub(ctx, h,
		pubsub.WithMessageSignaturePolicy(pubsub.StrictNoSign),
		pubsub.WithGossipSubParams(pubsub.GossipSubParams{
			D:                         8,
			Dlo:                       6,
			Dhi:                       12,
			Dlazy:                     6,
			HeartbeatInterval:         700 * time.Millisecond,
			FanoutTTL:                 60 * time.Second,
			HistoryLength:             6,
			HistoryGossip:             3,
			GossipFactor:              0.25,
			PruneBackoff:              time.Minute,
			UnsubscribeBackoff:        10 * time.Second,
			Connectors:                8,
			MaxPendingConnections:     128,
			ConnectionTimeout:         30 * time.Second,
			DirectConnectTicks:        300,
			DirectConnectInitialDelay: time.Second,
			OpportunisticGraftTicks:   60,
			OpportunisticGraftPeers:   2,
			GraftFloodThreshold:       10 * time.Second,
			MaxIHaveLength:            5000,
			MaxIHaveMessages:          10,
			IWantFollowupTime:         3 * time.Second,
		}),
		pubsub.WithSeenMessagesTTL(24*time.Second),
		pubsub.WithMessageIdFn(ComputeMessageID),
	)
}

// JoinTopics joins the block and vote gossip topics for a devnet.
func JoinTopics(ps *pubsub.PubSub, devnetID string) (*Topics, error) {
	blockTopic, err := ps.Join(fmt.Sprintf(BlockTopicFmt, devnetID))
	if err != nil {
		return nil, fmt.Errorf("join block topic: %w", err)
	}
	voteTopic, err := ps.Join(fmt.Sprintf(VoteTopicFmt, devnetID))
	if err != nil {
		return nil, fmt.Errorf("join vote topic: %w", err)
	}
	return &Topics{Block: blockTopic, Vote: voteTopic}, nil
}
