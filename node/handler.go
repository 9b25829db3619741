package node

import (
	"fmt"

	"github.com/bomanaps/zeam/chain/forkchoice"
	"github.com/bomanaps/zeam/chain/statetransition"
	"github.com/bomanaps/zeam/network/gossipsub"
	"github.com/bomanaps/zeam/network/reqresp"
	"github.com/bomanaps/zeam/observability/logging"
	"github.com/bomanaps/zeam/types"
)

// registerHandlers wires up gossip subscriptions and req/resp protocol handlers.
func registerHandlers(n *Node, fc *forkchoice.Store) error {
	gossipLog := logging.NewComponentLogger(logging.CompGossip)
	reqrespLog := logging.NewComponentLogger(logging.CompReqResp)

	// Register req/resp handlers.
	reqresp.RegisterReqResp(n.Host.P2P, &reqresp.ReqRespHandler{
		OnStatus: func(req reqresp.Status) reqresp.Status {
			status := fc.GetStatus()
			return reqresp.Status{
				Finalized: &types.Checkpoint{Root: status.FinalizedRoot, Slot: status.FinalizedSlot},
				Head:      &types.Checkpoint{Root: status.Head, Slot: status.HeadSlot},
			}
		},
		OnBlocksByRoot: func(roots [][32]byte) []*types.SignedBlock {
			var blocks []*types.SignedBlock
			for _, root := range roots {
				block, ok := fc.Storage.GetBlock(root)
				if !ok {
					continue
				}
				sig, ok := n.Signatures.Get(root)
				if !ok {
					reqrespLog.Warn("no cached signature for stored block, skipping",
						"root", logging.ShortHash(root),
						"slot", block.Slot,
					)
					continue
				}
				blocks = append(blocks, &types.SignedBlock{Message: block, Signature: sig})
			}
			return blocks
		},
	})

	// Subscribe to gossip.
	if err := gossipsub.SubscribeTopics(n.Host.Ctx, n.Topics, &gossipsub.GossipHandler{
		OnBlock: func(sb *types.SignedBlock) {
			block := sb.Message
			blockRoot, _ := block.HashTreeRoot()
			gossipLog.Info("received block via gossip",
				"slot", block.Slot,
				"proposer", block.ProposerIndex,
				"block_root", logging.ShortHash(blockRoot),
			)
			if err := n.IngestBlock(sb); err != nil {
				gossipLog.Warn("rejected gossip block",
					"slot", block.Slot,
					"err", err,
				)
			}
		},
		OnAttestation: func(sa *types.SignedAttestation) {
			if int(sa.ValidatorID) >= len(n.ValidatorPubkeys) {
				return
			}
			fc.OnAttestation(sa, n.ValidatorPubkeys[sa.ValidatorID])
		},
	}); err != nil {
		return fmt.Errorf("subscribe topics: %w", err)
	}

	return nil
}

// IngestBlock runs a received block (from gossip or sync) through fork
// choice and caches its signature so the block can be re-served to
// peers over blocks-by-root. Already-known blocks are a no-op.
func (n *Node) IngestBlock(sb *types.SignedBlock) error {
	blockRoot, err := sb.Message.HashTreeRoot()
	if err != nil {
		return err
	}
	if n.FC.Storage.Has(blockRoot) {
		return nil
	}
	if err := n.FC.OnBlock(sb, statetransition.TransitionOptions{
		VerifySignatures: true,
		ValidateResult:   true,
		ValidatorPubkeys: n.ValidatorPubkeys,
	}); err != nil {
		return err
	}
	n.Signatures.Put(blockRoot, sb.Signature)
	return nil
}
