package node

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bomanaps/zeam/chain/forkchoice"
	"github.com/bomanaps/zeam/leansig"
	"github.com/bomanaps/zeam/network"
	"github.com/bomanaps/zeam/network/gossipsub"
	"github.com/bomanaps/zeam/network/p2p"
)

const Version = "v0.1.0"

// Node is the main zeam node orchestrator.
type Node struct {
	FC               *forkchoice.Store
	Host             *network.Host
	Topics           *gossipsub.Topics
	Validator        *ValidatorDuties
	ValidatorPubkeys []leansig.PublicKey
	Signatures       *SignatureCache

	// P2P Services
	P2PManager   *p2p.LocalNodeManager
	P2PDiscovery *p2p.DiscoveryService

	Clock *Clock
	log   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func (n *Node) Close() {
	if n.cancel != nil {
		n.cancel()
	}
	if n.P2PDiscovery != nil {
		n.P2PDiscovery.Close()
	}
	if n.P2PManager != nil {
		n.P2PManager.Close()
	}
	if n.Host != nil {
		n.Host.Close()
	}
}

// SignatureCache holds the proposer signature for every block this node
// has locally applied, keyed by block root, so blocks can be re-served
// in their signed wire form over blocks-by-root without the Store (which
// only persists the unsigned message) needing to carry signatures too.
type SignatureCache struct {
	mu   sync.RWMutex
	sigs map[[32]byte]leansig.Signature
}

// NewSignatureCache returns an empty signature cache.
func NewSignatureCache() *SignatureCache {
	return &SignatureCache{sigs: make(map[[32]byte]leansig.Signature)}
}

// Put records the signature for a block root.
func (c *SignatureCache) Put(root [32]byte, sig leansig.Signature) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sigs[root] = sig
}

// Get returns the signature recorded for a block root, if any.
func (c *SignatureCache) Get(root [32]byte) (leansig.Signature, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sig, ok := c.sigs[root]
	return sig, ok
}

// Config holds node configuration.
type Config struct {
	GenesisTime      uint64
	ValidatorPubkeys []leansig.PublicKey
	ListenAddr       string
	NodeKeyPath      string
	Bootnodes        []string
	DiscoveryPort    int
	DataDir          string
	ValidatorIDs     []uint64
	ValidatorKeysDir string
	MetricsPort      int
	DevnetID         string
}
