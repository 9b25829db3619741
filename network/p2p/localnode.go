package p2p

import (
	"crypto/ecdsa"
	"fmt"
	"net"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/p2p/enode"
	"github.com/ethereum/go-ethereum/p2p/enr"
)

// LocalNodeManager owns this node's ENR identity: the secp256k1 key
// Discv5 signs records with, and the enode.LocalNode that tracks this
// node's own advertised IP/ports as they're learned.
type LocalNodeManager struct {
	key   *ecdsa.PrivateKey
	local *enode.LocalNode
	db    *enode.DB
}

// NewLocalNodeManager opens the node's peer database (in-memory if dir
// is empty) and builds a fresh ENR identity bound to udpPort/tcpPort.
func NewLocalNodeManager(key *ecdsa.PrivateKey, dbDir string, udpPort, tcpPort int) (*LocalNodeManager, error) {
	if key == nil {
		generated, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("generate discovery key: %w", err)
		}
		key = generated
	}

	db, err := enode.OpenDB(dbDir)
	if err != nil {
		return nil, fmt.Errorf("open node db: %w", err)
	}

	local := enode.NewLocalNode(db, key)
	local.Set(enr.UDP(udpPort))
	local.Set(enr.TCP(tcpPort))

	return &LocalNodeManager{key: key, local: local, db: db}, nil
}

// PrivateKey returns the key the local ENR is signed with.
func (m *LocalNodeManager) PrivateKey() *ecdsa.PrivateKey {
	return m.key
}

// Node returns the current signed ENR for this node.
func (m *LocalNodeManager) Node() *enode.Node {
	return m.local.Node()
}

// SetFallbackAddr records the node's externally reachable address,
// used when no IP has been learned from a discovery ping response yet.
func (m *LocalNodeManager) SetFallbackAddr(ip string, udpPort, tcpPort int) {
	addr := net.ParseIP(ip)
	m.local.SetFallbackIP(addr)
	m.local.SetFallbackUDP(udpPort)
	m.local.Set(enr.TCP(tcpPort))
}

// Close releases the underlying node database.
func (m *LocalNodeManager) Close() {
	m.db.Close()
}
