package p2p

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/p2p/enode"
	libp2pcrypto "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
)

// ENRToAddrInfo resolves an "enr:"-prefixed bootnode string to a libp2p
// AddrInfo, bridging Discv5's secp256k1 identity into libp2p's peer ID
// space the same way NodeToAddrInfo bridges a resolved discovery node.
func ENRToAddrInfo(enr string) (*peer.AddrInfo, error) {
	node, err := enode.Parse(enode.ValidSchemes, enr)
	if err != nil {
		return nil, fmt.Errorf("parse enr: %w", err)
	}
	return nodeToAddrInfo(node)
}

// NodeToAddrInfo bridges a Discv5-resolved enode into a libp2p AddrInfo,
// the same secp256k1-identity conversion ENRToAddrInfo applies to a
// bootnode string.
func NodeToAddrInfo(node *enode.Node) (*peer.AddrInfo, error) {
	return nodeToAddrInfo(node)
}

func nodeToAddrInfo(node *enode.Node) (*peer.AddrInfo, error) {
	ip := node.IP()
	if ip == nil {
		return nil, fmt.Errorf("enr has no ip entry")
	}

	pubkey := node.Pubkey()
	if pubkey == nil {
		return nil, fmt.Errorf("enr has no secp256k1 pubkey entry")
	}
	libp2pPub, err := libp2pcrypto.UnmarshalSecp256k1PublicKey(crypto.CompressPubkey(pubkey))
	if err != nil {
		return nil, fmt.Errorf("convert enr pubkey: %w", err)
	}
	id, err := peer.IDFromPublicKey(libp2pPub)
	if err != nil {
		return nil, fmt.Errorf("derive peer id: %w", err)
	}

	proto := "tcp"
	ipProto := "ip4"
	if ip.To4() == nil {
		ipProto = "ip6"
	}
	ma, err := multiaddr.NewMultiaddr(fmt.Sprintf("/%s/%s/%s/%d/p2p/%s", ipProto, ip.String(), proto, node.TCP(), id.String()))
	if err != nil {
		return nil, fmt.Errorf("build multiaddr: %w", err)
	}
	return peer.AddrInfoFromP2pAddr(ma)
}
