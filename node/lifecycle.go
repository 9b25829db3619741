package node

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/bomanaps/zeam/chain/forkchoice"
	"github.com/bomanaps/zeam/chain/statetransition"
	"github.com/bomanaps/zeam/leansig"
	"github.com/bomanaps/zeam/network"
	"github.com/bomanaps/zeam/network/gossipsub"
	"github.com/bomanaps/zeam/network/p2p"
	"github.com/bomanaps/zeam/observability/logging"
	"github.com/bomanaps/zeam/observability/metrics"
	"github.com/bomanaps/zeam/storage/memory"
	"github.com/bomanaps/zeam/types"
)

// New creates and wires up a new Node.
func New(cfg Config) (*Node, error) {
	log := logging.NewComponentLogger(logging.CompNode)

	// Generate genesis.
	genesisState, err := statetransition.GenerateGenesis(&types.GenesisSpec{
		GenesisTime:      cfg.GenesisTime,
		ValidatorPubkeys: cfg.ValidatorPubkeys,
	})
	if err != nil {
		return nil, fmt.Errorf("generate genesis: %w", err)
	}

	emptyBody := &types.BlockBody{Attestations: []*types.SignedAttestation{}}
	genesisBlock := &types.Block{
		Slot:          0,
		ProposerIndex: 0,
		ParentRoot:    types.ZeroHash,
		StateRoot:     types.ZeroHash,
		Body:          emptyBody,
	}

	stateRoot, err := genesisState.HashTreeRoot()
	if err != nil {
		return nil, fmt.Errorf("hash genesis state: %w", err)
	}
	genesisBlock.StateRoot = stateRoot

	genesisRoot, err := genesisBlock.HashTreeRoot()
	if err != nil {
		return nil, fmt.Errorf("hash genesis block: %w", err)
	}
	log.Info("genesis state initialized",
		"state_root", logging.ShortHash(stateRoot),
		"block_root", logging.ShortHash(genesisRoot),
	)

	// Initialize storage and fork choice.
	store := memory.New()
	fc, err := forkchoice.NewStore(genesisState, genesisBlock, cfg.GenesisTime, store)
	if err != nil {
		return nil, fmt.Errorf("init fork choice: %w", err)
	}

	// Create network host.
	host, err := network.NewHost(cfg.ListenAddr, cfg.NodeKeyPath, cfg.Bootnodes)
	if err != nil {
		return nil, fmt.Errorf("create host: %w", err)
	}

	netLog := logging.NewComponentLogger(logging.CompNetwork)
	netLog.Info("libp2p host started",
		"peer_id", host.P2P.ID().String()[:16]+"...",
		"addr", cfg.ListenAddr,
	)

	// Bridge the host's own libp2p secp256k1 identity into an ENR
	// identity, so peers resolving our bootnode ENR derive the same
	// peer ID our libp2p host actually answers to.
	var p2pManager *p2p.LocalNodeManager
	var p2pDiscovery *p2p.DiscoveryService
	if cfg.DiscoveryPort > 0 {
		rawKey, err := host.Key.Raw()
		if err != nil {
			host.Close()
			return nil, fmt.Errorf("extract host key: %w", err)
		}
		ecdsaKey, err := ethcrypto.ToECDSA(rawKey)
		if err != nil {
			host.Close()
			return nil, fmt.Errorf("convert host key to ENR identity: %w", err)
		}
		listenPort := listenAddrPort(cfg.ListenAddr)
		p2pManager, err = p2p.NewLocalNodeManager(ecdsaKey, cfg.DataDir, cfg.DiscoveryPort, listenPort)
		if err != nil {
			host.Close()
			return nil, fmt.Errorf("init local node manager: %w", err)
		}
		p2pDiscovery, err = p2p.NewDiscoveryService(p2pManager, cfg.DiscoveryPort, cfg.Bootnodes)
		if err != nil {
			p2pManager.Close()
			host.Close()
			return nil, fmt.Errorf("init discovery: %w", err)
		}
		netLog.Info("discv5 discovery enabled", "port", cfg.DiscoveryPort, "enr", p2pManager.Node().String())
	}

	// Join gossip topics.
	devnetID := cfg.DevnetID
	if devnetID == "" {
		devnetID = "devnet0"
	}
	topics, err := gossipsub.JoinTopics(host.PubSub, devnetID)
	if err != nil {
		host.Close()
		return nil, fmt.Errorf("join topics: %w", err)
	}

	gossipLog := logging.NewComponentLogger(logging.CompGossip)
	gossipLog.Info("gossipsub topics joined", "devnet", devnetID)

	clock := NewClock(cfg.GenesisTime)

	validatorKeys := make(map[uint64]forkchoice.Signer)
	if cfg.ValidatorKeysDir != "" {
		for _, idx := range cfg.ValidatorIDs {
			skPath := filepath.Join(cfg.ValidatorKeysDir, fmt.Sprintf("validator_%d.sk", idx))

			kp, err := leansig.LoadKeypair(skPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load keypair for validator %d: %w", idx, err)
			}
			validatorKeys[idx] = kp
			log.Info("loaded validator keypair", "validator_index", idx)
		}
	} else if len(cfg.ValidatorIDs) > 0 {
		log.Warn("no validator keys directory specified; validator duties will fail signing")
	}

	sigCache := NewSignatureCache()

	validator := &ValidatorDuties{
		Indices:            cfg.ValidatorIDs,
		Keys:               validatorKeys,
		FC:                 fc,
		Topics:             topics,
		Signatures:         sigCache,
		PublishBlock:       gossipsub.PublishBlock,
		PublishAttestation: gossipsub.PublishAttestation,
		Log:                logging.NewComponentLogger(logging.CompValidator),
	}

	n := &Node{
		FC:               fc,
		Host:             host,
		Topics:           topics,
		Clock:            clock,
		Validator:        validator,
		ValidatorPubkeys: cfg.ValidatorPubkeys,
		Signatures:       sigCache,
		P2PManager:       p2pManager,
		P2PDiscovery:     p2pDiscovery,
		log:              log,
	}

	// Register gossip and req/resp handlers.
	if err := registerHandlers(n, fc); err != nil {
		host.Close()
		return nil, err
	}

	// Connect to bootnodes.
	if len(cfg.Bootnodes) > 0 {
		network.ConnectBootnodes(host.Ctx, host.P2P, cfg.Bootnodes)
	}

	// Start metrics.
	if cfg.MetricsPort > 0 {
		metrics.NodeInfo.WithLabelValues("zeam", Version).Set(1)
		metrics.NodeStartTime.Set(float64(time.Now().Unix()))
		metrics.ValidatorsCount.Set(float64(len(cfg.ValidatorIDs)))
		metrics.Serve(cfg.MetricsPort)
		log.Info("metrics server started", "port", cfg.MetricsPort)
	}

	return n, nil
}

// listenAddrPort extracts the numeric port from a multiaddr like
// "/ip4/0.0.0.0/udp/9000/quic-v1", for advertising in the ENR's tcp
// field. Returns 0 if no port component is found.
func listenAddrPort(addr string) int {
	parts := strings.Split(addr, "/")
	for i, p := range parts {
		if (p == "udp" || p == "tcp") && i+1 < len(parts) {
			if port, err := strconv.Atoi(parts[i+1]); err == nil {
				return port
			}
		}
	}
	return 0
}
