package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/bomanaps/zeam/leansig"
	"gopkg.in/yaml.v3"
)

// GenesisConfig represents the parsed config.yaml for genesis: the
// wall-clock time slot 0 begins at, and the ordered set of validator
// public keys (index in the slice is validator index).
type GenesisConfig struct {
	GenesisTime      uint64
	ValidatorPubkeys []leansig.PublicKey
}

// rawGenesisConfig is the on-disk YAML shape. Either GenesisValidators
// or ValidatorCount must be set; if both are, GenesisValidators wins.
type rawGenesisConfig struct {
	GenesisTime       uint64   `yaml:"GENESIS_TIME"`
	GenesisValidators []string `yaml:"genesis_validators"`
	ValidatorCount    uint64   `yaml:"VALIDATOR_COUNT"`
}

// devnetKeygenActivationEpochs is the activation window used when
// deriving validator keys deterministically from VALIDATOR_COUNT: a
// devnet has no need for the full mainnet XMSS lifetime.
const devnetKeygenActivationEpochs = 1 << 16

// LoadGenesisConfig loads and parses a genesis config YAML file.
func LoadGenesisConfig(path string) (*GenesisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw rawGenesisConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var pubkeys []leansig.PublicKey
	switch {
	case len(raw.GenesisValidators) > 0:
		pubkeys = make([]leansig.PublicKey, len(raw.GenesisValidators))
		for i, hexStr := range raw.GenesisValidators {
			hexStr = strings.TrimPrefix(hexStr, "0x")
			pubkeyBytes, err := hex.DecodeString(hexStr)
			if err != nil {
				return nil, fmt.Errorf("invalid pubkey hex at index %d: %w", i, err)
			}
			pk, err := leansig.ParsePublicKey(pubkeyBytes)
			if err != nil {
				return nil, fmt.Errorf("pubkey at index %d: %w", i, err)
			}
			pubkeys[i] = pk
		}
	case raw.ValidatorCount > 0:
		pubkeys = make([]leansig.PublicKey, raw.ValidatorCount)
		for i := uint64(0); i < raw.ValidatorCount; i++ {
			kp, err := leansig.GenerateKeypair(i, 0, devnetKeygenActivationEpochs)
			if err != nil {
				return nil, fmt.Errorf("derive validator %d keypair: %w", i, err)
			}
			pubkeys[i] = kp.PublicKey()
		}
	default:
		return nil, fmt.Errorf("genesis config must set genesis_validators or VALIDATOR_COUNT")
	}

	return &GenesisConfig{
		GenesisTime:      raw.GenesisTime,
		ValidatorPubkeys: pubkeys,
	}, nil
}
