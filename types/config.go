package types

import "github.com/bomanaps/zeam/ssz"

// Config carries the fixed parameters of a chain instance, set once at
// genesis. Validator public keys are not part of consensus Config; they
// are loaded once by the node from genesis configuration (see package
// config) and never mutated by the state-transition function.
type Config struct {
	NumValidators uint32
	GenesisTime   uint64
}

const configSize = 4 + 8

// MarshalSSZ encodes the config's two fixed fields.
func (c *Config) MarshalSSZ() ([]byte, error) {
	var e ssz.Encoder
	e.PutUint32(c.NumValidators)
	e.PutUint64(c.GenesisTime)
	return e.Bytes(), nil
}

// UnmarshalSSZ decodes a config.
func (c *Config) UnmarshalSSZ(data []byte) error {
	if err := ssz.ExpectLength(data, configSize, "Config"); err != nil {
		return err
	}
	d := ssz.NewDecoder(data, "Config")
	numValidators, err := d.Uint32()
	if err != nil {
		return err
	}
	genesisTime, err := d.Uint64()
	if err != nil {
		return err
	}
	c.NumValidators = numValidators
	c.GenesisTime = genesisTime
	return ssz.ExpectConsumed(data, d.Cursor(), "Config")
}

// HashTreeRoot merkleizes the config's two fields.
func (c *Config) HashTreeRoot() ([32]byte, error) {
	nv := ssz.HashTreeRootUint32(c.NumValidators)
	gt := ssz.HashTreeRootUint64(c.GenesisTime)
	return ssz.MerkleizeContainer([]ssz.Root{nv, gt}), nil
}
