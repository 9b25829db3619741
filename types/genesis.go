package types

import "github.com/bomanaps/zeam/leansig"

// GenesisSpec describes the inputs needed to build the genesis state:
// the wall-clock time slot 0 begins at, and the ordered set of
// validator public keys (index in the slice is validator index).
type GenesisSpec struct {
	GenesisTime      uint64
	ValidatorPubkeys []leansig.PublicKey
}
