package types

// Protocol constants (mainnet preset).
const (
	// SecondsPerSlot does not divide evenly by IntervalsPerSlot (4/3), so
	// there is no integer SecondsPerInterval; interval boundaries within
	// a slot are computed from elapsed seconds directly, not by dividing
	// by a fixed per-interval duration.
	SecondsPerSlot   = 4
	IntervalsPerSlot = 3
	MaxRequestBlocks = 1024
	SlotsPerEpoch    = 32

	// JustificationLookback bounds how many blocks an attester walks back
	// from the current head toward the safe target when picking a vote
	// target, trading off liveness against voting for a likely-to-reorg tip.
	JustificationLookback = 3

	HistoricalRootsLimit   = 1 << 18 // 262144
	ValidatorRegistryLimit = 1 << 12 // 4096

	// JustificationValsLimit bounds justifications_validators: one bit
	// per validator per justification-candidate root, so its bitlist
	// limit is the validator registry limit itself, not a product with
	// the number of candidate roots.
	JustificationValsLimit = ValidatorRegistryLimit

	// NodeListLimit bounds the bootnode/ENR list length.
	NodeListLimit = 1 << 17
)

// ZeroHash is the 32-byte zero hash used as genesis parent and padding
// for skipped slots.
var ZeroHash [32]byte
