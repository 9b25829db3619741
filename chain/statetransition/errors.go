package statetransition

import "fmt"

// Kind identifies a state-transition failure class, matching the
// taxonomy every caller (the node's duty executor) branches on: STF
// errors are never propagated as node failures, the offending block is
// discarded and ingestion continues with the next event.
type Kind int

const (
	InvalidPreState Kind = iota
	InvalidLatestBlockHeader
	InvalidProposer
	InvalidParentRoot
	InvalidPostState
	InvalidJustifiableSlot
	InvalidValidatorID
	InvalidBlockSignatures
)

func (k Kind) String() string {
	switch k {
	case InvalidPreState:
		return "InvalidPreState"
	case InvalidLatestBlockHeader:
		return "InvalidLatestBlockHeader"
	case InvalidProposer:
		return "InvalidProposer"
	case InvalidParentRoot:
		return "InvalidParentRoot"
	case InvalidPostState:
		return "InvalidPostState"
	case InvalidJustifiableSlot:
		return "InvalidJustifiableSlot"
	case InvalidValidatorID:
		return "InvalidValidatorID"
	case InvalidBlockSignatures:
		return "InvalidBlockSignatures"
	default:
		return "Unknown"
	}
}

// Error wraps a Kind with context describing the specific check that failed.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("statetransition: %s: %s", e.Kind, e.Message)
}

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
