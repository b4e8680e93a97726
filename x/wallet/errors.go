package wallet

import (
	"github.com/iov-one/custodian/errors"
)

var (
	// ErrAlreadyInitialized is returned when initializing a wallet that
	// already holds state.
	ErrAlreadyInitialized = errors.Register(1100, "already initialized")

	// ErrInvalidConfig is returned for a configuration that violates the
	// threshold or limit constraints.
	ErrInvalidConfig = errors.Register(1101, "invalid configuration")

	// ErrInvalidSigner is returned for signer registry violations, for
	// example adding a duplicate or removing below the threshold.
	ErrInvalidSigner = errors.Register(1102, "invalid signer")

	// ErrSignerNotActive is returned when an operation requires an active
	// signer identity.
	ErrSignerNotActive = errors.Register(1103, "signer not active")

	// ErrNonceUsed is returned when a proposal carries a nonce that is not
	// greater than the last one consumed by this identity.
	ErrNonceUsed = errors.Register(1104, "nonce already used")

	// ErrInvalidStatus is returned when an entity is not in the status the
	// operation requires.
	ErrInvalidStatus = errors.Register(1105, "invalid status")

	// ErrTimelockActive is returned when executing a transfer before its
	// timelock has passed.
	ErrTimelockActive = errors.Register(1106, "timelock active")

	// ErrSpendingLimit is returned when a transfer would exceed the daily
	// spending limit.
	ErrSpendingLimit = errors.Register(1107, "daily spending limit exceeded")

	// ErrBatchSize is returned for batches with no members or more members
	// than the configured maximum.
	ErrBatchSize = errors.Register(1108, "invalid batch size")

	// ErrFrozen is returned when proposing while the wallet is frozen.
	ErrFrozen = errors.Register(1109, "wallet frozen")

	// ErrPaused is returned when proposing while the wallet is paused.
	ErrPaused = errors.Register(1110, "wallet paused")

	// ErrAlreadySigned is returned when a signer signs the same entity
	// twice.
	ErrAlreadySigned = errors.Register(1111, "already signed")

	// ErrAlreadyBatched is returned when adding a transaction that already
	// belongs to a batch.
	ErrAlreadyBatched = errors.Register(1112, "transaction already in a batch")
)
