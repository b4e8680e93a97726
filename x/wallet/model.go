package wallet

import (
	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/coin"
	"github.com/iov-one/custodian/errors"
)

// Status describes where a transaction or a batch is in its lifecycle.
type Status int32

const (
	StatusInvalid Status = iota
	StatusProposed
	StatusApproved
	StatusExecuted
	// The remaining states are reserved. Expiry and rejection are lazy
	// guards, entities are never transitioned into these states.
	StatusRejected
	StatusExpired
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusProposed:
		return "proposed"
	case StatusApproved:
		return "approved"
	case StatusExecuted:
		return "executed"
	case StatusRejected:
		return "rejected"
	case StatusExpired:
		return "expired"
	case StatusCancelled:
		return "cancelled"
	default:
		return "invalid"
	}
}

func (s Status) Validate() error {
	if s < StatusProposed || s > StatusCancelled {
		return errors.Wrapf(errors.ErrState, "status %d", s)
	}
	return nil
}

// Role describes the function of a signer within the wallet. It carries no
// permission semantics, all active signers are equal when signing.
type Role int32

const (
	RoleInvalid Role = iota
	RoleOwner
	RoleTreasurer
	RoleAuditor
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleTreasurer:
		return "treasurer"
	case RoleAuditor:
		return "auditor"
	default:
		return "invalid"
	}
}

func (r Role) Validate() error {
	if r < RoleOwner || r > RoleAuditor {
		return errors.Wrapf(errors.ErrState, "role %d", r)
	}
	return nil
}

const (
	// minWeight and maxWeight bound the voting weight of a single signer.
	minWeight = 1
	maxWeight = 255
)

// Config holds the wallet parameters. All of them can be changed by the
// administrator after initialization.
type Config struct {
	// Threshold is the combined signature weight required for approval.
	Threshold uint32 `json:"threshold"`
	// TotalSigners is the declared capacity of the signer registry.
	TotalSigners uint32 `json:"total_signers"`
	// DailySpendingLimit caps the amount executed within one UTC day.
	DailySpendingLimit int64 `json:"daily_spending_limit"`
	// TimelockThreshold is the amount at which a transfer becomes subject
	// to the timelock delay.
	TimelockThreshold int64 `json:"timelock_threshold"`
	// TimelockDuration is the delay applied to large transfers.
	TimelockDuration custodian.UnixDuration `json:"timelock_duration"`
	// TransactionExpiry is how long a proposal can collect signatures.
	TransactionExpiry custodian.UnixDuration `json:"transaction_expiry"`
	// MaxBatchSize caps the number of transactions per batch.
	MaxBatchSize uint32 `json:"max_batch_size"`
	// EmergencyFreezeDuration sets the advisory unfreeze deadline.
	EmergencyFreezeDuration custodian.UnixDuration `json:"emergency_freeze_duration"`
}

func (c *Config) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Config) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

func (c *Config) Validate() error {
	if c.Threshold < 1 {
		return errors.Wrap(ErrInvalidConfig, "threshold must be at least one")
	}
	if c.Threshold > c.TotalSigners {
		return errors.Wrapf(ErrInvalidConfig, "threshold %d above signer capacity %d", c.Threshold, c.TotalSigners)
	}
	if c.DailySpendingLimit <= 0 {
		return errors.Wrap(ErrInvalidConfig, "daily spending limit must be positive")
	}
	if c.TimelockThreshold <= 0 {
		return errors.Wrap(ErrInvalidConfig, "timelock threshold must be positive")
	}
	if c.TimelockDuration <= 0 {
		return errors.Wrap(ErrInvalidConfig, "timelock duration must be positive")
	}
	if c.TransactionExpiry <= 0 {
		return errors.Wrap(ErrInvalidConfig, "transaction expiry must be positive")
	}
	if c.MaxBatchSize < 1 {
		return errors.Wrap(ErrInvalidConfig, "max batch size must be at least one")
	}
	if c.EmergencyFreezeDuration <= 0 {
		return errors.Wrap(ErrInvalidConfig, "freeze duration must be positive")
	}
	return nil
}

// State is the singleton administrative record of the wallet.
type State struct {
	// Admin may manage signers, configuration, pause and freeze.
	Admin custodian.Address `json:"admin"`
	// Version is the schema version, starts at 1.
	Version uint32 `json:"version"`
	// Paused blocks all proposal intake when true.
	Paused bool `json:"paused"`
}

func (s *State) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *State) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}

func (s *State) Validate() error {
	if err := s.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	if s.Version == 0 {
		return errors.Wrap(errors.ErrState, "version not set")
	}
	return nil
}

// Signer is one registered identity with its voting weight.
type Signer struct {
	Address   custodian.Address  `json:"address"`
	Role      Role               `json:"role"`
	Weight    uint32             `json:"weight"`
	Active    bool               `json:"active"`
	CreatedAt custodian.UnixTime `json:"created_at"`
}

func (s *Signer) Validate() error {
	if err := s.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if err := s.Role.Validate(); err != nil {
		return err
	}
	if s.Weight < minWeight || s.Weight > maxWeight {
		return errors.Wrapf(ErrInvalidSigner, "weight %d out of range", s.Weight)
	}
	return nil
}

// SignerList is the singleton registry of all signers, active or not.
type SignerList struct {
	Signers []*Signer `json:"signers"`
}

func (l *SignerList) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(l)
}

func (l *SignerList) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, l)
}

func (l *SignerList) Validate() error {
	seen := make(map[string]bool, len(l.Signers))
	for _, s := range l.Signers {
		if err := s.Validate(); err != nil {
			return err
		}
		key := string(s.Address)
		if seen[key] {
			return errors.Wrapf(errors.ErrDuplicate, "signer %s", s.Address)
		}
		seen[key] = true
	}
	return nil
}

// Get returns the signer with given address, or nil when not registered.
func (l *SignerList) Get(addr custodian.Address) *Signer {
	for _, s := range l.Signers {
		if s.Address.Equals(addr) {
			return s
		}
	}
	return nil
}

// ActiveCount returns the number of currently active signers.
func (l *SignerList) ActiveCount() int {
	var n int
	for _, s := range l.Signers {
		if s.Active {
			n++
		}
	}
	return n
}

// WeightOf returns the weight of given address if it belongs to an active
// signer, otherwise zero.
func (l *SignerList) WeightOf(addr custodian.Address) uint32 {
	s := l.Get(addr)
	if s == nil || !s.Active {
		return 0
	}
	return s.Weight
}

// Transaction is a single proposed transfer out of the custody pool.
type Transaction struct {
	ID []byte `json:"id"`
	// Sequence numbers proposals in arrival order, starting at one.
	Sequence    int64               `json:"sequence"`
	Destination custodian.Address   `json:"destination"`
	Amount      coin.Coin           `json:"amount"`
	Payload     []byte              `json:"payload"`
	Proposer    custodian.Address   `json:"proposer"`
	Signatures  []custodian.Address `json:"signatures"`
	Status      Status              `json:"status"`
	CreatedAt   custodian.UnixTime  `json:"created_at"`
	ExpiresAt   custodian.UnixTime  `json:"expires_at"`
	// TimelockUntil is zero for transfers below the timelock threshold.
	TimelockUntil custodian.UnixTime `json:"timelock_until"`
	// BatchID is set once the transaction is claimed by a batch.
	BatchID []byte `json:"batch_id"`
}

func (t *Transaction) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(t)
}

func (t *Transaction) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, t)
}

func (t *Transaction) Validate() error {
	if len(t.ID) != idLength {
		return errors.Wrapf(errors.ErrInput, "id length %d", len(t.ID))
	}
	if err := t.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := t.Proposer.Validate(); err != nil {
		return errors.Wrap(err, "proposer")
	}
	if err := t.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !t.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "amount must be positive")
	}
	if err := t.Status.Validate(); err != nil {
		return err
	}
	if err := t.ExpiresAt.Validate(); err != nil {
		return errors.Wrap(err, "expires at")
	}
	return nil
}

// HasSigned returns true if the address already signed this transaction.
func (t *Transaction) HasSigned(addr custodian.Address) bool {
	for _, s := range t.Signatures {
		if s.Equals(addr) {
			return true
		}
	}
	return false
}

// Batch groups transactions for collective approval. Execution is best
// effort, each member settles on its own.
type Batch struct {
	ID             []byte              `json:"id"`
	TransactionIDs [][]byte            `json:"transaction_ids"`
	Proposer       custodian.Address   `json:"proposer"`
	Signatures     []custodian.Address `json:"signatures"`
	Status         Status              `json:"status"`
	CreatedAt      custodian.UnixTime  `json:"created_at"`
	ExpiresAt      custodian.UnixTime  `json:"expires_at"`
}

func (b *Batch) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(b)
}

func (b *Batch) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, b)
}

func (b *Batch) Validate() error {
	if len(b.ID) != idLength {
		return errors.Wrapf(errors.ErrInput, "id length %d", len(b.ID))
	}
	if len(b.TransactionIDs) == 0 {
		return errors.Wrap(ErrBatchSize, "empty batch")
	}
	if err := b.Proposer.Validate(); err != nil {
		return errors.Wrap(err, "proposer")
	}
	if err := b.Status.Validate(); err != nil {
		return err
	}
	return nil
}

// HasSigned returns true if the address already signed this batch.
func (b *Batch) HasSigned(addr custodian.Address) bool {
	for _, s := range b.Signatures {
		if s.Equals(addr) {
			return true
		}
	}
	return false
}

// DailySpending tracks the executed volume for one UTC day. The limit is a
// snapshot of the configured value, taken when the first spending of the day
// is committed.
type DailySpending struct {
	Day   custodian.UnixTime `json:"day"`
	Spent int64              `json:"spent"`
	Limit int64              `json:"limit"`
}

func (d *DailySpending) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(d)
}

func (d *DailySpending) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, d)
}

func (d *DailySpending) Validate() error {
	if d.Spent < 0 {
		return errors.Wrap(errors.ErrAmount, "spent")
	}
	if d.Limit <= 0 {
		return errors.Wrap(errors.ErrAmount, "limit")
	}
	return nil
}

// FreezeState is the singleton emergency freeze record.
type FreezeState struct {
	Frozen bool `json:"frozen"`
	// UnfreezeAt is advisory. The admin may unfreeze earlier, anyone may
	// unfreeze once the deadline is reached.
	UnfreezeAt custodian.UnixTime `json:"unfreeze_at"`
}

func (f *FreezeState) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(f)
}

func (f *FreezeState) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, f)
}

func (f *FreezeState) Validate() error {
	if f.Frozen && f.UnfreezeAt == 0 {
		return errors.Wrap(errors.ErrState, "frozen without an unfreeze deadline")
	}
	return nil
}

// NonceRecord remembers the highest nonce consumed by one identity.
type NonceRecord struct {
	LastUsed uint64 `json:"last_used"`
}

func (n *NonceRecord) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(n)
}

func (n *NonceRecord) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, n)
}

func (n *NonceRecord) Validate() error {
	return nil
}

// TimelockQueue is an operational view over timelocked transactions. It
// does not drive execution, the timelock itself is checked on execute.
type TimelockQueue struct {
	Pending  [][]byte `json:"pending"`
	Executed [][]byte `json:"executed"`
}

func (q *TimelockQueue) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(q)
}

func (q *TimelockQueue) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, q)
}

func (q *TimelockQueue) Validate() error {
	return nil
}
