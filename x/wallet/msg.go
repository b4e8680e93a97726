package wallet

import (
	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/coin"
	"github.com/iov-one/custodian/errors"
)

// Message paths, used to route transactions to handlers.
const (
	pathInitialize   = "wallet/initialize"
	pathAddSigner    = "wallet/add_signer"
	pathRemoveSigner = "wallet/remove_signer"
	pathUpdateConfig = "wallet/update_config"
	pathProposeTx    = "wallet/propose_tx"
	pathSignTx       = "wallet/sign_tx"
	pathExecuteTx    = "wallet/execute_tx"
	pathProposeBatch = "wallet/propose_batch"
	pathSignBatch    = "wallet/sign_batch"
	pathExecuteBatch = "wallet/execute_batch"
	pathFreeze       = "wallet/freeze"
	pathUnfreeze     = "wallet/unfreeze"
	pathPause        = "wallet/pause"
	pathUnpause      = "wallet/unpause"
)

var (
	_ custodian.Msg = (*InitializeMsg)(nil)
	_ custodian.Msg = (*AddSignerMsg)(nil)
	_ custodian.Msg = (*RemoveSignerMsg)(nil)
	_ custodian.Msg = (*UpdateConfigMsg)(nil)
	_ custodian.Msg = (*ProposeTxMsg)(nil)
	_ custodian.Msg = (*SignTxMsg)(nil)
	_ custodian.Msg = (*ExecuteTxMsg)(nil)
	_ custodian.Msg = (*ProposeBatchMsg)(nil)
	_ custodian.Msg = (*SignBatchMsg)(nil)
	_ custodian.Msg = (*ExecuteBatchMsg)(nil)
	_ custodian.Msg = (*FreezeMsg)(nil)
	_ custodian.Msg = (*UnfreezeMsg)(nil)
	_ custodian.Msg = (*PauseMsg)(nil)
	_ custodian.Msg = (*UnpauseMsg)(nil)
)

// InitializeMsg creates the wallet state. It can succeed only once.
type InitializeMsg struct {
	Admin  custodian.Address `json:"admin"`
	Config Config            `json:"config"`
	// InitialSigners are added as active owners with weight one.
	InitialSigners []custodian.Address `json:"initial_signers"`
}

func (m *InitializeMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *InitializeMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (InitializeMsg) Path() string { return pathInitialize }

func (m *InitializeMsg) Validate() error {
	if err := m.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	if err := m.Config.Validate(); err != nil {
		return err
	}
	if len(m.InitialSigners) == 0 {
		return errors.Wrap(errors.ErrEmpty, "initial signers")
	}
	for i, s := range m.InitialSigners {
		if err := s.Validate(); err != nil {
			return errors.Wrapf(err, "signer #%d", i)
		}
	}
	return nil
}

// AddSignerMsg registers a new signer. Admin only.
type AddSignerMsg struct {
	Signer custodian.Address `json:"signer"`
	Role   Role              `json:"role"`
	Weight uint32            `json:"weight"`
}

func (m *AddSignerMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *AddSignerMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (AddSignerMsg) Path() string { return pathAddSigner }

func (m *AddSignerMsg) Validate() error {
	if err := m.Signer.Validate(); err != nil {
		return errors.Wrap(err, "signer")
	}
	if err := m.Role.Validate(); err != nil {
		return err
	}
	if m.Weight < minWeight || m.Weight > maxWeight {
		return errors.Wrapf(ErrInvalidSigner, "weight %d out of range", m.Weight)
	}
	return nil
}

// RemoveSignerMsg deactivates a signer. Admin only.
type RemoveSignerMsg struct {
	Signer custodian.Address `json:"signer"`
}

func (m *RemoveSignerMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *RemoveSignerMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (RemoveSignerMsg) Path() string { return pathRemoveSigner }

func (m *RemoveSignerMsg) Validate() error {
	return errors.Wrap(m.Signer.Validate(), "signer")
}

// UpdateConfigMsg replaces the wallet configuration. Admin only.
type UpdateConfigMsg struct {
	Config Config `json:"config"`
}

func (m *UpdateConfigMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *UpdateConfigMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (UpdateConfigMsg) Path() string { return pathUpdateConfig }

func (m *UpdateConfigMsg) Validate() error {
	return m.Config.Validate()
}

// ProposeTxMsg proposes a transfer out of the custody pool. The first
// authenticated condition is taken as the proposer.
type ProposeTxMsg struct {
	Destination custodian.Address `json:"destination"`
	Amount      coin.Coin         `json:"amount"`
	Payload     []byte            `json:"payload"`
	// Nonce must be strictly greater than the last nonce this proposer
	// consumed.
	Nonce uint64 `json:"nonce"`
}

func (m *ProposeTxMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *ProposeTxMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (ProposeTxMsg) Path() string { return pathProposeTx }

func (m *ProposeTxMsg) Validate() error {
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "amount must be positive")
	}
	return nil
}

// SignTxMsg adds the caller's signature to a proposed transaction.
type SignTxMsg struct {
	TxID []byte `json:"tx_id"`
}

func (m *SignTxMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *SignTxMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (SignTxMsg) Path() string { return pathSignTx }

func (m *SignTxMsg) Validate() error {
	return validateID(m.TxID)
}

// ExecuteTxMsg settles an approved transaction.
type ExecuteTxMsg struct {
	TxID []byte `json:"tx_id"`
}

func (m *ExecuteTxMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *ExecuteTxMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (ExecuteTxMsg) Path() string { return pathExecuteTx }

func (m *ExecuteTxMsg) Validate() error {
	return validateID(m.TxID)
}

// ProposeBatchMsg groups existing proposed transactions into a batch.
type ProposeBatchMsg struct {
	TransactionIDs [][]byte `json:"transaction_ids"`
	Nonce          uint64   `json:"nonce"`
}

func (m *ProposeBatchMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *ProposeBatchMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (ProposeBatchMsg) Path() string { return pathProposeBatch }

func (m *ProposeBatchMsg) Validate() error {
	if len(m.TransactionIDs) == 0 {
		return errors.Wrap(ErrBatchSize, "empty batch")
	}
	for i, id := range m.TransactionIDs {
		if err := validateID(id); err != nil {
			return errors.Wrapf(err, "member #%d", i)
		}
	}
	return nil
}

// SignBatchMsg adds the caller's signature to a proposed batch.
type SignBatchMsg struct {
	BatchID []byte `json:"batch_id"`
}

func (m *SignBatchMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *SignBatchMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (SignBatchMsg) Path() string { return pathSignBatch }

func (m *SignBatchMsg) Validate() error {
	return validateID(m.BatchID)
}

// ExecuteBatchMsg settles an approved batch, best effort per member.
type ExecuteBatchMsg struct {
	BatchID []byte `json:"batch_id"`
}

func (m *ExecuteBatchMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *ExecuteBatchMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (ExecuteBatchMsg) Path() string { return pathExecuteBatch }

func (m *ExecuteBatchMsg) Validate() error {
	return validateID(m.BatchID)
}

// FreezeMsg declares an emergency freeze. Admin only.
type FreezeMsg struct {
	// Duration overrides the configured freeze duration when positive.
	Duration custodian.UnixDuration `json:"duration"`
}

func (m *FreezeMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *FreezeMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (FreezeMsg) Path() string { return pathFreeze }

func (m *FreezeMsg) Validate() error {
	if m.Duration < 0 {
		return errors.Wrap(errors.ErrInput, "negative duration")
	}
	return nil
}

// UnfreezeMsg lifts the freeze. Admin at any time, anyone once the advisory
// unfreeze deadline is reached.
type UnfreezeMsg struct{}

func (m *UnfreezeMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *UnfreezeMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (UnfreezeMsg) Path() string { return pathUnfreeze }
func (UnfreezeMsg) Validate() error { return nil }

// PauseMsg stops all proposal intake. Admin only.
type PauseMsg struct{}

func (m *PauseMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *PauseMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (PauseMsg) Path() string { return pathPause }
func (PauseMsg) Validate() error { return nil }

// UnpauseMsg resumes proposal intake. Admin only.
type UnpauseMsg struct{}

func (m *UnpauseMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *UnpauseMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }
func (UnpauseMsg) Path() string { return pathUnpause }
func (UnpauseMsg) Validate() error { return nil }

func validateID(id []byte) error {
	if len(id) != idLength {
		return errors.Wrapf(errors.ErrInput, "id must be %d bytes, got %d", idLength, len(id))
	}
	return nil
}
